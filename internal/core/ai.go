package core

import "context"

// TaggedToken is one token as classified by an annotator.
type TaggedToken struct {
	Text string `json:"text"`
	Tag  Tag    `json:"tag"`
}

// Annotator splits text into tokens and assigns each a part-of-speech tag.
type Annotator interface {
	Annotate(ctx context.Context, text string) ([]TaggedToken, error)
}

// AnnotatorFactory builds an annotator for a language and model tier.
// Construction failures must satisfy errors.Is(err, ErrModelUnavailable).
type AnnotatorFactory func(ctx context.Context, lang Language, tier Tier) (Annotator, error)
