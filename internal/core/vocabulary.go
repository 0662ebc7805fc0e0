package core

import (
	"fmt"
	"slices"
	"strings"
)

// Tag is a universal part-of-speech code.
type Tag string

const (
	TagAdjective     Tag = "ADJ"
	TagAdposition    Tag = "ADP"
	TagAdverb        Tag = "ADV"
	TagAuxiliary     Tag = "AUX"
	TagConjunction   Tag = "CCONJ"
	TagDeterminer    Tag = "DET"
	TagInterjection  Tag = "INTJ"
	TagNoun          Tag = "NOUN"
	TagNumeral       Tag = "NUM"
	TagParticle      Tag = "PART"
	TagPronoun       Tag = "PRON"
	TagProperNoun    Tag = "PROPN"
	TagPunctuation   Tag = "PUNCT"
	TagSubordinating Tag = "SCONJ"
	TagSymbol        Tag = "SYM"
	TagVerb          Tag = "VERB"
	TagOther         Tag = "X"
)

var tags = []Tag{
	TagAdjective, TagAdposition, TagAdverb, TagAuxiliary, TagConjunction,
	TagDeterminer, TagInterjection, TagNoun, TagNumeral, TagParticle,
	TagPronoun, TagProperNoun, TagPunctuation, TagSubordinating, TagSymbol,
	TagVerb, TagOther,
}

// Tags lists the full vocabulary in a stable order. The result is a copy.
func Tags() []Tag {
	return slices.Clone(tags)
}

// Tier selects the annotator model variant.
type Tier int

const (
	TierStandard Tier = iota
	TierAccurate
)

func (t Tier) String() string {
	if t == TierAccurate {
		return "accurate"
	}
	return "standard"
}

// Language identifies the language the annotator is built for.
type Language struct {
	Code string
	Name string
}

var (
	English = Language{Code: "en", Name: "English"}
	German  = Language{Code: "de", Name: "German"}
	French  = Language{Code: "fr", Name: "French"}
	Italian = Language{Code: "it", Name: "Italian"}
)

func (l Language) String() string { return l.Code }

// NormalizeTag maps annotator output onto the vocabulary. Older two-letter
// style codes (CONJ, INJ) are folded into their universal counterparts.
func NormalizeTag(raw string) Tag {
	switch t := Tag(strings.ToUpper(strings.TrimSpace(raw))); t {
	case "CONJ":
		return TagConjunction
	case "INJ":
		return TagInterjection
	default:
		for _, known := range tags {
			if t == known {
				return t
			}
		}
		return TagOther
	}
}

var tagAliases = func() map[string]Tag {
	m := map[string]Tag{
		"adjective":                 TagAdjective,
		"adposition":                TagAdposition,
		"adverb":                    TagAdverb,
		"auxiliary verb":            TagAuxiliary,
		"auxiliary_verb":            TagAuxiliary,
		"auxiliary-verb":            TagAuxiliary,
		"auxiliary":                 TagAuxiliary,
		"coordinating conjunction":  TagConjunction,
		"coordinating_conjunction":  TagConjunction,
		"coordinating-conjunction":  TagConjunction,
		"conjunction":               TagConjunction,
		"conj":                      TagConjunction,
		"determiner":                TagDeterminer,
		"interjection":              TagInterjection,
		"inj":                       TagInterjection,
		"noun":                      TagNoun,
		"numeral":                   TagNumeral,
		"number":                    TagNumeral,
		"particle":                  TagParticle,
		"pronoun":                   TagPronoun,
		"proper noun":               TagProperNoun,
		"proper_noun":               TagProperNoun,
		"proper-noun":               TagProperNoun,
		"punctuation":               TagPunctuation,
		"subordinating conjunction": TagSubordinating,
		"subordinating_conjunction": TagSubordinating,
		"subordinating-conjunction": TagSubordinating,
		"symbol":                    TagSymbol,
		"verb":                      TagVerb,
		"other":                     TagOther,
	}
	for _, t := range tags {
		m[strings.ToLower(string(t))] = t
	}
	return m
}()

var languageAliases = map[string]Language{
	"english":         English,
	"en":              English,
	"en_core_web_sm":  English,
	"german":          German,
	"deutsch":         German,
	"de":              German,
	"de_core_news_sm": German,
	"french":          French,
	"francaise":       French,
	"fr":              French,
	"fr_core_news_sm": French,
	"italian":         Italian,
	"italiano":        Italian,
	"it":              Italian,
	"it_core_news_sm": Italian,
}

// ResolveTag looks a user supplied part-of-speech name up in the vocabulary.
func ResolveTag(name string) (Tag, error) {
	if t, ok := tagAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedTag, name)
}

// ResolveLanguage looks a user supplied language name up in the vocabulary.
func ResolveLanguage(name string) (Language, error) {
	if l, ok := languageAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return l, nil
	}
	return Language{}, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, name)
}
