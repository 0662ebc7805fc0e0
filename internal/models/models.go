package models

import (
	"time"
)

// Run represents one finished extraction.
type Run struct {
	ID         string    `db:"id" json:"id"`
	SourceKind string    `db:"source_kind" json:"source_kind"` // file | literal | scrape
	Source     string    `db:"source" json:"source"`           // path, URL or empty for literal text
	Tag        string    `db:"tag" json:"tag"`
	Language   string    `db:"language" json:"language"`
	Tier       string    `db:"tier" json:"tier"`
	TokenCount int       `db:"token_count" json:"token_count"`
	Tokens     []string  `db:"-" json:"tokens"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
