package core

import "context"

// Fetcher downloads the raw bytes of a web page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// TextExtractor turns a fetched HTML page into plain text.
type TextExtractor interface {
	ExtractText(html []byte) (string, error)
}
