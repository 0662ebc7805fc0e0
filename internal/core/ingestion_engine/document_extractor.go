package ingestion_engine

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"code.sajari.com/docconv"
	"golang.org/x/net/html"

	"github.com/markdave123-py/tokenharvest/internal/core"
)

var _ core.TextExtractor = (*DocconvExtractor)(nil)

// DocconvExtractor implements core.TextExtractor using sajari/docconv.
type DocconvExtractor struct {
	useReadability bool
	tidy           func(r io.Reader, xmlIn bool) ([]byte, error)
}

func NewDocconvExtractor(useReadability bool) *DocconvExtractor {
	return &DocconvExtractor{useReadability: useReadability, tidy: docconv.Tidy}
}

// ExtractText strips markup from a fetched page. With readability enabled
// only the main article body is kept.
//
// Pages are normalised with tidy when the binary is installed. Without it,
// or when tidy yields nothing, the page is tokenized directly.
func (e *DocconvExtractor) ExtractText(page []byte) (string, error) {
	text := ""
	if cleanXML, err := e.tidy(bytes.NewReader(page), false); err == nil && len(cleanXML) > 0 {
		if e.useReadability {
			cleanXML = docconv.HTMLReadability(bytes.NewReader(cleanXML))
		}
		text = strings.TrimSpace(docconv.HTMLToText(bytes.NewReader(cleanXML)))
	}

	if text == "" {
		var err error
		if text, err = e.fallbackText(page); err != nil {
			return "", fmt.Errorf("%w: docconv: extract html (readability: %t): %w", core.ErrIO, e.useReadability, err)
		}
	}
	if text == "" {
		return "", fmt.Errorf("%w: docconv: extracted empty text", core.ErrIO)
	}
	return text, nil
}

func (e *DocconvExtractor) fallbackText(page []byte) (string, error) {
	if e.useReadability {
		// justext parses raw html itself and returns plain paragraphs.
		return strings.TrimSpace(string(docconv.HTMLReadability(bytes.NewReader(page)))), nil
	}
	return tokenizeText(page)
}

// skippedElements never contribute text.
var skippedElements = map[string]bool{
	"head": true, "script": true, "style": true, "noscript": true,
	"template": true, "svg": true, "iframe": true, "object": true,
}

// breakElements start a new line in the extracted text.
var breakElements = map[string]bool{
	"br": true, "p": true, "div": true, "li": true, "tr": true, "article": true, "section": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true, "blockquote": true,
}

// tokenizeText walks the page with the html tokenizer and keeps the text of
// every element outside skippedElements.
func tokenizeText(page []byte) (string, error) {
	var b strings.Builder
	z := html.NewTokenizer(bytes.NewReader(page))
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return "", err
			}
			return collapseLines(b.String()), nil
		case html.StartTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if skippedElements[tag] {
				skip++
			} else if skip == 0 && breakElements[tag] {
				b.WriteByte('\n')
			}
		case html.SelfClosingTagToken:
			name, _ := z.TagName()
			if skip == 0 && breakElements[string(name)] {
				b.WriteByte('\n')
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if skippedElements[string(name)] && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		}
	}
}

func collapseLines(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			kept = append(kept, l)
		}
	}
	return strings.Join(kept, "\n")
}
