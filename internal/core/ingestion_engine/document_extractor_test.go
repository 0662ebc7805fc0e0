package ingestion_engine

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/tokenharvest/internal/core"
)

func withoutTidy(e *DocconvExtractor) *DocconvExtractor {
	e.tidy = func(io.Reader, bool) ([]byte, error) {
		return nil, errors.New(`exec: "tidy": executable file not found in $PATH`)
	}
	return e
}

func TestDocconvExtractor_ExtractText(t *testing.T) {
	t.Run("Should drop markup and keep the page text", func(t *testing.T) {
		html := `<html><head><title>News</title></head><body><p>Apple hired Dave on Wall Street.</p></body></html>`

		text, err := NewDocconvExtractor(false).ExtractText([]byte(html))
		require.NoError(t, err)

		assert.Contains(t, text, "Apple hired Dave on Wall Street.")
		assert.NotContains(t, text, "<p>")
	})

	t.Run("Should extract text when tidy is not installed", func(t *testing.T) {
		html := `<!doctype html><html><head><meta charset="utf-8"><title>News</title>
<style>p { color: red }</style></head>
<body><script>var x = "<p>hidden</p>";</script>
<p>Apple hired Dave<br>on Wall Street &amp; more.<p>Julie left.</body></html>`

		text, err := withoutTidy(NewDocconvExtractor(false)).ExtractText([]byte(html))
		require.NoError(t, err)

		assert.Equal(t, "Apple hired Dave\non Wall Street & more.\nJulie left.", text)
	})

	t.Run("Should fall back when tidy returns nothing", func(t *testing.T) {
		e := NewDocconvExtractor(false)
		e.tidy = func(io.Reader, bool) ([]byte, error) { return nil, nil }

		text, err := e.ExtractText([]byte(`<p>Apple hired Dave.</p>`))
		require.NoError(t, err)
		assert.Equal(t, "Apple hired Dave.", text)
	})

	t.Run("Should use tidy output when it is available", func(t *testing.T) {
		e := NewDocconvExtractor(false)
		e.tidy = func(io.Reader, bool) ([]byte, error) {
			return []byte(`<html><body><p>Tidied text.</p></body></html>`), nil
		}

		text, err := e.ExtractText([]byte(`<p>raw`))
		require.NoError(t, err)
		assert.Equal(t, "Tidied text.", text)
	})

	t.Run("Should fail on a page without text", func(t *testing.T) {
		_, err := NewDocconvExtractor(false).ExtractText([]byte("<html><body></body></html>"))
		assert.ErrorIs(t, err, core.ErrIO)

		_, err = withoutTidy(NewDocconvExtractor(false)).ExtractText([]byte("<html><body><script>x()</script></body></html>"))
		assert.ErrorIs(t, err, core.ErrIO)
	})
}
