package ingestion_engine

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/tokenharvest/internal/core"
)

func TestWebFetcher_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/article":
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<p>Apple ate.</p>"))
		case "/moved":
			http.Redirect(w, r, "/article", http.StatusFound)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	f := NewWebFetcher(5 * time.Second)

	t.Run("Should return the raw page body", func(t *testing.T) {
		body, err := f.Fetch(t.Context(), srv.URL+"/article")
		require.NoError(t, err)
		assert.Equal(t, "<p>Apple ate.</p>", string(body))
	})

	t.Run("Should follow redirects", func(t *testing.T) {
		body, err := f.Fetch(t.Context(), srv.URL+"/moved")
		require.NoError(t, err)
		assert.Equal(t, "<p>Apple ate.</p>", string(body))
	})

	t.Run("Should treat error statuses as io errors", func(t *testing.T) {
		_, err := f.Fetch(t.Context(), srv.URL+"/missing")
		assert.ErrorIs(t, err, core.ErrIO)
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("Should treat transport failures as io errors", func(t *testing.T) {
		_, err := f.Fetch(t.Context(), "http://127.0.0.1:1/unreachable")
		assert.ErrorIs(t, err, core.ErrIO)
	})
}
