package ingestion_engine

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/markdave123-py/tokenharvest/internal/core"
)

var _ core.Fetcher = (*WebFetcher)(nil)

// WebFetcher downloads pages over HTTP. It does not retry.
type WebFetcher struct {
	client *resty.Client
}

func NewWebFetcher(timeout time.Duration) *WebFetcher {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", "tokenharvest/1.0").
		SetHeader("Accept", "text/html,application/xhtml+xml").
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))
	return &WebFetcher{client: client}
}

func (f *WebFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %w", core.ErrIO, url, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: fetch %s: unexpected status %d", core.ErrIO, url, resp.StatusCode())
	}
	return resp.Body(), nil
}
