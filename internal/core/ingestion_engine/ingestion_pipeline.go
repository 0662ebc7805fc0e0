package ingestion_engine

import (
	"context"
	"errors"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/markdave123-py/tokenharvest/internal/core"
	"github.com/markdave123-py/tokenharvest/internal/logger"
)

// Runner drives one chunk source through an annotator and keeps the tokens
// whose tag matches the filter.
type Runner struct {
	cfg *IngestConfig
	log logger.Logger
}

func NewRunner(cfg *IngestConfig, log logger.Logger) *Runner {
	if log == nil {
		log = logger.Discard()
	}
	return &Runner{cfg: cfg, log: log}
}

// Run pulls chunks from src until io.EOF and returns the collected tokens.
//
// Chunks are always read one after another by the calling goroutine. With a
// single worker each chunk is annotated before the next is read; with more,
// annotation overlaps with reading and the first error cancels the rest.
func (r *Runner) Run(ctx context.Context, src ChunkSource, ann core.Annotator, filter core.Tag) (*TokenCollector, error) {
	collector := NewTokenCollector()
	workers := r.cfg.workers()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	annotate := func(pos int, text string) error {
		toks, err := ann.Annotate(gctx, text)
		if err != nil {
			return fmt.Errorf("annotate chunk #%d: %w", pos, err)
		}
		kept := 0
		for _, tok := range toks {
			if tok.Tag == filter {
				collector.Add(tok.Text)
				kept++
			}
		}
		r.log.Debug("chunk annotated", "chunk", pos, "tokens", len(toks), "kept", kept)
		return nil
	}

	pos := 0
	var runErr error
	for {
		// Stop between chunks once the run is cancelled or a worker failed.
		if err := gctx.Err(); err != nil {
			break
		}
		c, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			runErr = err
			break
		}
		pos++
		r.log.Debug("chunk read", "chunk", pos, "bytes", len(c.Content), "final", c.Final)

		if workers == 1 {
			if err := annotate(pos, c.Content); err != nil {
				runErr = err
				break
			}
			continue
		}
		text, n := c.Content, pos
		g.Go(func() error { return annotate(n, text) })
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if runErr != nil {
		return nil, runErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.log.Info("pipeline finished", "chunks", pos, "tokens", collector.Len(), "tag", filter)
	return collector, nil
}
