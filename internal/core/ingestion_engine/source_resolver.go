package ingestion_engine

import (
	"context"
	"fmt"
	"os"

	"github.com/markdave123-py/tokenharvest/internal/core"
	objectclient "github.com/markdave123-py/tokenharvest/internal/core/object-client"
	"github.com/markdave123-py/tokenharvest/internal/logger"
)

// Source is an opened chunk source that must be closed when the run ends.
type Source interface {
	ChunkSource
	Close() error
}

// SourceResolver opens the chunk source a run configuration asks for.
type SourceResolver struct {
	chunkSize int
	fetcher   core.Fetcher
	extractor core.TextExtractor
	objects   core.ObjectClient
	log       logger.Logger
}

// NewSourceResolver builds a resolver. objects may be nil, in which case
// s3:// sources are reported as unavailable.
func NewSourceResolver(chunkSize int, fetcher core.Fetcher, extractor core.TextExtractor, objects core.ObjectClient, log logger.Logger) *SourceResolver {
	if log == nil {
		log = logger.Discard()
	}
	return &SourceResolver{chunkSize: chunkSize, fetcher: fetcher, extractor: extractor, objects: objects, log: log}
}

// Open resolves rc to a source. Literal text is served as a single chunk and
// never goes through a ChunkReader.
func (s *SourceResolver) Open(ctx context.Context, rc *core.RunConfig) (Source, error) {
	switch rc.SourceKind {
	case core.SourceLiteral:
		return literalSource{NewStaticChunks(rc.Text)}, nil
	case core.SourceFile:
		return s.openFile(ctx, rc.SourcePath)
	case core.SourceScrape:
		if err := s.scrape(ctx, rc.ScrapeURL, rc.SourcePath); err != nil {
			return nil, err
		}
		return s.openFile(ctx, rc.SourcePath)
	default:
		return nil, core.ErrNoInput
	}
}

func (s *SourceResolver) openFile(ctx context.Context, path string) (Source, error) {
	if !objectclient.IsS3URI(path) {
		r, err := OpenChunkReader(path, s.chunkSize)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
	bucket, key, ok := objectclient.ParseS3URI(path)
	if !ok {
		return nil, fmt.Errorf("%w: malformed object uri %q", core.ErrSourceUnavailable, path)
	}
	if s.objects == nil {
		return nil, fmt.Errorf("%w: %s: object storage is not configured", core.ErrSourceUnavailable, path)
	}
	rc, err := s.objects.GetObjectReader(ctx, bucket, key)
	if err != nil {
		return nil, err
	}
	r, err := NewChunkReader(rc, s.chunkSize)
	if err != nil {
		_ = rc.Close()
		return nil, err
	}
	return r, nil
}

// scrape fetches url, extracts the page text and saves it to savePath.
func (s *SourceResolver) scrape(ctx context.Context, url, savePath string) error {
	if s.fetcher == nil || s.extractor == nil {
		return fmt.Errorf("%w: scraping is not configured", core.ErrSourceUnavailable)
	}
	html, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return err
	}
	text, err := s.extractor.ExtractText(html)
	if err != nil {
		return err
	}
	if err := os.WriteFile(savePath, []byte(text), 0o644); err != nil {
		return fmt.Errorf("%w: save page text to %s: %w", core.ErrIO, savePath, err)
	}
	s.log.Info("page saved", "url", url, "path", savePath, "bytes", len(text))
	return nil
}

type literalSource struct {
	*StaticChunks
}

func (literalSource) Close() error { return nil }
