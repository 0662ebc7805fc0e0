package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/markdave123-py/tokenharvest/internal/core"
	"github.com/markdave123-py/tokenharvest/internal/core/ingestion_engine"
	objectclient "github.com/markdave123-py/tokenharvest/internal/core/object-client"
	"github.com/markdave123-py/tokenharvest/internal/logger"
	"github.com/markdave123-py/tokenharvest/internal/models"
)

// ErrHistoryDisabled is returned by GetRun when no run store is configured.
var ErrHistoryDisabled = errors.New("run history is not configured")

// SourceOpener resolves a run configuration to an open chunk source.
type SourceOpener interface {
	Open(ctx context.Context, rc *core.RunConfig) (ingestion_engine.Source, error)
}

// ExtractService runs one extraction end to end: annotator construction,
// source resolution, the chunk pipeline, output sinks and run history.
type ExtractService struct {
	annotators core.AnnotatorFactory
	sources    SourceOpener
	runner     *ingestion_engine.Runner
	objects    core.ObjectClient
	store      core.RunStore
	log        logger.Logger
}

// NewExtractService wires the service. objects and store may be nil: s3://
// outputs are then rejected and runs are not persisted.
func NewExtractService(annotators core.AnnotatorFactory, sources SourceOpener, runner *ingestion_engine.Runner, objects core.ObjectClient, store core.RunStore, log logger.Logger) *ExtractService {
	if log == nil {
		log = logger.Discard()
	}
	return &ExtractService{
		annotators: annotators,
		sources:    sources,
		runner:     runner,
		objects:    objects,
		store:      store,
		log:        log,
	}
}

// Extract runs rc and writes the tokens, one per line, to out (if not nil)
// and to rc.OutputPath (if set).
func (s *ExtractService) Extract(ctx context.Context, rc *core.RunConfig, out io.Writer) (*models.Run, error) {
	if rc == nil || rc.SourceKind == core.SourceNone {
		return nil, core.ErrNoInput
	}

	ann, err := s.annotators(ctx, rc.Language, rc.Tier)
	if err != nil {
		return nil, err
	}
	if c, ok := ann.(io.Closer); ok {
		defer c.Close()
	}

	src, err := s.sources.Open(ctx, rc)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	started := time.Now()
	tokens, err := s.runner.Run(ctx, src, ann, rc.Tag)
	if err != nil {
		return nil, err
	}
	s.log.Info("extraction finished", "tokens", tokens.Len(), "elapsed", time.Since(started).Round(time.Millisecond))

	if out != nil {
		if _, err := tokens.WriteTo(out); err != nil {
			return nil, err
		}
	}
	if rc.OutputPath != "" {
		if err := s.writeOutput(ctx, rc.OutputPath, tokens); err != nil {
			return nil, err
		}
	}

	run := &models.Run{
		ID:         uuid.NewString(),
		SourceKind: rc.SourceKind.String(),
		Source:     sourceOf(rc),
		Tag:        string(rc.Tag),
		Language:   rc.Language.Code,
		Tier:       rc.Tier.String(),
		TokenCount: tokens.Len(),
		Tokens:     tokens.Tokens(),
		CreatedAt:  time.Now().UTC(),
	}
	if s.store != nil {
		// History is best effort; the tokens have already been delivered.
		if err := s.store.SaveRun(ctx, run); err != nil {
			s.log.Warn("could not save run", "run_id", run.ID, "err", err)
		}
	}
	return run, nil
}

// GetRun loads a past run from history.
func (s *ExtractService) GetRun(ctx context.Context, id string) (*models.Run, error) {
	if s.store == nil {
		return nil, ErrHistoryDisabled
	}
	return s.store.GetRun(ctx, id)
}

func (s *ExtractService) writeOutput(ctx context.Context, path string, tokens *ingestion_engine.TokenCollector) error {
	if objectclient.IsS3URI(path) {
		bucket, key, ok := objectclient.ParseS3URI(path)
		if !ok {
			return fmt.Errorf("%w: malformed object uri %q", core.ErrIO, path)
		}
		if s.objects == nil {
			return fmt.Errorf("%w: object storage is not configured for %q", core.ErrIO, path)
		}
		var buf bytes.Buffer
		if _, err := tokens.WriteTo(&buf); err != nil {
			return err
		}
		url, err := s.objects.UploadFile(ctx, bucket, key, &buf, "text/plain; charset=utf-8")
		if err != nil {
			return err
		}
		s.log.Info("tokens uploaded", "url", url)
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: create %s: %w", core.ErrIO, path, err)
	}
	if _, err := tokens.WriteTo(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", core.ErrIO, path, err)
	}
	s.log.Debug("tokens written", "path", path)
	return nil
}

func sourceOf(rc *core.RunConfig) string {
	switch rc.SourceKind {
	case core.SourceFile:
		return rc.SourcePath
	case core.SourceScrape:
		return rc.ScrapeURL
	default:
		return ""
	}
}
