package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	appMiddleware "github.com/markdave123-py/tokenharvest/internal/api/middlewares"
	"github.com/markdave123-py/tokenharvest/internal/core"
	objectclient "github.com/markdave123-py/tokenharvest/internal/core/object-client"
	"github.com/markdave123-py/tokenharvest/internal/logger"
	"github.com/markdave123-py/tokenharvest/internal/models"
)

// maxRequestBytes bounds the body of an extract request.
const maxRequestBytes = 4 << 20

// Extractor runs one extraction.
type Extractor interface {
	Extract(ctx context.Context, rc *core.RunConfig, out io.Writer) (*models.Run, error)
}

type ExtractHandler struct {
	extractor Extractor
	log       logger.Logger
}

func NewExtractHandler(extractor Extractor, log logger.Logger) *ExtractHandler {
	if log == nil {
		log = logger.Discard()
	}
	return &ExtractHandler{extractor: extractor, log: log}
}

// ExtractRequest names exactly one of Text, Object or URL.
type ExtractRequest struct {
	Text         string `json:"text"`
	Object       string `json:"object"` // s3://bucket/key
	URL          string `json:"url"`
	PartOfSpeech string `json:"part_of_speech"`
	Language     string `json:"language"`
	Accurate     bool   `json:"accurate"`
	Output       string `json:"output"` // optional s3://bucket/key
}

func (h *ExtractHandler) Extract(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	rc, err := req.runConfig()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Scraped pages are saved before they are read; keep them out of the
	// working directory and drop them when the request ends.
	if rc.SourceKind == core.SourceScrape {
		dir, err := os.MkdirTemp("", "tokenharvest-*")
		if err != nil {
			http.Error(w, "could not allocate scratch space", http.StatusInternalServerError)
			return
		}
		defer os.RemoveAll(dir)
		rc.SourcePath = filepath.Join(dir, "page.txt")
	}

	sub, _ := appMiddleware.SubjectFromContext(r.Context())
	log := h.log.With("subject", sub, "source", rc.SourceKind.String())

	run, err := h.extractor.Extract(r.Context(), rc, nil)
	if err != nil {
		log.Error("extraction failed", "err", err)
		http.Error(w, fmt.Sprintf("extraction failed: %v", err), statusFor(err))
		return
	}
	log.Info("extraction served", "run_id", run.ID, "tokens", run.TokenCount)

	writeJSON(w, http.StatusOK, run)
}

func (req *ExtractRequest) runConfig() (*core.RunConfig, error) {
	rc := core.DefaultRunConfig()

	sources := 0
	if req.Text != "" {
		rc.SourceKind, rc.Text = core.SourceLiteral, req.Text
		sources++
	}
	if req.Object != "" {
		if !objectclient.IsS3URI(req.Object) {
			return nil, fmt.Errorf("object must be an s3:// uri")
		}
		rc.SourceKind, rc.SourcePath = core.SourceFile, req.Object
		sources++
	}
	if req.URL != "" {
		if !strings.HasPrefix(req.URL, "http://") && !strings.HasPrefix(req.URL, "https://") {
			return nil, fmt.Errorf("url must be http or https")
		}
		rc.SourceKind, rc.ScrapeURL = core.SourceScrape, req.URL
		sources++
	}
	if sources != 1 {
		return nil, fmt.Errorf("exactly one of text, object or url is required")
	}

	if req.PartOfSpeech != "" {
		tag, err := core.ResolveTag(req.PartOfSpeech)
		if err != nil {
			return nil, err
		}
		rc.Tag = tag
	}
	if req.Language != "" {
		lang, err := core.ResolveLanguage(req.Language)
		if err != nil {
			return nil, err
		}
		rc.Language = lang
	}
	if req.Accurate {
		rc.Tier = core.TierAccurate
	}
	if req.Output != "" {
		if !objectclient.IsS3URI(req.Output) {
			return nil, fmt.Errorf("output must be an s3:// uri")
		}
		rc.OutputPath = req.Output
	}
	return rc, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrParse), errors.Is(err, core.ErrNoInput):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrSourceUnavailable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrModelUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, core.ErrIO):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
