package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	db "github.com/markdave123-py/tokenharvest/internal/core/database"
	"github.com/markdave123-py/tokenharvest/internal/models"
	"github.com/markdave123-py/tokenharvest/internal/services"
)

// RunReader loads past runs.
type RunReader interface {
	GetRun(ctx context.Context, id string) (*models.Run, error)
}

type RunHandler struct {
	runs RunReader
}

func NewRunHandler(runs RunReader) *RunHandler {
	return &RunHandler{runs: runs}
}

func (h *RunHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		http.Error(w, "run id is required", http.StatusBadRequest)
		return
	}

	run, err := h.runs.GetRun(r.Context(), id)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, run)
	case errors.Is(err, db.ErrRunNotFound):
		http.Error(w, "run not found", http.StatusNotFound)
	case errors.Is(err, services.ErrHistoryDisabled):
		http.Error(w, err.Error(), http.StatusNotImplemented)
	default:
		http.Error(w, "could not load run", http.StatusInternalServerError)
	}
}

// Health reports liveness.
func Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
