package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// ErrorBody is the only thing a client learns about a failed run.
const ErrorBody = "Encountered error"

// ArtSource produces one rendered document per call.
type ArtSource interface {
	Run(ctx context.Context) (string, error)
}

// Handlers contains HTTP handlers for the server.
type Handlers struct {
	art    ArtSource
	logger *slog.Logger
}

// NewHandlers creates new handlers.
func NewHandlers(art ArtSource, logger *slog.Logger) *Handlers {
	return &Handlers{
		art:    art,
		logger: logger,
	}
}

// Root handles GET /. Every request runs the full pipeline.
func (h *Handlers) Root(w http.ResponseWriter, r *http.Request) {
	doc, err := h.art.Run(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "encountered error",
			"error", err,
			"request_id", middleware.GetReqID(r.Context()),
		)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, ErrorBody)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, doc)
}

// Panic handles GET /panic. It exists only to exercise crash reporting.
func (h *Handlers) Panic(w http.ResponseWriter, r *http.Request) {
	panic("YEET")
}
