package analytics

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"er-triage/internal/platform/web"
	"er-triage/internal/queue"
)

// Snapshotter supplies the records to summarize. queue.Service implements it.
type Snapshotter interface {
	Snapshot(ctx context.Context) ([]queue.PatientRecord, error)
}

type Handler struct {
	queue Snapshotter
}

func NewHandler(q Snapshotter) *Handler {
	return &Handler{queue: q}
}

func (h *Handler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	recs, err := h.queue.Snapshot(r.Context())
	if err != nil {
		log.Printf("analytics: %v", err)
		web.Error(w, http.StatusInternalServerError, "Failed to read queue")
		return
	}
	web.JSON(w, http.StatusOK, Summarize(recs))
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/analytics", h.GetAnalytics)
}
