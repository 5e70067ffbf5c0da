package report

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"er-triage/internal/platform/telegram"
	"er-triage/internal/platform/web"
	"er-triage/internal/queue"
)

// Lister supplies the queue in display order. queue.Service implements it.
type Lister interface {
	ListOrdered(ctx context.Context) ([]queue.PatientRecord, error)
}

type Handler struct {
	svc   *Service
	queue Lister
}

func NewHandler(svc *Service, q Lister) *Handler {
	return &Handler{svc: svc, queue: q}
}

func (h *Handler) DownloadQueue(w http.ResponseWriter, r *http.Request) {
	recs, err := h.queue.ListOrdered(r.Context())
	if err != nil {
		log.Printf("report: %v", err)
		web.Error(w, http.StatusInternalServerError, "Failed to read queue")
		return
	}
	data, err := h.svc.RenderQueue(recs)
	if err != nil {
		log.Printf("report: %v", err)
		web.Error(w, http.StatusInternalServerError, "Failed to render report")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+h.svc.FileName()+`"`)
	w.Write(data)
}

func (h *Handler) SendQueue(w http.ResponseWriter, r *http.Request) {
	recs, err := h.queue.ListOrdered(r.Context())
	if err != nil {
		log.Printf("report: %v", err)
		web.Error(w, http.StatusInternalServerError, "Failed to read queue")
		return
	}

	if err := h.svc.SendQueueReport(r.Context(), recs); err != nil {
		if errors.Is(err, telegram.ErrNotConfigured) {
			web.Error(w, http.StatusServiceUnavailable, "Telegram is not configured")
			return
		}
		log.Printf("report: %v", err)
		web.Error(w, http.StatusBadGateway, "Failed to send report")
		return
	}
	web.JSON(w, http.StatusOK, map[string]any{"sent": true, "patients": len(recs)})
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/reports/queue.pdf", h.DownloadQueue)
	r.Post("/reports/queue/send", h.SendQueue)
}
