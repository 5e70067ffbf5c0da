package events

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"er-triage/internal/platform/web"
)

// RecentSource returns the latest events, newest first. *RedisPublisher implements it.
type RecentSource interface {
	Recent(ctx context.Context, limit int) ([]Event, error)
}

type Handler struct {
	hub    *Hub
	recent RecentSource
}

// NewHandler serves the live feed from hub. recent may be nil when no event
// history is kept.
func NewHandler(hub *Hub, recent RecentSource) *Handler {
	return &Handler{hub: hub, recent: recent}
}

func (h *Handler) RecentEvents(w http.ResponseWriter, r *http.Request) {
	if h.recent == nil {
		web.Error(w, http.StatusNotFound, "Event history is not enabled")
		return
	}
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			web.Error(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	evs, err := h.recent.Recent(r.Context(), limit)
	if err != nil {
		log.Printf("events: reading history failed: %v", err)
		web.Error(w, http.StatusBadGateway, "Event history unavailable")
		return
	}
	web.JSON(w, http.StatusOK, evs)
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/patients/stream", h.hub.ServeWS)
	r.Get("/events/recent", h.RecentEvents)
}
