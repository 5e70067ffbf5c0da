package triage

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"er-triage/internal/fuzzy"
	"er-triage/internal/platform/web"
)

type Handler struct {
	engine *Engine
}

func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

type AssessRequest struct {
	Symptoms Symptoms `json:"symptoms"`
}

// Assess scores symptoms without admitting anyone.
func (h *Handler) Assess(w http.ResponseWriter, r *http.Request) {
	var req AssessRequest
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	a, err := h.engine.Assess(req.Symptoms)
	switch {
	case err == nil:
		web.JSON(w, http.StatusOK, a)
	case errors.Is(err, fuzzy.ErrInputOutOfRange):
		web.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, fuzzy.ErrDegenerateInference):
		web.Error(w, http.StatusUnprocessableEntity, err.Error())
	default:
		log.Printf("triage: %v", err)
		web.Error(w, http.StatusInternalServerError, "Internal error")
	}
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/triage/assess", h.Assess)
}
