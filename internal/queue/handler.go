package queue

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"er-triage/internal/fuzzy"
	"er-triage/internal/platform/web"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

type UpdateStatusRequest struct {
	Status *Status `json:"status"`
}

func (h *Handler) ListPatients(w http.ResponseWriter, r *http.Request) {
	recs, err := h.svc.ListOrdered(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	web.JSON(w, http.StatusOK, recs)
}

func (h *Handler) AdmitPatient(w http.ResponseWriter, r *http.Request) {
	var req AdmitRequest
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	rec, err := h.svc.Admit(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	web.JSON(w, http.StatusCreated, rec)
}

func (h *Handler) GetPatient(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	web.JSON(w, http.StatusOK, rec)
}

// UpdatePatient changes the status of a patient. A body without a status
// returns the record unchanged.
func (h *Handler) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateStatusRequest
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	var (
		rec *PatientRecord
		err error
	)
	if req.Status == nil {
		rec, err = h.svc.Get(r.Context(), id)
	} else {
		rec, err = h.svc.SetStatus(r.Context(), id, *req.Status)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	web.JSON(w, http.StatusOK, rec)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		web.Error(w, http.StatusNotFound, "Patient not found")
	case errors.Is(err, fuzzy.ErrInputOutOfRange), errors.Is(err, ErrInvalidPatient):
		web.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, fuzzy.ErrDegenerateInference):
		web.Error(w, http.StatusUnprocessableEntity, err.Error())
	default:
		log.Printf("queue: %v", err)
		web.Error(w, http.StatusInternalServerError, "Internal error")
	}
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/patients", h.ListPatients)
	r.Post("/patients", h.AdmitPatient)
	r.Get("/patients/{id}", h.GetPatient)
	r.Put("/patients/{id}", h.UpdatePatient)
}
