package chatbot

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"er-triage/internal/platform/web"
)

type Handler struct {
	bot *Bot
}

func NewHandler(bot *Bot) *Handler {
	return &Handler{bot: bot}
}

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, http.StatusBadRequest, "Invalid request")
		return
	}
	web.JSON(w, http.StatusOK, ChatResponse{Reply: h.bot.Reply(req.Message)})
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/chatbot", h.Chat)
}
