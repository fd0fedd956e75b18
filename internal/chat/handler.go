package chat

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mogaaruf1/somali-student-hub/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	completer Completer
	validate  *validator.Validate
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

func NewHandler(completer Completer, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		completer: completer,
		validate:  validator.New(),
		logger:    logger,
		metrics:   m,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/chat", h.Chat)
}

type ChatRequest struct {
	Message string `json:"message" validate:"required"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	reply, err := h.completer.Complete(r.Context(), req.Message)
	if err != nil {
		h.logger.Error("chat completion failed", "error", err)
		h.metrics.RecordChatRequest(r.Context(), "error")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]string{"error": "the AI tutor is unavailable right now"})
		return
	}

	h.metrics.RecordChatRequest(r.Context(), "ok")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ChatResponse{Reply: reply})
}
