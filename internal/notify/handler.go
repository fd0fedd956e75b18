package notify

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mogaaruf1/somali-student-hub/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	notifier Notifier
	validate *validator.Validate
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func NewHandler(notifier Notifier, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		notifier: notifier,
		validate: validator.New(),
		logger:   logger,
		metrics:  m,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/notify", h.Notify)
}

type NotifyResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (h *Handler) Notify(w http.ResponseWriter, r *http.Request) {
	var n Notification
	if err := json.NewDecoder(r.Body).Decode(&n); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(n); err != nil {
		h.logger.Warn("notify validation failed", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.notifier.Send(r.Context(), n); err != nil {
		h.logger.Error("notification failed", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "notification failed"})
		return
	}

	h.metrics.RecordNotificationSent(r.Context())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(NotifyResponse{Success: true, Message: "Notification sent"})
}
