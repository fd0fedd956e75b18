package admin

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mogaaruf1/somali-student-hub/internal/enrollment"
	"github.com/mogaaruf1/somali-student-hub/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

type Handler struct {
	service  enrollment.Service
	logger   *slog.Logger
	metrics  *metrics.Metrics
	upgrader websocket.Upgrader
}

func NewHandler(service enrollment.Service, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
		metrics: m,
		upgrader: websocket.Upgrader{
			// Origin is enforced by the CORS middleware and the admin JWT.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/enrollments", h.List)
	router.Patch("/enrollments/{id}/status", h.SetStatus)
	router.Delete("/enrollments/{id}", h.Remove)
	router.Get("/enrollments/export", h.Export)
	router.Get("/enrollments/watch", h.Watch)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	enrollments, err := h.service.List(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	if term := r.URL.Query().Get("q"); term != "" {
		enrollments = enrollment.Filter(enrollments, term)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(enrollments)
}

type SetStatusRequest struct {
	Status enrollment.Status `json:"status"`
}

func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req SetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	h.logger.InfoContext(r.Context(), "updating enrollment status", "enrollment_id", id, "status", req.Status)
	if err := h.service.SetStatus(r.Context(), id, req.Status); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.metrics.RecordEnrollmentModerated(r.Context(), string(req.Status))

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	h.logger.InfoContext(r.Context(), "deleting enrollment", "enrollment_id", id)
	if err := h.service.Remove(r.Context(), id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.metrics.RecordEnrollmentDeleted(r.Context())

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	enrollments, err := h.service.List(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	if term := r.URL.Query().Get("q"); term != "" {
		enrollments = enrollment.Filter(enrollments, term)
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="enrollments.csv"`)
	w.Write([]byte(enrollment.ExportCSV(enrollments)))
}

// Watch streams full ordered snapshots over a websocket, one message per
// change plus an initial one. The subscription is released when the client
// disconnects.
func (h *Handler) Watch(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	snapshots, err := h.service.Subscribe(ctx)
	if err != nil {
		h.logger.Error("failed to open enrollment subscription", "error", err)
		http.Error(w, "subscription unavailable", http.StatusInternalServerError)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	// Reader loop exists only to observe the close frame.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	for snapshot := range snapshots {
		if err := conn.WriteJSON(snapshot); err != nil {
			h.logger.Warn("websocket write failed", "error", err)
			return
		}
	}
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, enrollment.ErrNotFound):
		h.logger.Info("enrollment not found")
		writeError(w, http.StatusNotFound, "enrollment not found")
	case errors.Is(err, enrollment.ErrInvalidStatus), errors.Is(err, enrollment.ErrInvalidInput):
		h.logger.Info("invalid moderation request")
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("moderation request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
