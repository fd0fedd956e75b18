package enrollment

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mogaaruf1/somali-student-hub/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	service  Service
	validate *validator.Validate
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func NewHandler(service Service, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
		metrics:  m,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/enrollments", h.Submit)
}

type SubmitRequest struct {
	ResourceID    string `json:"resourceId" validate:"required"`
	ResourceTitle string `json:"resourceTitle" validate:"required"`
	StudentName   string `json:"studentName" validate:"required"`
	StudentEmail  string `json:"studentEmail" validate:"required"`
	StudentPhone  string `json:"studentPhone" validate:"required"`
}

type SubmitResponse struct {
	ID string `json:"id"`
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.logger.Warn("enrollment validation failed", "error", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.logger.InfoContext(r.Context(), "creating enrollment", "resource_id", req.ResourceID)
	created, err := h.service.Submit(r.Context(), SubmitInput{
		ResourceID:    req.ResourceID,
		ResourceTitle: req.ResourceTitle,
		StudentName:   req.StudentName,
		StudentEmail:  req.StudentEmail,
		StudentPhone:  req.StudentPhone,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.metrics.RecordEnrollmentSubmitted(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(SubmitResponse{ID: created.ID})
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		h.logger.Info("invalid enrollment input")
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrPermissionDenied):
		// Distinguishable so the UI can explain the store's access rules.
		h.logger.Warn("store rejected enrollment write")
		writeError(w, http.StatusForbidden, "the document store denied the write; check its access rules")
	default:
		h.logger.Error("enrollment write failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
