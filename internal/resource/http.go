package resource

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

const (
	defaultListLimit = 6
	maxListLimit     = 50
)

type Handler struct {
	repo   Repository
	logger *slog.Logger
}

func NewHandler(repo Repository, logger *slog.Logger) *Handler {
	return &Handler{
		repo:   repo,
		logger: logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/resources", h.List)
	router.Get("/resources/{id}", h.Get)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit := int64(defaultListLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		if parsed > maxListLimit {
			parsed = maxListLimit
		}
		limit = parsed
	}

	var (
		resources []Resource
		err       error
	)
	if q := r.URL.Query().Get("q"); q != "" {
		resources, err = h.repo.Search(r.Context(), q, limit)
	} else {
		resources, err = h.repo.GetAll(r.Context(), limit)
	}
	if err != nil {
		h.logger.Error("failed to fetch resources", "error", err)
		http.Error(w, "failed to fetch resources", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resources)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	res, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "resource not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to fetch resource", "error", err)
		http.Error(w, "failed to fetch resource", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}
