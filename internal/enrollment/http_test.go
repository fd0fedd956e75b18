package enrollment_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mogaaruf1/somali-student-hub/internal/enrollment"
	"github.com/mogaaruf1/somali-student-hub/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	enrollment.Service

	submitFn func(ctx context.Context, in enrollment.SubmitInput) (*enrollment.Enrollment, error)
}

func (s *stubService) Submit(ctx context.Context, in enrollment.SubmitInput) (*enrollment.Enrollment, error) {
	return s.submitFn(ctx, in)
}

func setupSubmitRouter(service enrollment.Service) chi.Router {
	handler := enrollment.NewHandler(service, testLogger(), metrics.NewMock())
	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	return router
}

func postEnrollment(t *testing.T, router chi.Router, payload map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/enrollments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func validPayload() map[string]interface{} {
	return map[string]interface{}{
		"resourceId":    "res-1",
		"resourceTitle": "Web Development",
		"studentName":   "Amina Warsame",
		"studentEmail":  "amina@example.com",
		"studentPhone":  "+252612345678",
	}
}

func TestSubmitEndpoint(t *testing.T) {
	t.Run("Created", func(t *testing.T) {
		service := &stubService{
			submitFn: func(ctx context.Context, in enrollment.SubmitInput) (*enrollment.Enrollment, error) {
				assert.Equal(t, "res-1", in.ResourceID)
				return &enrollment.Enrollment{ID: "enr-1", Status: enrollment.StatusPending}, nil
			},
		}

		w := postEnrollment(t, setupSubmitRouter(service), validPayload())
		assert.Equal(t, http.StatusCreated, w.Code)

		var resp enrollment.SubmitResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "enr-1", resp.ID)
	})

	t.Run("MissingFieldIsBadRequest", func(t *testing.T) {
		service := &stubService{
			submitFn: func(ctx context.Context, in enrollment.SubmitInput) (*enrollment.Enrollment, error) {
				t.Fatal("service must not be reached on validation failure")
				return nil, nil
			},
		}

		payload := validPayload()
		delete(payload, "studentEmail")

		w := postEnrollment(t, setupSubmitRouter(service), payload)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("WhitespaceFieldIsBadRequest", func(t *testing.T) {
		service := &stubService{
			submitFn: func(ctx context.Context, in enrollment.SubmitInput) (*enrollment.Enrollment, error) {
				return nil, enrollment.ErrInvalidInput
			},
		}

		payload := validPayload()
		payload["studentName"] = "   "

		w := postEnrollment(t, setupSubmitRouter(service), payload)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("PermissionDeniedIsDistinguishable", func(t *testing.T) {
		service := &stubService{
			submitFn: func(ctx context.Context, in enrollment.SubmitInput) (*enrollment.Enrollment, error) {
				return nil, enrollment.ErrPermissionDenied
			},
		}

		w := postEnrollment(t, setupSubmitRouter(service), validPayload())
		assert.Equal(t, http.StatusForbidden, w.Code)

		var resp map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Contains(t, resp["error"], "access rules")
	})

	t.Run("InvalidJSONIsBadRequest", func(t *testing.T) {
		service := &stubService{
			submitFn: func(ctx context.Context, in enrollment.SubmitInput) (*enrollment.Enrollment, error) {
				return nil, nil
			},
		}
		router := setupSubmitRouter(service)

		req := httptest.NewRequest(http.MethodPost, "/enrollments", bytes.NewReader([]byte("{not json")))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
