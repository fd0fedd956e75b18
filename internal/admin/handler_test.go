package admin_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/mogaaruf1/somali-student-hub/internal/admin"
	"github.com/mogaaruf1/somali-student-hub/internal/auth"
	"github.com/mogaaruf1/somali-student-hub/internal/enrollment"
	"github.com/mogaaruf1/somali-student-hub/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-testing"

type fakeService struct {
	list      []enrollment.Enrollment
	statusErr error
	removeErr error

	setStatusCalls []string
	removedIDs     []string
	snapshots      chan []enrollment.Enrollment
}

func (s *fakeService) Submit(ctx context.Context, in enrollment.SubmitInput) (*enrollment.Enrollment, error) {
	panic("not used by moderation")
}

func (s *fakeService) List(ctx context.Context) ([]enrollment.Enrollment, error) {
	return s.list, nil
}

func (s *fakeService) SetStatus(ctx context.Context, id string, status enrollment.Status) error {
	if !status.Valid() {
		return enrollment.ErrInvalidStatus
	}
	if s.statusErr != nil {
		return s.statusErr
	}
	s.setStatusCalls = append(s.setStatusCalls, id+":"+string(status))
	return nil
}

func (s *fakeService) Remove(ctx context.Context, id string) error {
	if s.removeErr != nil {
		return s.removeErr
	}
	s.removedIDs = append(s.removedIDs, id)
	return nil
}

func (s *fakeService) Subscribe(ctx context.Context) (<-chan []enrollment.Enrollment, error) {
	out := make(chan []enrollment.Enrollment, 4)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case snap, ok := <-s.snapshots:
				if !ok {
					return
				}
				out <- snap
			}
		}
	}()
	return out, nil
}

func setupAdminRouter(t *testing.T, service enrollment.Service, adminEmails []string) chi.Router {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	authorizer := admin.NewAuthorizer(adminEmails)
	handler := admin.NewHandler(service, logger, metrics.NewMock())

	router := chi.NewRouter()
	router.Route("/admin", func(r chi.Router) {
		r.Use(auth.Middleware(testSecret, logger))
		r.Use(admin.RequireAdmin(authorizer, logger))
		handler.RegisterRoutes(r)
	})
	return router
}

func tokenFor(t *testing.T, email string) string {
	t.Helper()
	token, err := auth.GenerateAccessToken(email, testSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func adminRequest(t *testing.T, router chi.Router, method, path, email string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if email != "" {
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, email))
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func sampleEnrollments() []enrollment.Enrollment {
	at := time.Date(2026, time.March, 7, 12, 0, 0, 0, time.UTC)
	return []enrollment.Enrollment{
		{ID: "e2", StudentName: "Khalid Aliyow", ResourceTitle: "Data Science", Status: enrollment.StatusPending, EnrolledAt: at.Add(time.Hour)},
		{ID: "e1", StudentName: "Ali Hassan", ResourceTitle: "Web Development", Status: enrollment.StatusApproved, EnrolledAt: at},
	}
}

func TestModerationAuthorization(t *testing.T) {
	service := &fakeService{list: sampleEnrollments()}
	router := setupAdminRouter(t, service, []string{"admin@gmail.com"})

	t.Run("NoTokenIsUnauthorized", func(t *testing.T) {
		w := adminRequest(t, router, http.MethodGet, "/admin/enrollments", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("NonAdminIsForbidden", func(t *testing.T) {
		w := adminRequest(t, router, http.MethodGet, "/admin/enrollments", "student@gmail.com", nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("NonAdminCannotMutate", func(t *testing.T) {
		body, _ := json.Marshal(admin.SetStatusRequest{Status: enrollment.StatusApproved})
		w := adminRequest(t, router, http.MethodPatch, "/admin/enrollments/e1/status", "student@gmail.com", body)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Empty(t, service.setStatusCalls)
	})

	t.Run("AdminEmailMatchIsCaseInsensitive", func(t *testing.T) {
		w := adminRequest(t, router, http.MethodGet, "/admin/enrollments", "Admin@Gmail.com", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestModerationEndpoints(t *testing.T) {
	t.Run("ListReturnsOrderedEnrollments", func(t *testing.T) {
		service := &fakeService{list: sampleEnrollments()}
		router := setupAdminRouter(t, service, []string{"admin@gmail.com"})

		w := adminRequest(t, router, http.MethodGet, "/admin/enrollments", "admin@gmail.com", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var got []enrollment.Enrollment
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		require.Len(t, got, 2)
		assert.Equal(t, "e2", got[0].ID)
		assert.Equal(t, "e1", got[1].ID)
	})

	t.Run("ListAppliesSearchFilter", func(t *testing.T) {
		service := &fakeService{list: sampleEnrollments()}
		router := setupAdminRouter(t, service, []string{"admin@gmail.com"})

		w := adminRequest(t, router, http.MethodGet, "/admin/enrollments?q=web", "admin@gmail.com", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var got []enrollment.Enrollment
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		require.Len(t, got, 1)
		assert.Equal(t, "e1", got[0].ID)
	})

	t.Run("SetStatus", func(t *testing.T) {
		service := &fakeService{list: sampleEnrollments()}
		router := setupAdminRouter(t, service, []string{"admin@gmail.com"})

		body, _ := json.Marshal(admin.SetStatusRequest{Status: enrollment.StatusRejected})
		w := adminRequest(t, router, http.MethodPatch, "/admin/enrollments/e1/status", "admin@gmail.com", body)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, []string{"e1:rejected"}, service.setStatusCalls)
	})

	t.Run("SetStatusRejectsUnknownValue", func(t *testing.T) {
		service := &fakeService{}
		router := setupAdminRouter(t, service, []string{"admin@gmail.com"})

		w := adminRequest(t, router, http.MethodPatch, "/admin/enrollments/e1/status", "admin@gmail.com",
			[]byte(`{"status":"archived"}`))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("SetStatusUnknownIDIsNotFound", func(t *testing.T) {
		service := &fakeService{statusErr: enrollment.ErrNotFound}
		router := setupAdminRouter(t, service, []string{"admin@gmail.com"})

		body, _ := json.Marshal(admin.SetStatusRequest{Status: enrollment.StatusApproved})
		w := adminRequest(t, router, http.MethodPatch, "/admin/enrollments/missing/status", "admin@gmail.com", body)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Remove", func(t *testing.T) {
		service := &fakeService{}
		router := setupAdminRouter(t, service, []string{"admin@gmail.com"})

		w := adminRequest(t, router, http.MethodDelete, "/admin/enrollments/e1", "admin@gmail.com", nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, []string{"e1"}, service.removedIDs)
	})

	t.Run("ExportIsCSV", func(t *testing.T) {
		service := &fakeService{list: sampleEnrollments()}
		router := setupAdminRouter(t, service, []string{"admin@gmail.com"})

		w := adminRequest(t, router, http.MethodGet, "/admin/enrollments/export", "admin@gmail.com", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))

		lines := strings.Split(strings.TrimRight(w.Body.String(), "\n"), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, "ID,Student Name,Email,Phone,Course,Status,Date", lines[0])
		assert.True(t, strings.HasPrefix(lines[1], `e2,"Khalid Aliyow"`))
	})
}

func TestModerationWatch(t *testing.T) {
	service := &fakeService{snapshots: make(chan []enrollment.Enrollment, 2)}
	router := setupAdminRouter(t, service, []string{"admin@gmail.com"})

	server := httptest.NewServer(router)
	defer server.Close()

	service.snapshots <- sampleEnrollments()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/admin/enrollments/watch"
	header := http.Header{"Authorization": []string{"Bearer " + tokenFor(t, "admin@gmail.com")}}

	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var snapshot []enrollment.Enrollment
	require.NoError(t, conn.ReadJSON(&snapshot))
	require.Len(t, snapshot, 2)
	assert.Equal(t, "e2", snapshot[0].ID)

	service.snapshots <- nil
	var empty []enrollment.Enrollment
	require.NoError(t, conn.ReadJSON(&empty))
	assert.Empty(t, empty)
}
