package admin

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mogaaruf1/somali-student-hub/internal/auth"
)

// RequireAdmin re-checks the allow-list on every moderation request. The
// check is enforced here, server-side, regardless of what the client gated.
func RequireAdmin(authorizer *Authorizer, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email, ok := auth.GetEmail(r.Context())
			if !ok || !authorizer.Authorize(email) {
				logger.Warn("moderation access denied", "email", email, "path", r.URL.Path)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(map[string]string{"error": "forbidden"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
