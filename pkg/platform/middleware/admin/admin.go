// Package admin guards administrator-only routes based on the role claim
// placed in context by the auth middleware.
package admin

import (
	"log/slog"
	"net/http"

	id "schemeteller/pkg/domain"
	"schemeteller/pkg/requestcontext"
)

// RequireAdmin rejects requests whose authenticated role is not ADMIN. Must be
// mounted after auth.RequireAuth.
func RequireAdmin(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if requestcontext.Role(ctx) != id.RoleAdmin {
				logger.WarnContext(ctx, "forbidden - admin role required",
					"request_id", requestcontext.RequestID(ctx),
					"user_id", requestcontext.UserID(ctx),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"error":"forbidden","error_description":"administrator role required"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
