// Package http assembles the full route tree: public auth endpoints, the
// authenticated application surface, the admin surface, and the operational
// endpoints (health, metrics).
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	adminhandler "schemeteller/internal/admin/handler"
	authhandler "schemeteller/internal/auth/handler"
	bookmarkhandler "schemeteller/internal/bookmark/handler"
	eligibilityhandler "schemeteller/internal/eligibility/handler"
	"schemeteller/internal/platform/metrics"
	profilehandler "schemeteller/internal/profile/handler"
	schemehandler "schemeteller/internal/scheme/handler"
	adminmw "schemeteller/pkg/platform/middleware/admin"
	authmw "schemeteller/pkg/platform/middleware/auth"
	"schemeteller/pkg/platform/middleware/metadata"
	"schemeteller/pkg/platform/middleware/requestid"
	"schemeteller/pkg/platform/middleware/requesttime"
)

// Dependencies carries everything the router needs. All fields are required
// except Metrics, which disables instrumentation when nil.
type Dependencies struct {
	Auth        *authhandler.Handler
	Profile     *profilehandler.Handler
	Scheme      *schemehandler.Handler
	Bookmark    *bookmarkhandler.Handler
	Eligibility *eligibilityhandler.Handler
	Admin       *adminhandler.Handler

	TokenValidator authmw.TokenValidator
	Revocations    authmw.RevocationChecker
	Metrics        *metrics.Metrics
	Logger         *slog.Logger
}

// NewRouter builds the route tree. Middleware order matters: the request id
// and clock must exist before anything logs or stamps timestamps.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(metadata.Middleware)
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
	}

	r.Get("/health", handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Public endpoints.
	r.Group(func(r chi.Router) {
		deps.Auth.RegisterPublic(r)
	})

	// Authenticated application surface.
	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireAuth(deps.TokenValidator, deps.Revocations, deps.Logger))

		deps.Auth.RegisterAuthenticated(r)
		deps.Profile.Register(r)
		deps.Scheme.Register(r)
		deps.Bookmark.Register(r)
		deps.Eligibility.Register(r)

		// Admin surface, gated on the role claim.
		r.Group(func(r chi.Router) {
			r.Use(adminmw.RequireAdmin(deps.Logger))
			deps.Admin.Register(r)
		})
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
