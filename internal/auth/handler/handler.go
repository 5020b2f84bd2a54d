package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"schemeteller/internal/auth"
	dErrors "schemeteller/pkg/domain-errors"
	"schemeteller/pkg/platform/httputil"
	"schemeteller/pkg/requestcontext"
)

// Service defines the interface for authentication operations.
type Service interface {
	SignUp(ctx context.Context, name, email, password string) (*auth.Session, error)
	SignIn(ctx context.Context, email, password string) (*auth.Session, error)
	SignOut(ctx context.Context) error
}

// Handler wires authentication endpoints to the auth service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an auth handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterPublic mounts the unauthenticated endpoints.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/auth/sign-up", h.HandleSignUp)
	r.Post("/auth/sign-in", h.HandleSignIn)
}

// RegisterAuthenticated mounts the endpoints that need a valid token.
func (h *Handler) RegisterAuthenticated(r chi.Router) {
	r.Post("/auth/sign-out", h.HandleSignOut)
}

// HandleSignUp handles POST /auth/sign-up requests.
func (h *Handler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[SignUpRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	session, err := h.service.SignUp(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "sign-up failed",
				"request_id", requestID,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, FromSession(session))
}

// HandleSignIn handles POST /auth/sign-in requests.
func (h *Handler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[SignInRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	session, err := h.service.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "sign-in failed",
				"request_id", requestID,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromSession(session))
}

// HandleSignOut handles POST /auth/sign-out requests.
func (h *Handler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.service.SignOut(ctx); err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "sign-out failed",
				"request_id", requestcontext.RequestID(ctx),
				"user_id", requestcontext.UserID(ctx),
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
