package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"schemeteller/internal/profile"
	id "schemeteller/pkg/domain"
	dErrors "schemeteller/pkg/domain-errors"
	"schemeteller/pkg/platform/httputil"
	"schemeteller/pkg/requestcontext"
)

// Service defines the interface for profile operations.
type Service interface {
	Get(ctx context.Context, userID id.UserID) (*profile.Overview, error)
	Patch(ctx context.Context, userID id.UserID, update profile.Update) (*profile.Overview, error)
	CompleteOnboarding(ctx context.Context, userID id.UserID, input profile.OnboardingInput) (*profile.Overview, error)
}

// Handler wires profile endpoints to the profile service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a profile handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts profile endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/profile", h.HandleGet)
	r.Patch("/profile", h.HandlePatch)
	r.Post("/onboarding", h.HandleOnboarding)
}

// HandleGet handles GET /profile requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := requestcontext.UserID(ctx)

	overview, err := h.service.Get(ctx, userID)
	if err != nil {
		h.logError(ctx, "profile read failed", userID, err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromOverview(overview))
}

// HandlePatch handles PATCH /profile requests.
func (h *Handler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	userID := requestcontext.UserID(ctx)

	req, ok := httputil.DecodeAndPrepare[PatchRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	overview, err := h.service.Patch(ctx, userID, req.Update())
	if err != nil {
		h.logError(ctx, "profile update failed", userID, err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromOverview(overview))
}

// HandleOnboarding handles POST /onboarding requests.
func (h *Handler) HandleOnboarding(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	userID := requestcontext.UserID(ctx)

	req, ok := httputil.DecodeAndPrepare[OnboardingRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	overview, err := h.service.CompleteOnboarding(ctx, userID, req.Input())
	if err != nil {
		h.logError(ctx, "onboarding failed", userID, err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromOverview(overview))
}

func (h *Handler) logError(ctx context.Context, msg string, userID id.UserID, err error) {
	if dErrors.CodeOf(err) != dErrors.CodeInternal {
		return
	}
	h.logger.ErrorContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"user_id", userID,
		"error", err,
	)
}
