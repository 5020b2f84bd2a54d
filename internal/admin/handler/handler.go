package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"schemeteller/internal/admin"
	"schemeteller/internal/scheme"
	id "schemeteller/pkg/domain"
	dErrors "schemeteller/pkg/domain-errors"
	"schemeteller/pkg/platform/httputil"
	"schemeteller/pkg/requestcontext"
)

// Service defines the interface for administrative operations.
type Service interface {
	Stats(ctx context.Context) (*admin.Stats, error)
	ListUsers(ctx context.Context, search string, page, limit int) (*admin.UserPage, error)
	DeleteUser(ctx context.Context, actorID, targetID id.UserID) error
	CreateScheme(ctx context.Context, actorID id.UserID, input admin.SchemeInput) (*scheme.Scheme, error)
	GetScheme(ctx context.Context, schemeID id.SchemeID) (*scheme.Scheme, error)
	ListSchemes(ctx context.Context, filter scheme.ListFilter) (*scheme.Page, error)
	UpdateScheme(ctx context.Context, actorID id.UserID, schemeID id.SchemeID, input admin.SchemeInput) (*scheme.Scheme, error)
	ChangeSchemeStatus(ctx context.Context, actorID id.UserID, schemeID id.SchemeID, status id.SchemeStatus) (*scheme.Scheme, error)
	DeleteScheme(ctx context.Context, actorID id.UserID, schemeID id.SchemeID) error
}

// Handler wires the admin endpoints to the admin service. It expects to be
// mounted behind the admin-role middleware.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an admin handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts admin endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/admin/stats", h.HandleStats)
	r.Get("/admin/users", h.HandleListUsers)
	r.Delete("/admin/users/{userID}", h.HandleDeleteUser)
	r.Get("/admin/schemes", h.HandleListSchemes)
	r.Post("/admin/schemes", h.HandleCreateScheme)
	r.Get("/admin/schemes/{schemeID}", h.HandleGetScheme)
	r.Put("/admin/schemes/{schemeID}", h.HandleUpdateScheme)
	r.Patch("/admin/schemes/{schemeID}/status", h.HandleChangeSchemeStatus)
	r.Delete("/admin/schemes/{schemeID}", h.HandleDeleteScheme)
}

// HandleStats handles GET /admin/stats requests.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := h.service.Stats(ctx)
	if err != nil {
		h.logError(ctx, "stats aggregation failed", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromStats(stats))
}

// HandleListUsers handles GET /admin/users requests.
func (h *Handler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	search := r.URL.Query().Get("search")
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 20)

	result, err := h.service.ListUsers(ctx, search, page, limit)
	if err != nil {
		h.logError(ctx, "user listing failed", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromUserPage(result, page, limit))
}

// HandleDeleteUser handles DELETE /admin/users/{userID} requests.
func (h *Handler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	targetID, err := id.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "user id is not valid"))
		return
	}

	if err := h.service.DeleteUser(ctx, requestcontext.UserID(ctx), targetID); err != nil {
		h.logError(ctx, "user deletion failed", err)
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleListSchemes handles GET /admin/schemes requests. Unlike the public
// catalog listing, no status is pinned: drafts and archived schemes show up.
func (h *Handler) HandleListSchemes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter := scheme.ListFilter{
		Search:   r.URL.Query().Get("search"),
		Ministry: r.URL.Query().Get("ministry"),
		Page:     queryInt(r, "page", 1),
		Limit:    queryInt(r, "limit", 20),
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := id.ParseSchemeStatus(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "status is not valid"))
			return
		}
		filter.Status = status
	}
	if raw := r.URL.Query().Get("level"); raw != "" {
		level, err := id.ParseSchemeLevel(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "level is not valid"))
			return
		}
		filter.Level = level
	}

	page, err := h.service.ListSchemes(ctx, filter)
	if err != nil {
		h.logError(ctx, "scheme listing failed", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromSchemePage(page, filter.Page, filter.Limit))
}

// HandleCreateScheme handles POST /admin/schemes requests.
func (h *Handler) HandleCreateScheme(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[SchemeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	sch, err := h.service.CreateScheme(ctx, requestcontext.UserID(ctx), req.Input())
	if err != nil {
		h.logError(ctx, "scheme creation failed", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, FromScheme(sch))
}

// HandleGetScheme handles GET /admin/schemes/{schemeID} requests.
func (h *Handler) HandleGetScheme(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	schemeID, ok := h.schemeID(w, r)
	if !ok {
		return
	}

	sch, err := h.service.GetScheme(ctx, schemeID)
	if err != nil {
		h.logError(ctx, "scheme read failed", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromScheme(sch))
}

// HandleUpdateScheme handles PUT /admin/schemes/{schemeID} requests.
func (h *Handler) HandleUpdateScheme(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	schemeID, ok := h.schemeID(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[SchemeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	sch, err := h.service.UpdateScheme(ctx, requestcontext.UserID(ctx), schemeID, req.Input())
	if err != nil {
		h.logError(ctx, "scheme update failed", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromScheme(sch))
}

// HandleChangeSchemeStatus handles PATCH /admin/schemes/{schemeID}/status
// requests.
func (h *Handler) HandleChangeSchemeStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	schemeID, ok := h.schemeID(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[StatusRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	sch, err := h.service.ChangeSchemeStatus(ctx, requestcontext.UserID(ctx), schemeID, req.ParsedStatus())
	if err != nil {
		h.logError(ctx, "scheme status change failed", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromScheme(sch))
}

// HandleDeleteScheme handles DELETE /admin/schemes/{schemeID} requests.
func (h *Handler) HandleDeleteScheme(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	schemeID, ok := h.schemeID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteScheme(ctx, requestcontext.UserID(ctx), schemeID); err != nil {
		h.logError(ctx, "scheme deletion failed", err)
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) schemeID(w http.ResponseWriter, r *http.Request) (id.SchemeID, bool) {
	schemeID, err := id.ParseSchemeID(chi.URLParam(r, "schemeID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "scheme id is not valid"))
		return id.SchemeID{}, false
	}
	return schemeID, true
}

func (h *Handler) logError(ctx context.Context, msg string, err error) {
	if dErrors.CodeOf(err) != dErrors.CodeInternal {
		return
	}
	h.logger.ErrorContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"user_id", requestcontext.UserID(ctx),
		"error", err,
	)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
