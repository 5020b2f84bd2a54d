package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"schemeteller/internal/scheme"
	id "schemeteller/pkg/domain"
	dErrors "schemeteller/pkg/domain-errors"
	"schemeteller/pkg/platform/httputil"
	"schemeteller/pkg/requestcontext"
)

// Service defines the interface for public catalog operations.
type Service interface {
	List(ctx context.Context, filter scheme.ListFilter) (*scheme.Page, error)
	Get(ctx context.Context, schemeID id.SchemeID, userID id.UserID) (*scheme.Detail, error)
	Ministries(ctx context.Context) ([]string, error)
}

// Handler wires public catalog endpoints to the scheme service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a scheme handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts catalog endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/schemes", h.HandleList)
	r.Get("/schemes/ministries", h.HandleMinistries)
	r.Get("/schemes/{schemeID}", h.HandleGet)
}

// HandleList handles GET /schemes requests.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter := scheme.ListFilter{
		Search:   r.URL.Query().Get("search"),
		Ministry: r.URL.Query().Get("ministry"),
	}
	if raw := r.URL.Query().Get("level"); raw != "" {
		level, err := id.ParseSchemeLevel(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		filter.Level = level
	}
	filter.Page = queryInt(r, "page", 1)
	filter.Limit = queryInt(r, "limit", 20)

	page, err := h.service.List(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "scheme listing failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromPage(page, filter))
}

// HandleGet handles GET /schemes/{schemeID} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	schemeID, err := id.ParseSchemeID(chi.URLParam(r, "schemeID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "scheme id is not valid"))
		return
	}

	detail, err := h.service.Get(ctx, schemeID, requestcontext.UserID(ctx))
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeNotFound) {
			h.logger.ErrorContext(ctx, "scheme lookup failed",
				"request_id", requestcontext.RequestID(ctx),
				"scheme_id", schemeID,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromDetail(detail))
}

// HandleMinistries handles GET /schemes/ministries requests.
func (h *Handler) HandleMinistries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ministries, err := h.service.Ministries(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "ministry listing failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, MinistriesResponse{Ministries: ministries})
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}
