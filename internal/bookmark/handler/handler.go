package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"schemeteller/internal/bookmark"
	id "schemeteller/pkg/domain"
	dErrors "schemeteller/pkg/domain-errors"
	"schemeteller/pkg/platform/httputil"
	"schemeteller/pkg/requestcontext"
)

// Service defines the interface for bookmark operations.
type Service interface {
	Create(ctx context.Context, userID id.UserID, schemeID id.SchemeID) (*bookmark.CreateResult, error)
	List(ctx context.Context, userID id.UserID) ([]*bookmark.Entry, error)
	Delete(ctx context.Context, userID id.UserID, ref string) error
}

// Handler wires bookmark endpoints to the bookmark service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a bookmark handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts bookmark endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/bookmarks", h.HandleList)
	r.Post("/bookmarks", h.HandleCreate)
	r.Delete("/bookmarks/{ref}", h.HandleDelete)
}

// HandleCreate handles POST /bookmarks requests.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	userID := requestcontext.UserID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Create(ctx, userID, req.ParsedSchemeID())
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeNotFound) {
			h.logger.ErrorContext(ctx, "bookmark creation failed",
				"request_id", requestID,
				"user_id", userID,
				"scheme_id", req.SchemeID,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	if result.AlreadyExists {
		// The existing bookmark's id rides along so clients can reconcile.
		httputil.WriteJSON(w, http.StatusConflict, ConflictResponse{
			Error:      string(dErrors.CodeConflict),
			BookmarkID: result.Bookmark.ID,
		})
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, FromBookmark(result.Bookmark))
}

// HandleList handles GET /bookmarks requests.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := requestcontext.UserID(ctx)

	entries, err := h.service.List(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "bookmark listing failed",
			"request_id", requestcontext.RequestID(ctx),
			"user_id", userID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromEntries(entries))
}

// HandleDelete handles DELETE /bookmarks/{ref} requests. The path segment
// may be a bookmark id or a scheme id.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := requestcontext.UserID(ctx)

	if err := h.service.Delete(ctx, userID, chi.URLParam(r, "ref")); err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "bookmark deletion failed",
				"request_id", requestcontext.RequestID(ctx),
				"user_id", userID,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
