package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"schemeteller/internal/bookmark"
	"schemeteller/internal/eligibility"
	id "schemeteller/pkg/domain"
	dErrors "schemeteller/pkg/domain-errors"
	"schemeteller/pkg/platform/httputil"
	"schemeteller/pkg/requestcontext"
)

// Service defines the interface for eligibility operations.
type Service interface {
	Refresh(ctx context.Context, userID id.UserID) (*eligibility.Result, error)
}

// BookmarkReader supplies the user's bookmarks so matched schemes can carry
// their bookmark state.
type BookmarkReader interface {
	ListByUser(ctx context.Context, userID id.UserID) ([]*bookmark.Bookmark, error)
}

// Handler wires eligibility endpoints to the engine service.
type Handler struct {
	service   Service
	bookmarks BookmarkReader
	logger    *slog.Logger
}

// New constructs an eligibility handler with its dependencies.
func New(service Service, bookmarks BookmarkReader, logger *slog.Logger) *Handler {
	return &Handler{service: service, bookmarks: bookmarks, logger: logger}
}

// Register mounts eligibility endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/eligibility", h.HandleGet)
	r.Post("/eligibility/refresh", h.HandleRefresh)
}

// HandleGet handles GET /eligibility requests: recompute, persist, and
// return the matched schemes with bookmark flags. A user who has not
// finished onboarding gets a not-eligible envelope, not an error.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	userID := requestcontext.UserID(ctx)
	start := time.Now()

	result, err := h.service.Refresh(ctx, userID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvalidState) {
			httputil.WriteJSON(w, http.StatusOK, NotOnboardedResponse())
			return
		}
		h.logger.ErrorContext(ctx, "eligibility evaluation failed",
			"request_id", requestID,
			"user_id", userID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	bookmarked, err := h.bookmarkedSchemes(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "bookmark lookup failed",
			"request_id", requestID,
			"user_id", userID,
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "load bookmarks"))
		return
	}

	h.logger.InfoContext(ctx, "eligibility evaluated",
		"request_id", requestID,
		"user_id", userID,
		"matched_count", len(result.MatchedIDs),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromResult(result, bookmarked, requestcontext.Now(ctx)))
}

// HandleRefresh handles POST /eligibility/refresh requests: force a
// recompute and report the matched count.
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	userID := requestcontext.UserID(ctx)

	result, err := h.service.Refresh(ctx, userID)
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "eligibility refresh failed",
				"request_id", requestID,
				"user_id", userID,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, RefreshResponse{
		MatchedCount: len(result.MatchedIDs),
		EvaluatedAt:  requestcontext.Now(ctx),
	})
}

func (h *Handler) bookmarkedSchemes(ctx context.Context, userID id.UserID) (map[id.SchemeID]id.BookmarkID, error) {
	bookmarks, err := h.bookmarks.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make(map[id.SchemeID]id.BookmarkID, len(bookmarks))
	for _, b := range bookmarks {
		out[b.SchemeID] = b.ID
	}
	return out, nil
}
