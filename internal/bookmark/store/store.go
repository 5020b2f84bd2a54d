// Package store persists bookmarks.
package store

import (
	"context"

	"schemeteller/internal/bookmark"
	id "schemeteller/pkg/domain"
)

// Store is the bookmark persistence contract. Implementations return
// sentinel.ErrConflict when the (user, scheme) pair already exists and
// sentinel.ErrNotFound for missing rows. Deletes are scoped to the owning
// user so one user can never remove another's bookmark.
type Store interface {
	Create(ctx context.Context, b *bookmark.Bookmark) error
	FindByUserAndScheme(ctx context.Context, userID id.UserID, schemeID id.SchemeID) (*bookmark.Bookmark, error)
	ListByUser(ctx context.Context, userID id.UserID) ([]*bookmark.Bookmark, error)
	Delete(ctx context.Context, userID id.UserID, bookmarkID id.BookmarkID) error
	DeleteByScheme(ctx context.Context, userID id.UserID, schemeID id.SchemeID) error
	CountByUser(ctx context.Context, userID id.UserID) (int, error)
	CountByScheme(ctx context.Context, schemeID id.SchemeID) (int, error)
	Count(ctx context.Context) (int, error)
}
