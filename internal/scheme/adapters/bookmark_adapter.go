// Package adapters bridges the scheme service to neighbouring features
// without creating package cycles.
package adapters

import (
	"context"
	"errors"

	bookmarkstore "schemeteller/internal/bookmark/store"
	id "schemeteller/pkg/domain"
	"schemeteller/pkg/platform/sentinel"
)

// BookmarkAdapter adapts the bookmark store to the catalog's BookmarkReader.
type BookmarkAdapter struct {
	store bookmarkstore.Store
}

func NewBookmarkAdapter(store bookmarkstore.Store) *BookmarkAdapter {
	return &BookmarkAdapter{store: store}
}

func (a *BookmarkAdapter) CountByScheme(ctx context.Context, schemeID id.SchemeID) (int, error) {
	return a.store.CountByScheme(ctx, schemeID)
}

func (a *BookmarkAdapter) FindBookmarkID(ctx context.Context, userID id.UserID, schemeID id.SchemeID) (*id.BookmarkID, error) {
	b, err := a.store.FindByUserAndScheme(ctx, userID, schemeID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	bookmarkID := b.ID
	return &bookmarkID, nil
}
