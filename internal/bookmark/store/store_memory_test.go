package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schemeteller/internal/bookmark"
	id "schemeteller/pkg/domain"
	"schemeteller/pkg/platform/sentinel"
)

func newBookmark(userID id.UserID, schemeID id.SchemeID) *bookmark.Bookmark {
	return &bookmark.Bookmark{
		ID:       id.NewBookmarkID(),
		UserID:   userID,
		SchemeID: schemeID,
	}
}

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("create then find by pair", func(t *testing.T) {
		s := NewInMemory()
		userID, schemeID := id.NewUserID(), id.NewSchemeID()
		b := newBookmark(userID, schemeID)
		require.NoError(t, s.Create(ctx, b))

		got, err := s.FindByUserAndScheme(ctx, userID, schemeID)
		require.NoError(t, err)
		assert.Equal(t, b.ID, got.ID)
		assert.False(t, got.CreatedAt.IsZero())
	})

	t.Run("second bookmark for the same pair conflicts", func(t *testing.T) {
		s := NewInMemory()
		userID, schemeID := id.NewUserID(), id.NewSchemeID()
		require.NoError(t, s.Create(ctx, newBookmark(userID, schemeID)))

		err := s.Create(ctx, newBookmark(userID, schemeID))
		assert.ErrorIs(t, err, sentinel.ErrConflict)
	})

	t.Run("same scheme for different users is fine", func(t *testing.T) {
		s := NewInMemory()
		schemeID := id.NewSchemeID()
		require.NoError(t, s.Create(ctx, newBookmark(id.NewUserID(), schemeID)))
		require.NoError(t, s.Create(ctx, newBookmark(id.NewUserID(), schemeID)))

		count, err := s.CountByScheme(ctx, schemeID)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("list is scoped to the user", func(t *testing.T) {
		s := NewInMemory()
		userID := id.NewUserID()
		require.NoError(t, s.Create(ctx, newBookmark(userID, id.NewSchemeID())))
		require.NoError(t, s.Create(ctx, newBookmark(userID, id.NewSchemeID())))
		require.NoError(t, s.Create(ctx, newBookmark(id.NewUserID(), id.NewSchemeID())))

		got, err := s.ListByUser(ctx, userID)
		require.NoError(t, err)
		assert.Len(t, got, 2)

		count, err := s.CountByUser(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		total, err := s.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, total)
	})

	t.Run("delete requires ownership", func(t *testing.T) {
		s := NewInMemory()
		userID := id.NewUserID()
		b := newBookmark(userID, id.NewSchemeID())
		require.NoError(t, s.Create(ctx, b))

		assert.ErrorIs(t, s.Delete(ctx, id.NewUserID(), b.ID), sentinel.ErrNotFound)
		require.NoError(t, s.Delete(ctx, userID, b.ID))
		assert.ErrorIs(t, s.Delete(ctx, userID, b.ID), sentinel.ErrNotFound)
	})

	t.Run("delete by scheme requires ownership", func(t *testing.T) {
		s := NewInMemory()
		userID, schemeID := id.NewUserID(), id.NewSchemeID()
		require.NoError(t, s.Create(ctx, newBookmark(userID, schemeID)))

		assert.ErrorIs(t, s.DeleteByScheme(ctx, id.NewUserID(), schemeID), sentinel.ErrNotFound)
		require.NoError(t, s.DeleteByScheme(ctx, userID, schemeID))

		_, err := s.FindByUserAndScheme(ctx, userID, schemeID)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})
}
