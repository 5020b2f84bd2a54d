package revocation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schemeteller/pkg/platform/sentinel"
)

func TestInMemoryTRL(t *testing.T) {
	ctx := context.Background()

	t.Run("revoked token is reported revoked until its ttl passes", func(t *testing.T) {
		now := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
		trl := NewInMemoryTRL(WithClock(func() time.Time { return now }))

		require.NoError(t, trl.RevokeToken(ctx, "jti-1", 15*time.Minute))

		revoked, err := trl.IsRevoked(ctx, "jti-1")
		require.NoError(t, err)
		assert.True(t, revoked)

		now = now.Add(16 * time.Minute)
		revoked, err = trl.IsRevoked(ctx, "jti-1")
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("unknown token is not revoked", func(t *testing.T) {
		trl := NewInMemoryTRL()
		revoked, err := trl.IsRevoked(ctx, "never-seen")
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("empty jti is a no-op", func(t *testing.T) {
		trl := NewInMemoryTRL()
		require.NoError(t, trl.RevokeToken(ctx, "", time.Minute))
		revoked, err := trl.IsRevoked(ctx, "")
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("non-positive ttl is rejected", func(t *testing.T) {
		trl := NewInMemoryTRL()
		assert.ErrorIs(t, trl.RevokeToken(ctx, "jti-1", 0), sentinel.ErrInvalidState)
		assert.ErrorIs(t, trl.RevokeToken(ctx, "jti-1", -time.Minute), sentinel.ErrInvalidState)
	})
}
