// Package revocation maintains the token revocation list (TRL): signed-out
// access tokens that must be rejected until they expire on their own.
package revocation

import (
	"context"
	"fmt"
	"time"

	"schemeteller/pkg/platform/sentinel"
)

// TokenRevocationList records revoked token JTIs for their remaining life.
type TokenRevocationList interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

func validateTTL(ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("ttl must be positive: %w", sentinel.ErrInvalidState)
	}
	return nil
}
