// Package store persists user accounts.
package store

import (
	"context"
	"encoding/json"

	"schemeteller/internal/user"
	id "schemeteller/pkg/domain"
)

// Store is the user persistence contract. Implementations return
// sentinel.ErrNotFound for missing users and sentinel.ErrConflict when a
// create or update would violate email uniqueness.
type Store interface {
	Create(ctx context.Context, u *user.User) error
	FindByID(ctx context.Context, userID id.UserID) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	// Update replaces the account and profile columns. The eligibility
	// snapshot is owned by SaveEligibility and is not touched here.
	Update(ctx context.Context, u *user.User) error
	// SaveEligibility replaces the snapshot and derived bracket in one write.
	SaveEligibility(ctx context.Context, userID id.UserID, snapshot json.RawMessage, bracket *id.IncomeBracket) error
	// List returns a page of users ordered by creation time, newest first,
	// along with the total count. A non-empty search narrows by name or
	// email, case-insensitively.
	List(ctx context.Context, search string, page, limit int) ([]*user.User, int, error)
	Delete(ctx context.Context, userID id.UserID) error
	// Counts reports the total number of accounts and how many of them have
	// completed onboarding.
	Counts(ctx context.Context) (total, onboarded int, err error)
}
