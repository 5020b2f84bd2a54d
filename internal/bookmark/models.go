// Package bookmark lets users save schemes they want to revisit.
package bookmark

import (
	"time"

	id "schemeteller/pkg/domain"
)

// Bookmark links a user to a saved scheme. At most one per (user, scheme)
// pair.
type Bookmark struct {
	ID        id.BookmarkID
	UserID    id.UserID
	SchemeID  id.SchemeID
	CreatedAt time.Time
}
