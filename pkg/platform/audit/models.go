// Package audit defines the transport-agnostic audit event emitted from
// domain logic, plus the store/publisher seams used to fan events out.
package audit

import (
	"context"
	"errors"
	"time"

	id "schemeteller/pkg/domain"
)

// ErrInboxFull is returned by non-blocking publishers when the buffer is
// saturated. Callers treat it as a data-loss signal, not a request failure.
var ErrInboxFull = errors.New("audit inbox full")

// EventCategory classifies audit events by their primary purpose. Categories
// drive retention and routing, not behavior.
type EventCategory string

const (
	// CategoryCompliance covers events with regulatory significance:
	// account creation/deletion, consent to profiling, admin actions on users.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers events relevant to security monitoring:
	// auth failures, sign-ins, token revocations.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers events useful for operational visibility:
	// eligibility recomputations, catalog changes, bookmark churn.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	UserID    id.UserID
	Action    Action
	// Subject identifies the entity acted on when it is not the user itself
	// (scheme ID, bookmark ID, target user ID for admin operations).
	Subject string
	// ActorID tracks who performed the action when different from UserID
	// (admin operations on another user's account).
	ActorID   string
	RequestID string
	ClientIP  string
	UserAgent string
	// Detail carries small action-specific facts (matched count, status
	// transition). Values must be safe to log.
	Detail map[string]string
}

// Action names an audited action.
type Action string

const (
	ActionUserCreated          Action = "user_created"
	ActionUserDeleted          Action = "user_deleted"
	ActionSignedIn             Action = "signed_in"
	ActionSignedOut            Action = "signed_out"
	ActionAuthFailed           Action = "auth_failed"
	ActionOnboardingCompleted  Action = "onboarding_completed"
	ActionProfileUpdated       Action = "profile_updated"
	ActionEligibilityRefreshed Action = "eligibility_refreshed"
	ActionSchemeCreated        Action = "scheme_created"
	ActionSchemeUpdated        Action = "scheme_updated"
	ActionSchemeStatusChanged  Action = "scheme_status_changed"
	ActionSchemeDeleted        Action = "scheme_deleted"
	ActionBookmarkCreated      Action = "bookmark_created"
	ActionBookmarkRemoved      Action = "bookmark_removed"
)

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByUser(ctx context.Context, userID id.UserID) ([]Event, error)
}

// Publisher delivers audit events to an external sink. Implementations must
// tolerate being called on request paths: failures are reported, never fatal
// to the business operation.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}
