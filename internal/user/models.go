package user

import (
	"encoding/json"
	"time"

	id "schemeteller/pkg/domain"
)

// User is the account record. Credentials, the demographic profile, and the
// cached eligibility snapshot all live on one row, mirroring how the record
// is read: nearly every authenticated request loads the whole user.
type User struct {
	ID                  id.UserID
	Email               string
	PasswordHash        string
	Name                string
	Role                id.Role
	OnboardingCompleted bool

	Profile Profile

	// IncomeBracket is derived from Profile.AnnualIncome. It is persisted
	// separately because profile edits re-derive it even when the full
	// eligibility rebuild is deferred.
	IncomeBracket *id.IncomeBracket

	// EligibilitySnapshot is the engine-owned cache: the eligibility vector
	// plus matched scheme IDs as of the last recompute. Opaque to this
	// package; replaced wholesale, never patched.
	EligibilitySnapshot json.RawMessage

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Profile carries the demographic and economic attributes eligibility is
// computed from. Every field is independently optional; the three bool flags
// default to false while IsRural keeps its unknown state as nil.
type Profile struct {
	DateOfBirth  *time.Time
	Gender       *id.Gender
	Category     *id.Category
	Region       *id.Region
	District     *string
	IsRural      *bool
	AnnualIncome *float64
	Occupation   *id.Occupation
	IsBPL        bool
	IsDisabled   bool
	IsMinority   bool
}
