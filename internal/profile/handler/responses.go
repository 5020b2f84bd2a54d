package handler

import (
	"time"

	"schemeteller/internal/eligibility"
	"schemeteller/internal/profile"
	id "schemeteller/pkg/domain"
)

// Response is the full self-view returned from the profile endpoints.
type Response struct {
	ID                  id.UserID             `json:"id"`
	Name                string                `json:"name"`
	Email               string                `json:"email"`
	Role                id.Role               `json:"role"`
	OnboardingCompleted bool                  `json:"onboarding_completed"`
	Profile             ProfileResponse       `json:"profile"`
	IncomeBracket       *id.IncomeBracket     `json:"income_bracket,omitempty"`
	BookmarkCount       int                   `json:"bookmark_count"`
	Eligibility         *eligibility.Snapshot `json:"eligibility,omitempty"`
	CreatedAt           time.Time             `json:"created_at"`
	UpdatedAt           time.Time             `json:"updated_at"`
}

// ProfileResponse is the demographic profile as stored. Unset fields render
// as null so clients can tell unknown from false.
type ProfileResponse struct {
	DateOfBirth  *string        `json:"date_of_birth"`
	Gender       *id.Gender     `json:"gender"`
	Category     *id.Category   `json:"category"`
	Region       *id.Region     `json:"region"`
	District     *string        `json:"district"`
	IsRural      *bool          `json:"is_rural"`
	AnnualIncome *float64       `json:"annual_income"`
	Occupation   *id.Occupation `json:"occupation"`
	IsBPL        bool           `json:"is_bpl"`
	IsDisabled   bool           `json:"is_disabled"`
	IsMinority   bool           `json:"is_minority"`
}

// FromOverview converts a profile overview to its response representation.
func FromOverview(o *profile.Overview) Response {
	u := o.User
	resp := Response{
		ID:                  u.ID,
		Name:                u.Name,
		Email:               u.Email,
		Role:                u.Role,
		OnboardingCompleted: u.OnboardingCompleted,
		IncomeBracket:       u.IncomeBracket,
		BookmarkCount:       o.BookmarkCount,
		Eligibility:         o.Snapshot,
		CreatedAt:           u.CreatedAt,
		UpdatedAt:           u.UpdatedAt,
		Profile: ProfileResponse{
			Gender:       u.Profile.Gender,
			Category:     u.Profile.Category,
			Region:       u.Profile.Region,
			District:     u.Profile.District,
			IsRural:      u.Profile.IsRural,
			AnnualIncome: u.Profile.AnnualIncome,
			Occupation:   u.Profile.Occupation,
			IsBPL:        u.Profile.IsBPL,
			IsDisabled:   u.Profile.IsDisabled,
			IsMinority:   u.Profile.IsMinority,
		},
	}
	if u.Profile.DateOfBirth != nil {
		dob := u.Profile.DateOfBirth.Format(dateLayout)
		resp.Profile.DateOfBirth = &dob
	}
	return resp
}
