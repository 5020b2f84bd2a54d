package eligibility

import (
	"time"

	"schemeteller/internal/user"
	id "schemeteller/pkg/domain"
)

// Vector is the normalized snapshot of a profile that matching runs against.
// It is derived in full on every profile mutation and never patched field by
// field.
//
// Age is nil exactly when the profile has no date of birth; IncomeBracket is
// nil exactly when income is unknown. IsRural stays tri-state: true, false,
// or unknown.
type Vector struct {
	Age           *int              `json:"age"`
	Gender        *id.Gender        `json:"gender"`
	Category      *id.Category      `json:"category"`
	Region        *id.Region        `json:"region"`
	AnnualIncome  *float64          `json:"annualIncome"`
	IncomeBracket *id.IncomeBracket `json:"incomeBracket"`
	Occupation    *id.Occupation    `json:"occupation"`
	IsRural       *bool             `json:"isRural"`
	IsBPL         bool              `json:"isBPL"`
	IsDisabled    bool              `json:"isDisabled"`
	IsMinority    bool              `json:"isMinority"`
}

// AgeAt returns age in completed years at the given instant: calendar year
// difference, minus one if the (month, day) of now precedes the birthday.
// A birth date of today yields 0; Feb 29 birthdays complete a year on Mar 1
// in non-leap years.
func AgeAt(dateOfBirth, now time.Time) int {
	age := now.Year() - dateOfBirth.Year()
	if now.Month() < dateOfBirth.Month() ||
		(now.Month() == dateOfBirth.Month() && now.Day() < dateOfBirth.Day()) {
		age--
	}
	return age
}

// BuildVector derives the eligibility vector from a profile. Pure and total:
// every optional field maps to nil when absent. The evaluation instant is
// explicit so callers pin it to the request clock.
func BuildVector(p user.Profile, now time.Time) Vector {
	v := Vector{
		Gender:        p.Gender,
		Category:      p.Category,
		Region:        p.Region,
		AnnualIncome:  p.AnnualIncome,
		IncomeBracket: DeriveIncomeBracket(p.AnnualIncome),
		Occupation:    p.Occupation,
		IsRural:       p.IsRural,
		IsBPL:         p.IsBPL,
		IsDisabled:    p.IsDisabled,
		IsMinority:    p.IsMinority,
	}
	if p.DateOfBirth != nil {
		age := AgeAt(*p.DateOfBirth, now)
		v.Age = &age
	}
	return v
}
