package handler

import (
	"strings"
	"time"

	"schemeteller/internal/profile"
	id "schemeteller/pkg/domain"
	dErrors "schemeteller/pkg/domain-errors"
)

const dateLayout = "2006-01-02"

// PatchRequest is the HTTP request body for PATCH /profile. Absent fields
// are left unchanged.
type PatchRequest struct {
	Name         *string  `json:"name"`
	DateOfBirth  *string  `json:"date_of_birth"`
	Gender       *string  `json:"gender"`
	Category     *string  `json:"category"`
	Region       *string  `json:"region"`
	District     *string  `json:"district"`
	IsRural      *bool    `json:"is_rural"`
	AnnualIncome *float64 `json:"annual_income"`
	Occupation   *string  `json:"occupation"`
	IsBPL        *bool    `json:"is_bpl"`
	IsDisabled   *bool    `json:"is_disabled"`
	IsMinority   *bool    `json:"is_minority"`

	update profile.Update
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *PatchRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	r.update = profile.Update{
		District:   r.District,
		IsRural:    r.IsRural,
		IsBPL:      r.IsBPL,
		IsDisabled: r.IsDisabled,
		IsMinority: r.IsMinority,
	}

	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		if name == "" {
			return dErrors.New(dErrors.CodeValidation, "name cannot be empty")
		}
		r.update.Name = &name
	}
	if r.DateOfBirth != nil {
		dob, err := parseDateOfBirth(*r.DateOfBirth)
		if err != nil {
			return err
		}
		r.update.DateOfBirth = dob
	}
	if r.Gender != nil {
		gender, err := id.ParseGender(*r.Gender)
		if err != nil {
			return dErrors.New(dErrors.CodeValidation, "gender is not valid")
		}
		r.update.Gender = &gender
	}
	if r.Category != nil {
		category, err := id.ParseCategory(*r.Category)
		if err != nil {
			return dErrors.New(dErrors.CodeValidation, "category is not valid")
		}
		r.update.Category = &category
	}
	if r.Region != nil {
		region, err := id.ParseRegion(*r.Region)
		if err != nil {
			return dErrors.New(dErrors.CodeValidation, "region is not valid")
		}
		r.update.Region = &region
	}
	if r.Occupation != nil {
		occupation, err := id.ParseOccupation(*r.Occupation)
		if err != nil {
			return dErrors.New(dErrors.CodeValidation, "occupation is not valid")
		}
		r.update.Occupation = &occupation
	}
	if r.AnnualIncome != nil {
		if *r.AnnualIncome < 0 {
			return dErrors.New(dErrors.CodeValidation, "annual_income cannot be negative")
		}
		r.update.AnnualIncome = r.AnnualIncome
	}
	return nil
}

// Update returns the parsed partial update.
func (r *PatchRequest) Update() profile.Update {
	return r.update
}

// OnboardingRequest is the HTTP request body for POST /onboarding.
type OnboardingRequest struct {
	DateOfBirth  string   `json:"date_of_birth"`
	Gender       string   `json:"gender"`
	Region       string   `json:"region"`
	AnnualIncome *float64 `json:"annual_income"`
	Category     *string  `json:"category"`
	District     *string  `json:"district"`
	IsRural      *bool    `json:"is_rural"`
	Occupation   *string  `json:"occupation"`
	IsBPL        bool     `json:"is_bpl"`
	IsDisabled   bool     `json:"is_disabled"`
	IsMinority   bool     `json:"is_minority"`

	input profile.OnboardingInput
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *OnboardingRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.DateOfBirth == "" {
		return dErrors.New(dErrors.CodeValidation, "date_of_birth is required")
	}
	dob, err := parseDateOfBirth(r.DateOfBirth)
	if err != nil {
		return err
	}
	if r.Gender == "" {
		return dErrors.New(dErrors.CodeValidation, "gender is required")
	}
	gender, err := id.ParseGender(r.Gender)
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "gender is not valid")
	}
	if r.Region == "" {
		return dErrors.New(dErrors.CodeValidation, "region is required")
	}
	region, err := id.ParseRegion(r.Region)
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "region is not valid")
	}
	if r.AnnualIncome == nil {
		return dErrors.New(dErrors.CodeValidation, "annual_income is required")
	}
	if *r.AnnualIncome < 0 {
		return dErrors.New(dErrors.CodeValidation, "annual_income cannot be negative")
	}

	r.input = profile.OnboardingInput{
		DateOfBirth:  *dob,
		Gender:       gender,
		Region:       region,
		AnnualIncome: *r.AnnualIncome,
		District:     r.District,
		IsRural:      r.IsRural,
		IsBPL:        r.IsBPL,
		IsDisabled:   r.IsDisabled,
		IsMinority:   r.IsMinority,
	}
	if r.Category != nil {
		category, err := id.ParseCategory(*r.Category)
		if err != nil {
			return dErrors.New(dErrors.CodeValidation, "category is not valid")
		}
		r.input.Category = &category
	}
	if r.Occupation != nil {
		occupation, err := id.ParseOccupation(*r.Occupation)
		if err != nil {
			return dErrors.New(dErrors.CodeValidation, "occupation is not valid")
		}
		r.input.Occupation = &occupation
	}
	return nil
}

// Input returns the parsed onboarding profile.
func (r *OnboardingRequest) Input() profile.OnboardingInput {
	return r.input
}

func parseDateOfBirth(s string) (*time.Time, error) {
	dob, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, "date_of_birth must be formatted YYYY-MM-DD")
	}
	if dob.After(time.Now()) {
		return nil, dErrors.New(dErrors.CodeValidation, "date_of_birth cannot be in the future")
	}
	return &dob, nil
}
