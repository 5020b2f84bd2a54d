package handler

import (
	"encoding/json"
	"strings"

	"schemeteller/internal/admin"
	id "schemeteller/pkg/domain"
	dErrors "schemeteller/pkg/domain-errors"
)

// SchemeRequest is the HTTP request body for creating or replacing a scheme.
type SchemeRequest struct {
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	Ministry          string          `json:"ministry"`
	Level             string          `json:"level"`
	Status            string          `json:"status"`
	EligibilityRules  json.RawMessage `json:"eligibility_rules"`
	ApplicableRegions []string        `json:"applicable_regions"`
	OfficialLink      string          `json:"official_link"`

	input admin.SchemeInput
}

// Validate validates and parses the request. Policy document validation
// happens in the service so the strict rules live in one place.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *SchemeRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}

	r.input = admin.SchemeInput{
		Name:             r.Name,
		Description:      r.Description,
		Ministry:         r.Ministry,
		EligibilityRules: r.EligibilityRules,
		OfficialLink:     r.OfficialLink,
	}

	if r.Level == "" {
		return dErrors.New(dErrors.CodeValidation, "level is required")
	}
	level, err := id.ParseSchemeLevel(r.Level)
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "level is not valid")
	}
	r.input.Level = level

	if r.Status != "" {
		status, err := id.ParseSchemeStatus(r.Status)
		if err != nil {
			return dErrors.New(dErrors.CodeValidation, "status is not valid")
		}
		r.input.Status = status
	}

	for _, raw := range r.ApplicableRegions {
		region, err := id.ParseRegion(raw)
		if err != nil {
			return dErrors.New(dErrors.CodeValidation, "applicable_regions contains an unknown region")
		}
		r.input.ApplicableRegions = append(r.input.ApplicableRegions, region)
	}
	return nil
}

// Input returns the parsed scheme fields.
func (r *SchemeRequest) Input() admin.SchemeInput {
	return r.input
}

// StatusRequest is the HTTP request body for PATCH /admin/schemes/{id}/status.
type StatusRequest struct {
	Status string `json:"status"`

	parsedStatus id.SchemeStatus
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *StatusRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.Status == "" {
		return dErrors.New(dErrors.CodeValidation, "status is required")
	}
	status, err := id.ParseSchemeStatus(r.Status)
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "status is not valid")
	}
	r.parsedStatus = status
	return nil
}

// ParsedStatus returns the validated target status.
func (r *StatusRequest) ParsedStatus() id.SchemeStatus {
	return r.parsedStatus
}
