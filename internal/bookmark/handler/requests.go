package handler

import (
	id "schemeteller/pkg/domain"
	dErrors "schemeteller/pkg/domain-errors"
)

// CreateRequest is the HTTP request body for POST /bookmarks.
type CreateRequest struct {
	SchemeID string `json:"scheme_id"`

	parsedSchemeID id.SchemeID
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *CreateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.SchemeID == "" {
		return dErrors.New(dErrors.CodeValidation, "scheme_id is required")
	}
	schemeID, err := id.ParseSchemeID(r.SchemeID)
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "scheme_id is not valid")
	}
	r.parsedSchemeID = schemeID
	return nil
}

// ParsedSchemeID returns the validated scheme id.
func (r *CreateRequest) ParsedSchemeID() id.SchemeID {
	return r.parsedSchemeID
}
