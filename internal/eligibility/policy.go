package eligibility

import (
	"bytes"
	"encoding/json"
	"fmt"

	id "schemeteller/pkg/domain"
	dErrors "schemeteller/pkg/domain-errors"
)

// Policy is a scheme's eligibility policy: a sparse record of optional
// predicates. An unset field means "no constraint on that dimension" -
// never "matches nothing" and never "matches everyone via default".
//
// The rural/urban pair constrains the same underlying signal; a policy
// setting both is unsatisfiable but not invalid.
type Policy struct {
	MinAge         *int            `json:"minAge,omitempty"`
	MaxAge         *int            `json:"maxAge,omitempty"`
	Genders        []id.Gender     `json:"genders,omitempty"`
	Categories     []id.Category   `json:"categories,omitempty"`
	MaxIncome      *float64        `json:"maxIncome,omitempty"`
	Occupations    []id.Occupation `json:"occupations,omitempty"`
	BPLOnly        bool            `json:"bplOnly,omitempty"`
	DisabilityOnly bool            `json:"disabilityOnly,omitempty"`
	MinorityOnly   bool            `json:"minorityOnly,omitempty"`
	RuralOnly      bool            `json:"ruralOnly,omitempty"`
	UrbanOnly      bool            `json:"urbanOnly,omitempty"`
}

// ParsePolicy decodes a stored policy document strictly: unknown fields,
// wrong types, negative bounds, and unrecognised enum members are all
// errors. nil, empty, and JSON null documents are the unconstrained policy.
//
// Strictness here is the boundary that lets the matcher treat any parse
// failure as a data-quality problem on that one scheme.
func ParsePolicy(raw json.RawMessage) (*Policy, error) {
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return &Policy{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	var p Policy
	if err := dec.Decode(&p); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "eligibility policy is malformed")
	}

	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Policy) validate() error {
	if p.MinAge != nil && *p.MinAge < 0 {
		return dErrors.New(dErrors.CodeValidation, "minAge must not be negative")
	}
	if p.MaxAge != nil && *p.MaxAge < 0 {
		return dErrors.New(dErrors.CodeValidation, "maxAge must not be negative")
	}
	if p.MaxIncome != nil && *p.MaxIncome < 0 {
		return dErrors.New(dErrors.CodeValidation, "maxIncome must not be negative")
	}
	for _, g := range p.Genders {
		if _, err := id.ParseGender(string(g)); err != nil {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("genders contains unrecognised value %q", g))
		}
	}
	for _, c := range p.Categories {
		if _, err := id.ParseCategory(string(c)); err != nil {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("categories contains unrecognised value %q", c))
		}
	}
	for _, o := range p.Occupations {
		if _, err := id.ParseOccupation(string(o)); err != nil {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("occupations contains unrecognised value %q", o))
		}
	}
	return nil
}

// IsUnconstrained reports whether the policy carries no predicates at all.
// Such a policy accepts every vector, including an all-null one.
func (p *Policy) IsUnconstrained() bool {
	return p.MinAge == nil && p.MaxAge == nil &&
		len(p.Genders) == 0 && len(p.Categories) == 0 &&
		p.MaxIncome == nil && len(p.Occupations) == 0 &&
		!p.BPLOnly && !p.DisabilityOnly && !p.MinorityOnly &&
		!p.RuralOnly && !p.UrbanOnly
}
