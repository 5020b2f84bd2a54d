package eligibility

import (
	"schemeteller/internal/scheme"
	id "schemeteller/pkg/domain"
)

// Match is the outcome of evaluating one vector against a catalog snapshot.
// Malformed lists schemes whose policy failed to parse and were therefore
// rejected conservatively; callers log it as a data-quality signal.
type Match struct {
	MatchedIDs     []id.SchemeID
	MatchedSchemes []*scheme.Scheme
	Malformed      []id.SchemeID
}

// FindEligible evaluates the vector against every candidate scheme. Pure:
// the result is fully determined by the vector and the catalog snapshot.
//
// Candidates are expected to be pre-filtered to APPROVED, but non-approved
// entries are discarded here as well so a caller mistake can never surface a
// draft or archived scheme.
func FindEligible(v Vector, candidates []*scheme.Scheme) Match {
	match := Match{
		MatchedIDs:     make([]id.SchemeID, 0, len(candidates)),
		MatchedSchemes: make([]*scheme.Scheme, 0, len(candidates)),
	}
	for _, s := range candidates {
		if s == nil || s.Status != id.SchemeStatusApproved {
			continue
		}
		policy, err := ParsePolicy(s.EligibilityRules)
		if err != nil {
			// Conservative reject: one bad policy must not abort the pass,
			// and must not admit anyone either.
			match.Malformed = append(match.Malformed, s.ID)
			continue
		}
		if Satisfies(v, policy, s.ApplicableRegions) {
			match.MatchedIDs = append(match.MatchedIDs, s.ID)
			match.MatchedSchemes = append(match.MatchedSchemes, s)
		}
	}
	return match
}

// Satisfies reports whether the vector passes every active predicate of the
// policy plus the scheme-level region restriction. Predicates are
// independent and AND-combined; the early returns are an optimization, not
// ordering semantics.
//
// Unknown never passes an active bound: a vector with nil age fails any age
// constraint, nil income fails an income ceiling, and the tri-state rural
// indicator must be exactly true (rural-only) or exactly false (urban-only).
func Satisfies(v Vector, p *Policy, applicableRegions []id.Region) bool {
	if p.MinAge != nil && (v.Age == nil || *v.Age < *p.MinAge) {
		return false
	}
	if p.MaxAge != nil && (v.Age == nil || *v.Age > *p.MaxAge) {
		return false
	}
	if len(p.Genders) > 0 && (v.Gender == nil || !containsGender(p.Genders, *v.Gender)) {
		return false
	}
	if len(p.Categories) > 0 && (v.Category == nil || !containsCategory(p.Categories, *v.Category)) {
		return false
	}
	// Equal to the ceiling passes; only strictly greater is rejected.
	if p.MaxIncome != nil && (v.AnnualIncome == nil || *v.AnnualIncome > *p.MaxIncome) {
		return false
	}
	if len(p.Occupations) > 0 && (v.Occupation == nil || !containsOccupation(p.Occupations, *v.Occupation)) {
		return false
	}
	if len(applicableRegions) > 0 && (v.Region == nil || !containsRegion(applicableRegions, *v.Region)) {
		return false
	}
	if p.BPLOnly && !v.IsBPL {
		return false
	}
	if p.DisabilityOnly && !v.IsDisabled {
		return false
	}
	if p.MinorityOnly && !v.IsMinority {
		return false
	}
	if p.RuralOnly && (v.IsRural == nil || !*v.IsRural) {
		return false
	}
	if p.UrbanOnly && (v.IsRural == nil || *v.IsRural) {
		return false
	}
	return true
}

func containsGender(set []id.Gender, g id.Gender) bool {
	for _, m := range set {
		if m == g {
			return true
		}
	}
	return false
}

func containsCategory(set []id.Category, c id.Category) bool {
	for _, m := range set {
		if m == c {
			return true
		}
	}
	return false
}

func containsOccupation(set []id.Occupation, o id.Occupation) bool {
	for _, m := range set {
		if m == o {
			return true
		}
	}
	return false
}

func containsRegion(set []id.Region, r id.Region) bool {
	for _, m := range set {
		if m == r {
			return true
		}
	}
	return false
}
