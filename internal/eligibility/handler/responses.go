package handler

import (
	"encoding/json"
	"time"

	"schemeteller/internal/eligibility"
	id "schemeteller/pkg/domain"
)

// Response is the HTTP response for GET /eligibility.
type Response struct {
	Eligible            bool                    `json:"eligible"`
	OnboardingCompleted bool                    `json:"onboarding_completed"`
	Vector              *eligibility.Vector     `json:"vector,omitempty"`
	MatchedSchemes      []MatchedSchemeResponse `json:"matched_schemes"`
	MatchedCount        int                     `json:"matched_count"`
	EvaluatedAt         *time.Time              `json:"evaluated_at,omitempty"`
}

// MatchedSchemeResponse is one matched scheme with the caller's bookmark
// state.
type MatchedSchemeResponse struct {
	ID                id.SchemeID     `json:"id"`
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	Ministry          string          `json:"ministry"`
	Level             string          `json:"level"`
	EligibilityRules  json.RawMessage `json:"eligibility_rules,omitempty"`
	ApplicableRegions []id.Region     `json:"applicable_regions"`
	OfficialLink      string          `json:"official_link,omitempty"`
	Bookmarked        bool            `json:"bookmarked"`
	BookmarkID        *id.BookmarkID  `json:"bookmark_id,omitempty"`
}

// RefreshResponse is the HTTP response for POST /eligibility/refresh.
type RefreshResponse struct {
	MatchedCount int       `json:"matched_count"`
	EvaluatedAt  time.Time `json:"evaluated_at"`
}

// NotOnboardedResponse is the envelope for users who have not completed
// onboarding: not an error, just not eligible for anything yet.
func NotOnboardedResponse() Response {
	return Response{
		Eligible:       false,
		MatchedSchemes: []MatchedSchemeResponse{},
	}
}

// FromResult converts an evaluation result, marking matched schemes the
// user has bookmarked.
func FromResult(result *eligibility.Result, bookmarked map[id.SchemeID]id.BookmarkID, evaluatedAt time.Time) Response {
	matched := make([]MatchedSchemeResponse, 0, len(result.MatchedSchemes))
	for _, sch := range result.MatchedSchemes {
		regions := sch.ApplicableRegions
		if regions == nil {
			regions = []id.Region{}
		}
		entry := MatchedSchemeResponse{
			ID:                sch.ID,
			Name:              sch.Name,
			Description:       sch.Description,
			Ministry:          sch.Ministry,
			Level:             string(sch.Level),
			EligibilityRules:  sch.EligibilityRules,
			ApplicableRegions: regions,
			OfficialLink:      sch.OfficialLink,
		}
		if bookmarkID, ok := bookmarked[sch.ID]; ok {
			entry.Bookmarked = true
			bid := bookmarkID
			entry.BookmarkID = &bid
		}
		matched = append(matched, entry)
	}

	vector := result.Vector
	return Response{
		Eligible:            len(matched) > 0,
		OnboardingCompleted: true,
		Vector:              &vector,
		MatchedSchemes:      matched,
		MatchedCount:        len(matched),
		EvaluatedAt:         &evaluatedAt,
	}
}
