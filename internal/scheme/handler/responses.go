package handler

import (
	"encoding/json"
	"time"

	"schemeteller/internal/scheme"
	id "schemeteller/pkg/domain"
)

// SchemeResponse is one catalog entry as rendered to clients.
type SchemeResponse struct {
	ID                id.SchemeID     `json:"id"`
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	Ministry          string          `json:"ministry"`
	Level             string          `json:"level"`
	Status            string          `json:"status"`
	EligibilityRules  json.RawMessage `json:"eligibility_rules,omitempty"`
	ApplicableRegions []id.Region     `json:"applicable_regions"`
	OfficialLink      string          `json:"official_link,omitempty"`
	BookmarkCount     int             `json:"bookmark_count"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ListResponse is one page of catalog results.
type ListResponse struct {
	Schemes []SchemeResponse `json:"schemes"`
	Total   int              `json:"total"`
	Page    int              `json:"page"`
	Limit   int              `json:"limit"`
}

// DetailResponse is one scheme plus the caller's bookmark state.
type DetailResponse struct {
	SchemeResponse
	Bookmarked bool           `json:"bookmarked"`
	BookmarkID *id.BookmarkID `json:"bookmark_id,omitempty"`
}

// MinistriesResponse lists distinct ministries for filter dropdowns.
type MinistriesResponse struct {
	Ministries []string `json:"ministries"`
}

// FromScheme converts a domain scheme to its HTTP rendering.
func FromScheme(sch *scheme.Scheme) SchemeResponse {
	regions := sch.ApplicableRegions
	if regions == nil {
		regions = []id.Region{}
	}
	return SchemeResponse{
		ID:                sch.ID,
		Name:              sch.Name,
		Description:       sch.Description,
		Ministry:          sch.Ministry,
		Level:             string(sch.Level),
		Status:            string(sch.Status),
		EligibilityRules:  sch.EligibilityRules,
		ApplicableRegions: regions,
		OfficialLink:      sch.OfficialLink,
		BookmarkCount:     sch.BookmarkCount,
		CreatedAt:         sch.CreatedAt,
		UpdatedAt:         sch.UpdatedAt,
	}
}

// FromPage converts a result page plus the filter it was produced with.
func FromPage(page *scheme.Page, filter scheme.ListFilter) ListResponse {
	schemes := make([]SchemeResponse, 0, len(page.Schemes))
	for _, sch := range page.Schemes {
		schemes = append(schemes, FromScheme(sch))
	}
	return ListResponse{
		Schemes: schemes,
		Total:   page.Total,
		Page:    filter.Page,
		Limit:   filter.Limit,
	}
}

// FromDetail converts a scheme detail with bookmark state.
func FromDetail(detail *scheme.Detail) DetailResponse {
	return DetailResponse{
		SchemeResponse: FromScheme(detail.Scheme),
		Bookmarked:     detail.Bookmarked,
		BookmarkID:     detail.BookmarkID,
	}
}
