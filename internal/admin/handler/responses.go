package handler

import (
	"encoding/json"
	"time"

	"schemeteller/internal/admin"
	"schemeteller/internal/scheme"
	"schemeteller/internal/user"
	id "schemeteller/pkg/domain"
)

// StatsResponse is the admin dashboard summary.
type StatsResponse struct {
	TotalUsers      int                      `json:"total_users"`
	OnboardedUsers  int                      `json:"onboarded_users"`
	TotalBookmarks  int                      `json:"total_bookmarks"`
	SchemesByStatus map[id.SchemeStatus]int  `json:"schemes_by_status"`
	RecentUsers     []UserResponse           `json:"recent_users"`
	RecentSchemes   []SchemeSummaryResponse  `json:"recent_schemes"`
}

// UserResponse is the account summary shown in admin listings. It never
// carries the demographic profile; admins manage accounts, not eligibility.
type UserResponse struct {
	ID                  id.UserID         `json:"id"`
	Name                string            `json:"name"`
	Email               string            `json:"email"`
	Role                id.Role           `json:"role"`
	OnboardingCompleted bool              `json:"onboarding_completed"`
	IncomeBracket       *id.IncomeBracket `json:"income_bracket,omitempty"`
	CreatedAt           time.Time         `json:"created_at"`
}

// UserListResponse is one page of user listings.
type UserListResponse struct {
	Users []UserResponse `json:"users"`
	Total int            `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

// SchemeSummaryResponse is the condensed scheme row for listings and stats.
type SchemeSummaryResponse struct {
	ID        id.SchemeID     `json:"id"`
	Name      string          `json:"name"`
	Ministry  string          `json:"ministry,omitempty"`
	Level     id.SchemeLevel  `json:"level"`
	Status    id.SchemeStatus `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

// SchemeResponse is the full scheme record, status and policy included.
type SchemeResponse struct {
	ID                id.SchemeID     `json:"id"`
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	Ministry          string          `json:"ministry,omitempty"`
	Level             id.SchemeLevel  `json:"level"`
	Status            id.SchemeStatus `json:"status"`
	EligibilityRules  json.RawMessage `json:"eligibility_rules,omitempty"`
	ApplicableRegions []id.Region     `json:"applicable_regions"`
	OfficialLink      string          `json:"official_link,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// SchemeListResponse is one page of catalog entries across all statuses.
type SchemeListResponse struct {
	Schemes []SchemeSummaryResponse `json:"schemes"`
	Total   int                     `json:"total"`
	Page    int                     `json:"page"`
	Limit   int                     `json:"limit"`
}

// FromUser converts a user to its admin response representation.
func FromUser(u *user.User) UserResponse {
	return UserResponse{
		ID:                  u.ID,
		Name:                u.Name,
		Email:               u.Email,
		Role:                u.Role,
		OnboardingCompleted: u.OnboardingCompleted,
		IncomeBracket:       u.IncomeBracket,
		CreatedAt:           u.CreatedAt,
	}
}

// FromUserPage converts a page of users to its response representation.
func FromUserPage(page *admin.UserPage, pageNum, limit int) UserListResponse {
	users := make([]UserResponse, 0, len(page.Users))
	for _, u := range page.Users {
		users = append(users, FromUser(u))
	}
	return UserListResponse{Users: users, Total: page.Total, Page: pageNum, Limit: limit}
}

// FromSchemeSummary converts a scheme to its condensed representation.
func FromSchemeSummary(s *scheme.Scheme) SchemeSummaryResponse {
	return SchemeSummaryResponse{
		ID:        s.ID,
		Name:      s.Name,
		Ministry:  s.Ministry,
		Level:     s.Level,
		Status:    s.Status,
		CreatedAt: s.CreatedAt,
	}
}

// FromScheme converts a scheme to its full admin representation.
func FromScheme(s *scheme.Scheme) SchemeResponse {
	regions := s.ApplicableRegions
	if regions == nil {
		regions = []id.Region{}
	}
	return SchemeResponse{
		ID:                s.ID,
		Name:              s.Name,
		Description:       s.Description,
		Ministry:          s.Ministry,
		Level:             s.Level,
		Status:            s.Status,
		EligibilityRules:  s.EligibilityRules,
		ApplicableRegions: regions,
		OfficialLink:      s.OfficialLink,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

// FromStats converts the stats aggregate to its response representation.
func FromStats(stats *admin.Stats) StatsResponse {
	users := make([]UserResponse, 0, len(stats.RecentUsers))
	for _, u := range stats.RecentUsers {
		users = append(users, FromUser(u))
	}
	schemes := make([]SchemeSummaryResponse, 0, len(stats.RecentSchemes))
	for _, s := range stats.RecentSchemes {
		schemes = append(schemes, FromSchemeSummary(s))
	}
	byStatus := stats.SchemesByStatus
	if byStatus == nil {
		byStatus = map[id.SchemeStatus]int{}
	}
	return StatsResponse{
		TotalUsers:      stats.TotalUsers,
		OnboardedUsers:  stats.OnboardedUsers,
		TotalBookmarks:  stats.TotalBookmarks,
		SchemesByStatus: byStatus,
		RecentUsers:     users,
		RecentSchemes:   schemes,
	}
}

// FromSchemePage converts a page of schemes to its response representation.
func FromSchemePage(page *scheme.Page, pageNum, limit int) SchemeListResponse {
	schemes := make([]SchemeSummaryResponse, 0, len(page.Schemes))
	for _, s := range page.Schemes {
		schemes = append(schemes, FromSchemeSummary(s))
	}
	return SchemeListResponse{Schemes: schemes, Total: page.Total, Page: pageNum, Limit: limit}
}
