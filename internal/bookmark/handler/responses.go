package handler

import (
	"encoding/json"
	"time"

	"schemeteller/internal/bookmark"
	id "schemeteller/pkg/domain"
)

// BookmarkResponse is one bookmark as rendered to clients.
type BookmarkResponse struct {
	ID        id.BookmarkID `json:"id"`
	SchemeID  id.SchemeID   `json:"scheme_id"`
	CreatedAt time.Time     `json:"created_at"`
}

// ConflictResponse is the 409 body for a duplicate bookmark.
type ConflictResponse struct {
	Error      string        `json:"error"`
	BookmarkID id.BookmarkID `json:"bookmark_id"`
}

// EntryResponse is a bookmark joined with its scheme.
type EntryResponse struct {
	BookmarkResponse
	Scheme EntryScheme `json:"scheme"`
}

// EntryScheme is the scheme summary embedded in a bookmark listing.
type EntryScheme struct {
	ID                id.SchemeID     `json:"id"`
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	Ministry          string          `json:"ministry"`
	Level             string          `json:"level"`
	EligibilityRules  json.RawMessage `json:"eligibility_rules,omitempty"`
	ApplicableRegions []id.Region     `json:"applicable_regions"`
	OfficialLink      string          `json:"official_link,omitempty"`
}

// ListResponse is the user's bookmark collection.
type ListResponse struct {
	Bookmarks []EntryResponse `json:"bookmarks"`
	Total     int             `json:"total"`
}

// FromBookmark converts a domain bookmark to its HTTP rendering.
func FromBookmark(b *bookmark.Bookmark) BookmarkResponse {
	return BookmarkResponse{
		ID:        b.ID,
		SchemeID:  b.SchemeID,
		CreatedAt: b.CreatedAt,
	}
}

// FromEntries converts joined bookmark entries.
func FromEntries(entries []*bookmark.Entry) ListResponse {
	out := make([]EntryResponse, 0, len(entries))
	for _, entry := range entries {
		regions := entry.Scheme.ApplicableRegions
		if regions == nil {
			regions = []id.Region{}
		}
		out = append(out, EntryResponse{
			BookmarkResponse: FromBookmark(entry.Bookmark),
			Scheme: EntryScheme{
				ID:                entry.Scheme.ID,
				Name:              entry.Scheme.Name,
				Description:       entry.Scheme.Description,
				Ministry:          entry.Scheme.Ministry,
				Level:             string(entry.Scheme.Level),
				EligibilityRules:  entry.Scheme.EligibilityRules,
				ApplicableRegions: regions,
				OfficialLink:      entry.Scheme.OfficialLink,
			},
		})
	}
	return ListResponse{Bookmarks: out, Total: len(out)}
}
