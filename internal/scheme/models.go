package scheme

import (
	"encoding/json"
	"time"

	id "schemeteller/pkg/domain"
)

// Scheme is a welfare scheme catalog entry. EligibilityRules holds the sparse
// eligibility policy as stored; parsing and evaluation belong to the
// eligibility engine so a malformed policy on one row can be handled per
// scheme instead of poisoning catalog reads.
type Scheme struct {
	ID          id.SchemeID
	Name        string
	Description string
	Ministry    string
	Level       id.SchemeLevel
	Status      id.SchemeStatus
	// EligibilityRules is the raw policy document. nil or empty means the
	// scheme has no eligibility constraints.
	EligibilityRules json.RawMessage
	// ApplicableRegions restricts the scheme to the listed regions. Empty
	// means nationally applicable.
	ApplicableRegions []id.Region
	OfficialLink      string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	// BookmarkCount is populated on reads that join bookmark counts; it is
	// not persisted on the scheme row.
	BookmarkCount int
}

// ListFilter narrows catalog listings. Zero values mean "no filter".
type ListFilter struct {
	Status   id.SchemeStatus
	Level    id.SchemeLevel
	Ministry string
	// Search matches name, description, or ministry case-insensitively.
	Search string
	Page   int
	Limit  int
}

// Page is one page of catalog results plus the total for pagination.
type Page struct {
	Schemes []*Scheme
	Total   int
}
