// Package domain holds the shared identifier and enumeration types used across
// features. Typed UUIDs prevent cross-type assignment at compile time; Parse
// functions enforce the "valid, non-empty, non-nil UUID" invariant at trust
// boundaries.
package domain

import (
	"github.com/google/uuid"

	dErrors "schemeteller/pkg/domain-errors"
)

// Typed identifiers. Distinct types so a SchemeID can never be passed where a
// UserID is expected.
type (
	UserID     uuid.UUID
	SchemeID   uuid.UUID
	BookmarkID uuid.UUID
)

func (id UserID) String() string     { return uuid.UUID(id).String() }
func (id SchemeID) String() string   { return uuid.UUID(id).String() }
func (id BookmarkID) String() string { return uuid.UUID(id).String() }

// MarshalText/UnmarshalText keep the typed IDs rendering as canonical UUID
// strings in JSON rather than raw byte arrays.
func (id UserID) MarshalText() ([]byte, error)     { return []byte(id.String()), nil }
func (id SchemeID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }
func (id BookmarkID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *UserID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = UserID(u)
	return nil
}

func (id *SchemeID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = SchemeID(u)
	return nil
}

func (id *BookmarkID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = BookmarkID(u)
	return nil
}

func (id UserID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id SchemeID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id BookmarkID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// NewUserID returns a fresh random user ID.
func NewUserID() UserID { return UserID(uuid.New()) }

// NewSchemeID returns a fresh random scheme ID.
func NewSchemeID() SchemeID { return SchemeID(uuid.New()) }

// NewBookmarkID returns a fresh random bookmark ID.
func NewBookmarkID() BookmarkID { return BookmarkID(uuid.New()) }

// ParseUserID parses and validates an external user ID string.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "user_id")
	return UserID(u), err
}

// ParseSchemeID parses and validates an external scheme ID string.
func ParseSchemeID(s string) (SchemeID, error) {
	u, err := parseUUID(s, "scheme_id")
	return SchemeID(u), err
}

// ParseBookmarkID parses and validates an external bookmark ID string.
func ParseBookmarkID(s string) (BookmarkID, error) {
	u, err := parseUUID(s, "bookmark_id")
	return BookmarkID(u), err
}

func parseUUID(s, field string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" must be a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" must not be the nil UUID")
	}
	return u, nil
}
