// Package store persists welfare scheme catalog entries.
package store

import (
	"context"

	"schemeteller/internal/scheme"
	id "schemeteller/pkg/domain"
)

// Store is the scheme persistence contract. Implementations return
// sentinel.ErrNotFound for missing schemes.
type Store interface {
	Create(ctx context.Context, s *scheme.Scheme) error
	FindByID(ctx context.Context, schemeID id.SchemeID) (*scheme.Scheme, error)
	Update(ctx context.Context, s *scheme.Scheme) error
	Delete(ctx context.Context, schemeID id.SchemeID) error
	// List applies the filter and returns one page plus the filtered total.
	List(ctx context.Context, filter scheme.ListFilter) (*scheme.Page, error)
	// ListApproved returns every approved scheme, the matcher's candidate set.
	ListApproved(ctx context.Context) ([]*scheme.Scheme, error)
	CountsByStatus(ctx context.Context) (map[id.SchemeStatus]int, error)
	DistinctMinistries(ctx context.Context) ([]string, error)
}
