package scheme

import (
	"context"
	"errors"
	"log/slog"

	id "schemeteller/pkg/domain"
	dErrors "schemeteller/pkg/domain-errors"
	"schemeteller/pkg/platform/sentinel"
)

// CatalogStore is the slice of scheme persistence the public catalog needs.
type CatalogStore interface {
	FindByID(ctx context.Context, schemeID id.SchemeID) (*Scheme, error)
	List(ctx context.Context, filter ListFilter) (*Page, error)
	DistinctMinistries(ctx context.Context) ([]string, error)
}

// BookmarkReader supplies per-scheme bookmark state for catalog reads.
type BookmarkReader interface {
	CountByScheme(ctx context.Context, schemeID id.SchemeID) (int, error)
	// FindBookmarkID returns the user's bookmark id for the scheme, or nil
	// when the scheme is not bookmarked.
	FindBookmarkID(ctx context.Context, userID id.UserID, schemeID id.SchemeID) (*id.BookmarkID, error)
}

// Service serves the public catalog: approved schemes only, enriched with
// the caller's bookmark state.
type Service struct {
	store     CatalogStore
	bookmarks BookmarkReader
	logger    *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func New(store CatalogStore, bookmarks BookmarkReader, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("scheme store is required")
	}
	if bookmarks == nil {
		return nil, errors.New("bookmark reader is required")
	}
	svc := &Service{
		store:     store,
		bookmarks: bookmarks,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

const maxPageSize = 100

// List returns one page of approved schemes. The status filter is pinned
// here so no caller of the public catalog can reach drafts or archived
// entries.
func (s *Service) List(ctx context.Context, filter ListFilter) (*Page, error) {
	filter.Status = id.SchemeStatusApproved
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}
	if filter.Page < 1 {
		filter.Page = 1
	}

	page, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list schemes")
	}
	return page, nil
}

// Detail is one catalog entry plus the requesting user's bookmark state.
type Detail struct {
	Scheme     *Scheme
	Bookmarked bool
	BookmarkID *id.BookmarkID
}

// Get returns one approved scheme. Non-approved schemes are reported as not
// found rather than forbidden so their existence does not leak.
func (s *Service) Get(ctx context.Context, schemeID id.SchemeID, userID id.UserID) (*Detail, error) {
	sch, err := s.store.FindByID(ctx, schemeID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "scheme not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load scheme")
	}
	if sch.Status != id.SchemeStatusApproved {
		return nil, dErrors.New(dErrors.CodeNotFound, "scheme not found")
	}

	count, err := s.bookmarks.CountByScheme(ctx, schemeID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "count scheme bookmarks")
	}
	sch.BookmarkCount = count

	detail := &Detail{Scheme: sch}
	bookmarkID, err := s.bookmarks.FindBookmarkID(ctx, userID, schemeID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load bookmark state")
	}
	if bookmarkID != nil {
		detail.Bookmarked = true
		detail.BookmarkID = bookmarkID
	}
	return detail, nil
}

// Ministries lists the distinct ministries across the catalog for filter
// dropdowns.
func (s *Service) Ministries(ctx context.Context) ([]string, error) {
	ministries, err := s.store.DistinctMinistries(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list ministries")
	}
	return ministries, nil
}
