package bookmark

import (
	"context"
	"errors"
	"log/slog"

	"schemeteller/internal/scheme"
	id "schemeteller/pkg/domain"
	dErrors "schemeteller/pkg/domain-errors"
	"schemeteller/pkg/platform/audit"
	"schemeteller/pkg/platform/sentinel"
	"schemeteller/pkg/requestcontext"
)

// Store is the slice of bookmark persistence the service depends on.
type Store interface {
	Create(ctx context.Context, b *Bookmark) error
	FindByUserAndScheme(ctx context.Context, userID id.UserID, schemeID id.SchemeID) (*Bookmark, error)
	ListByUser(ctx context.Context, userID id.UserID) ([]*Bookmark, error)
	Delete(ctx context.Context, userID id.UserID, bookmarkID id.BookmarkID) error
	DeleteByScheme(ctx context.Context, userID id.UserID, schemeID id.SchemeID) error
}

// SchemeReader loads catalog entries for bookmark validation and listing.
type SchemeReader interface {
	FindByID(ctx context.Context, schemeID id.SchemeID) (*scheme.Scheme, error)
}

// Service enforces the bookmark rules: only approved schemes can be saved,
// one bookmark per (user, scheme), and removal accepts either identifier.
type Service struct {
	store   Store
	schemes SchemeReader
	logger  *slog.Logger
	audit   *audit.Emitter
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditEmitter(emitter *audit.Emitter) Option {
	return func(s *Service) { s.audit = emitter }
}

func New(store Store, schemes SchemeReader, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("bookmark store is required")
	}
	if schemes == nil {
		return nil, errors.New("scheme reader is required")
	}
	svc := &Service{
		store:   store,
		schemes: schemes,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// CreateResult reports the bookmark plus whether it already existed. A
// duplicate create is not an internal failure; callers surface it as a
// conflict carrying the existing bookmark's id.
type CreateResult struct {
	Bookmark      *Bookmark
	AlreadyExists bool
}

// Create saves a scheme for the user. The scheme must exist and be approved;
// non-approved schemes are reported as not found.
func (s *Service) Create(ctx context.Context, userID id.UserID, schemeID id.SchemeID) (*CreateResult, error) {
	sch, err := s.schemes.FindByID(ctx, schemeID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "scheme not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load scheme")
	}
	if sch.Status != id.SchemeStatusApproved {
		return nil, dErrors.New(dErrors.CodeNotFound, "scheme not found")
	}

	b := &Bookmark{
		ID:        id.NewBookmarkID(),
		UserID:    userID,
		SchemeID:  schemeID,
		CreatedAt: requestcontext.Now(ctx),
	}
	if err := s.store.Create(ctx, b); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			existing, findErr := s.store.FindByUserAndScheme(ctx, userID, schemeID)
			if findErr != nil {
				return nil, dErrors.Wrap(findErr, dErrors.CodeInternal, "load existing bookmark")
			}
			return &CreateResult{Bookmark: existing, AlreadyExists: true}, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "create bookmark")
	}

	s.audit.Emit(ctx, audit.Event{
		Category: audit.CategoryOperations,
		UserID:   userID,
		Action:   audit.ActionBookmarkCreated,
		Subject:  schemeID.String(),
	})
	return &CreateResult{Bookmark: b}, nil
}

// Entry is a bookmark joined with its scheme for listing.
type Entry struct {
	Bookmark *Bookmark
	Scheme   *scheme.Scheme
}

// List returns the user's bookmarks, newest first. Bookmarks whose scheme
// has since been archived or deleted are filtered out rather than surfaced
// as errors.
func (s *Service) List(ctx context.Context, userID id.UserID) ([]*Entry, error) {
	bookmarks, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list bookmarks")
	}

	entries := make([]*Entry, 0, len(bookmarks))
	for _, b := range bookmarks {
		sch, err := s.schemes.FindByID(ctx, b.SchemeID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				continue
			}
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load bookmarked scheme")
		}
		if sch.Status != id.SchemeStatusApproved {
			continue
		}
		entries = append(entries, &Entry{Bookmark: b, Scheme: sch})
	}
	return entries, nil
}

// Delete removes a bookmark by its own id or by the bookmarked scheme's id.
// Both interpretations of the identifier are tried, bookmark first.
func (s *Service) Delete(ctx context.Context, userID id.UserID, ref string) error {
	bookmarkID, bookmarkErr := id.ParseBookmarkID(ref)
	if bookmarkErr == nil {
		err := s.store.Delete(ctx, userID, bookmarkID)
		if err == nil {
			s.emitRemoved(ctx, userID, ref)
			return nil
		}
		if !errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeInternal, "delete bookmark")
		}
	}

	schemeID, schemeErr := id.ParseSchemeID(ref)
	if schemeErr != nil {
		return dErrors.New(dErrors.CodeValidation, "bookmark id is not valid")
	}
	err := s.store.DeleteByScheme(ctx, userID, schemeID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "bookmark not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "delete bookmark by scheme")
	}
	s.emitRemoved(ctx, userID, ref)
	return nil
}

func (s *Service) emitRemoved(ctx context.Context, userID id.UserID, ref string) {
	s.audit.Emit(ctx, audit.Event{
		Category: audit.CategoryOperations,
		UserID:   userID,
		Action:   audit.ActionBookmarkRemoved,
		Subject:  ref,
	})
}
