// Package admin implements the administrative surface: platform stats,
// user management, and the full scheme catalog lifecycle.
package admin

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"schemeteller/internal/eligibility"
	"schemeteller/internal/scheme"
	schemestore "schemeteller/internal/scheme/store"
	"schemeteller/internal/user"
	id "schemeteller/pkg/domain"
	dErrors "schemeteller/pkg/domain-errors"
	"schemeteller/pkg/platform/audit"
	"schemeteller/pkg/platform/sentinel"
	"schemeteller/pkg/requestcontext"
)

const (
	maxPageSize = 100
	// recentWindow is how many newest users and schemes the stats view shows.
	recentWindow = 5
)

// UserStore is the slice of user persistence admin depends on.
type UserStore interface {
	FindByID(ctx context.Context, userID id.UserID) (*user.User, error)
	List(ctx context.Context, search string, page, limit int) ([]*user.User, int, error)
	Delete(ctx context.Context, userID id.UserID) error
	Counts(ctx context.Context) (total, onboarded int, err error)
}

// BookmarkCounter reports platform-wide bookmark volume.
type BookmarkCounter interface {
	Count(ctx context.Context) (int, error)
}

// Service implements administrative operations. All callers are assumed to
// have passed the admin-role middleware already.
type Service struct {
	users     UserStore
	schemes   schemestore.Store
	bookmarks BookmarkCounter
	logger    *slog.Logger
	audit     *audit.Emitter
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditEmitter(emitter *audit.Emitter) Option {
	return func(s *Service) { s.audit = emitter }
}

func New(users UserStore, schemes schemestore.Store, bookmarks BookmarkCounter, opts ...Option) (*Service, error) {
	if users == nil {
		return nil, errors.New("user store is required")
	}
	if schemes == nil {
		return nil, errors.New("scheme store is required")
	}
	if bookmarks == nil {
		return nil, errors.New("bookmark counter is required")
	}
	svc := &Service{
		users:     users,
		schemes:   schemes,
		bookmarks: bookmarks,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Stats is the admin dashboard summary.
type Stats struct {
	TotalUsers      int
	OnboardedUsers  int
	TotalBookmarks  int
	SchemesByStatus map[id.SchemeStatus]int
	RecentUsers     []*user.User
	RecentSchemes   []*scheme.Scheme
}

// Stats aggregates platform-wide counts plus the newest users and schemes.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	total, onboarded, err := s.users.Counts(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "count users")
	}
	bookmarks, err := s.bookmarks.Count(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "count bookmarks")
	}
	byStatus, err := s.schemes.CountsByStatus(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "count schemes")
	}
	recentUsers, _, err := s.users.List(ctx, "", 1, recentWindow)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list recent users")
	}
	recentSchemes, err := s.schemes.List(ctx, scheme.ListFilter{Page: 1, Limit: recentWindow})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list recent schemes")
	}

	return &Stats{
		TotalUsers:      total,
		OnboardedUsers:  onboarded,
		TotalBookmarks:  bookmarks,
		SchemesByStatus: byStatus,
		RecentUsers:     recentUsers,
		RecentSchemes:   recentSchemes.Schemes,
	}, nil
}

// UserPage is one page of user listings plus the filtered total.
type UserPage struct {
	Users []*user.User
	Total int
}

// ListUsers pages through accounts, optionally filtered by a name or email
// search term.
func (s *Service) ListUsers(ctx context.Context, search string, page, limit int) (*UserPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	users, total, err := s.users.List(ctx, search, page, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list users")
	}
	return &UserPage{Users: users, Total: total}, nil
}

// DeleteUser removes an account and, through storage-level cascades, its
// bookmarks. Admins cannot delete themselves.
func (s *Service) DeleteUser(ctx context.Context, actorID, targetID id.UserID) error {
	if actorID == targetID {
		return dErrors.New(dErrors.CodeValidation, "cannot delete your own account")
	}

	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "load user")
	}

	if err := s.users.Delete(ctx, targetID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "delete user")
	}

	s.logger.InfoContext(ctx, "user deleted by admin",
		"request_id", requestcontext.RequestID(ctx),
		"user_id", actorID,
		"target_user_id", targetID,
	)
	s.audit.Emit(ctx, audit.Event{
		Category: audit.CategoryCompliance,
		UserID:   targetID,
		ActorID:  actorID.String(),
		Action:   audit.ActionUserDeleted,
		Detail:   map[string]string{"email": target.Email},
	})
	return nil
}

// SchemeInput carries the writable scheme fields for create and update.
type SchemeInput struct {
	Name              string
	Description       string
	Ministry          string
	Level             id.SchemeLevel
	Status            id.SchemeStatus
	EligibilityRules  json.RawMessage
	ApplicableRegions []id.Region
	OfficialLink      string
}

func (in SchemeInput) validate() error {
	if in.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	// A policy that fails strict parsing would be conservatively rejected at
	// match time for every user, so it is refused at the write boundary.
	if _, err := eligibility.ParsePolicy(in.EligibilityRules); err != nil {
		return err
	}
	return nil
}

// CreateScheme adds a catalog entry. New schemes start in DRAFT unless a
// status is given explicitly.
func (s *Service) CreateScheme(ctx context.Context, actorID id.UserID, input SchemeInput) (*scheme.Scheme, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	if input.Status == "" {
		input.Status = id.SchemeStatusDraft
	}

	now := requestcontext.Now(ctx)
	sch := &scheme.Scheme{
		ID:                id.NewSchemeID(),
		Name:              input.Name,
		Description:       input.Description,
		Ministry:          input.Ministry,
		Level:             input.Level,
		Status:            input.Status,
		EligibilityRules:  input.EligibilityRules,
		ApplicableRegions: input.ApplicableRegions,
		OfficialLink:      input.OfficialLink,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.schemes.Create(ctx, sch); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "create scheme")
	}

	s.audit.Emit(ctx, audit.Event{
		Category: audit.CategoryOperations,
		UserID:   actorID,
		Action:   audit.ActionSchemeCreated,
		Subject:  sch.ID.String(),
		Detail:   map[string]string{"name": sch.Name, "status": string(sch.Status)},
	})
	return sch, nil
}

// GetScheme loads a scheme in any status.
func (s *Service) GetScheme(ctx context.Context, schemeID id.SchemeID) (*scheme.Scheme, error) {
	sch, err := s.schemes.FindByID(ctx, schemeID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "scheme not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load scheme")
	}
	return sch, nil
}

// ListSchemes pages through the catalog across all statuses.
func (s *Service) ListSchemes(ctx context.Context, filter scheme.ListFilter) (*scheme.Page, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}
	page, err := s.schemes.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list schemes")
	}
	return page, nil
}

// UpdateScheme replaces the writable fields of a scheme. Status changes go
// through ChangeSchemeStatus so transitions stay audited.
func (s *Service) UpdateScheme(ctx context.Context, actorID id.UserID, schemeID id.SchemeID, input SchemeInput) (*scheme.Scheme, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	sch, err := s.GetScheme(ctx, schemeID)
	if err != nil {
		return nil, err
	}

	sch.Name = input.Name
	sch.Description = input.Description
	sch.Ministry = input.Ministry
	sch.Level = input.Level
	sch.EligibilityRules = input.EligibilityRules
	sch.ApplicableRegions = input.ApplicableRegions
	sch.OfficialLink = input.OfficialLink
	sch.UpdatedAt = requestcontext.Now(ctx)

	if err := s.schemes.Update(ctx, sch); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "scheme not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "update scheme")
	}

	s.audit.Emit(ctx, audit.Event{
		Category: audit.CategoryOperations,
		UserID:   actorID,
		Action:   audit.ActionSchemeUpdated,
		Subject:  schemeID.String(),
	})
	return sch, nil
}

// ChangeSchemeStatus moves a scheme between DRAFT, APPROVED, and ARCHIVED.
// Approval is what makes a scheme visible to users and to the matcher.
func (s *Service) ChangeSchemeStatus(ctx context.Context, actorID id.UserID, schemeID id.SchemeID, status id.SchemeStatus) (*scheme.Scheme, error) {
	sch, err := s.GetScheme(ctx, schemeID)
	if err != nil {
		return nil, err
	}
	if sch.Status == status {
		return sch, nil
	}

	from := sch.Status
	sch.Status = status
	sch.UpdatedAt = requestcontext.Now(ctx)
	if err := s.schemes.Update(ctx, sch); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "scheme not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "update scheme status")
	}

	s.audit.Emit(ctx, audit.Event{
		Category: audit.CategoryOperations,
		UserID:   actorID,
		Action:   audit.ActionSchemeStatusChanged,
		Subject:  schemeID.String(),
		Detail:   map[string]string{"from": string(from), "to": string(status)},
	})
	return sch, nil
}

// DeleteScheme removes a scheme; bookmarks pointing at it are dropped by the
// storage cascade.
func (s *Service) DeleteScheme(ctx context.Context, actorID id.UserID, schemeID id.SchemeID) error {
	sch, err := s.GetScheme(ctx, schemeID)
	if err != nil {
		return err
	}

	if err := s.schemes.Delete(ctx, schemeID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "scheme not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "delete scheme")
	}

	s.audit.Emit(ctx, audit.Event{
		Category: audit.CategoryOperations,
		UserID:   actorID,
		Action:   audit.ActionSchemeDeleted,
		Subject:  schemeID.String(),
		Detail:   map[string]string{"name": sch.Name},
	})
	return nil
}
