// Package profile serves the signed-in user's own record: reading it,
// editing demographic attributes, and completing onboarding.
package profile

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"schemeteller/internal/eligibility"
	"schemeteller/internal/user"
	id "schemeteller/pkg/domain"
	dErrors "schemeteller/pkg/domain-errors"
	"schemeteller/pkg/platform/audit"
	"schemeteller/pkg/platform/sentinel"
	"schemeteller/pkg/requestcontext"
)

// UserStore is the slice of user persistence this service depends on.
type UserStore interface {
	FindByID(ctx context.Context, userID id.UserID) (*user.User, error)
	Update(ctx context.Context, u *user.User) error
}

// BookmarkCounter reports how many schemes the user has bookmarked.
type BookmarkCounter interface {
	CountByUser(ctx context.Context, userID id.UserID) (int, error)
}

// Refresher recomputes the user's eligibility after profile changes.
type Refresher interface {
	Refresh(ctx context.Context, userID id.UserID) (*eligibility.Result, error)
}

// Service implements profile reads, partial edits, and onboarding.
type Service struct {
	users     UserStore
	bookmarks BookmarkCounter
	refresher Refresher
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

func New(users UserStore, bookmarks BookmarkCounter, refresher Refresher, opts ...Option) (*Service, error) {
	if users == nil {
		return nil, errors.New("user store is required")
	}
	if bookmarks == nil {
		return nil, errors.New("bookmark counter is required")
	}
	if refresher == nil {
		return nil, errors.New("eligibility refresher is required")
	}
	svc := &Service{
		users:     users,
		bookmarks: bookmarks,
		refresher: refresher,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Overview is the full self-view: account, profile, bookmark count, and the
// cached eligibility snapshot (nil until the first evaluation).
type Overview struct {
	User          *user.User
	BookmarkCount int
	Snapshot      *eligibility.Snapshot
}

// Get loads the caller's own record.
func (s *Service) Get(ctx context.Context, userID id.UserID) (*Overview, error) {
	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	count, err := s.bookmarks.CountByUser(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "count bookmarks")
	}

	snapshot, err := eligibility.UnmarshalSnapshot(u.EligibilitySnapshot)
	if err != nil {
		// A corrupt snapshot should not make the profile unreadable. Serve
		// the record without it; the next refresh rewrites it anyway.
		s.logger.WarnContext(ctx, "stored eligibility snapshot is unreadable",
			"request_id", requestcontext.RequestID(ctx),
			"user_id", userID,
			"error", err,
		)
		snapshot = nil
	}

	return &Overview{User: u, BookmarkCount: count, Snapshot: snapshot}, nil
}

// Update carries a partial profile edit. nil fields are left unchanged.
type Update struct {
	Name         *string
	DateOfBirth  *time.Time
	Gender       *id.Gender
	Category     *id.Category
	Region       *id.Region
	District     *string
	IsRural      *bool
	AnnualIncome *float64
	Occupation   *id.Occupation
	IsBPL        *bool
	IsDisabled   *bool
	IsMinority   *bool
}

func (u Update) isEmpty() bool {
	return u.Name == nil && u.DateOfBirth == nil && u.Gender == nil &&
		u.Category == nil && u.Region == nil && u.District == nil &&
		u.IsRural == nil && u.AnnualIncome == nil && u.Occupation == nil &&
		u.IsBPL == nil && u.IsDisabled == nil && u.IsMinority == nil
}

// Patch applies a partial profile edit. The income bracket is re-derived on
// every write; if the user has completed onboarding the full eligibility
// evaluation runs as well, so the stored snapshot never lags the profile.
func (s *Service) Patch(ctx context.Context, userID id.UserID, update Update) (*Overview, error) {
	if update.isEmpty() {
		return nil, dErrors.New(dErrors.CodeValidation, "no fields to update")
	}

	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		u.Name = *update.Name
	}
	applyProfile(&u.Profile, update)
	u.IncomeBracket = eligibility.DeriveIncomeBracket(u.Profile.AnnualIncome)

	if err := s.users.Update(ctx, u); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "update user")
	}

	s.audit.Emit(ctx, audit.Event{
		Category: audit.CategoryCompliance,
		UserID:   userID,
		Action:   audit.ActionProfileUpdated,
	})

	if u.OnboardingCompleted {
		if _, err := s.refresher.Refresh(ctx, userID); err != nil {
			return nil, err
		}
	}
	return s.Get(ctx, userID)
}

// OnboardingInput is the complete demographic profile collected at
// onboarding. Date of birth, gender, region, and annual income are required;
// the rest mirror the optional profile fields.
type OnboardingInput struct {
	DateOfBirth  time.Time
	Gender       id.Gender
	Region       id.Region
	AnnualIncome float64
	Category     *id.Category
	District     *string
	IsRural      *bool
	Occupation   *id.Occupation
	IsBPL        bool
	IsDisabled   bool
	IsMinority   bool
}

// CompleteOnboarding writes the full profile, marks onboarding done, and runs
// the first eligibility evaluation. It is a one-shot transition; later edits
// go through Patch.
func (s *Service) CompleteOnboarding(ctx context.Context, userID id.UserID, input OnboardingInput) (*Overview, error) {
	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.OnboardingCompleted {
		return nil, dErrors.New(dErrors.CodeInvalidState, "onboarding already completed")
	}

	dob := input.DateOfBirth
	income := input.AnnualIncome
	u.Profile = user.Profile{
		DateOfBirth:  &dob,
		Gender:       &input.Gender,
		Region:       &input.Region,
		AnnualIncome: &income,
		Category:     input.Category,
		District:     input.District,
		IsRural:      input.IsRural,
		Occupation:   input.Occupation,
		IsBPL:        input.IsBPL,
		IsDisabled:   input.IsDisabled,
		IsMinority:   input.IsMinority,
	}
	u.IncomeBracket = eligibility.DeriveIncomeBracket(u.Profile.AnnualIncome)
	u.OnboardingCompleted = true

	if err := s.users.Update(ctx, u); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "update user")
	}

	s.audit.Emit(ctx, audit.Event{
		Category: audit.CategoryCompliance,
		UserID:   userID,
		Action:   audit.ActionOnboardingCompleted,
	})

	if _, err := s.refresher.Refresh(ctx, userID); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

func (s *Service) loadUser(ctx context.Context, userID id.UserID) (*user.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load user")
	}
	return u, nil
}

func applyProfile(p *user.Profile, update Update) {
	if update.DateOfBirth != nil {
		p.DateOfBirth = update.DateOfBirth
	}
	if update.Gender != nil {
		p.Gender = update.Gender
	}
	if update.Category != nil {
		p.Category = update.Category
	}
	if update.Region != nil {
		p.Region = update.Region
	}
	if update.District != nil {
		p.District = update.District
	}
	if update.IsRural != nil {
		p.IsRural = update.IsRural
	}
	if update.AnnualIncome != nil {
		p.AnnualIncome = update.AnnualIncome
	}
	if update.Occupation != nil {
		p.Occupation = update.Occupation
	}
	if update.IsBPL != nil {
		p.IsBPL = *update.IsBPL
	}
	if update.IsDisabled != nil {
		p.IsDisabled = *update.IsDisabled
	}
	if update.IsMinority != nil {
		p.IsMinority = *update.IsMinority
	}
}
