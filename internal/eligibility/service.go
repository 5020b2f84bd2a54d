package eligibility

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"schemeteller/internal/eligibility/metrics"
	"schemeteller/internal/scheme"
	"schemeteller/internal/user"
	id "schemeteller/pkg/domain"
	dErrors "schemeteller/pkg/domain-errors"
	"schemeteller/pkg/platform/audit"
	"schemeteller/pkg/platform/sentinel"
	"schemeteller/pkg/requestcontext"
)

// UserStore is the slice of user persistence the engine depends on.
type UserStore interface {
	FindByID(ctx context.Context, userID id.UserID) (*user.User, error)
	// SaveEligibility replaces the stored snapshot and derived bracket in one
	// write so readers never observe a vector without its match result.
	SaveEligibility(ctx context.Context, userID id.UserID, snapshot json.RawMessage, bracket *id.IncomeBracket) error
}

// SchemeStore supplies the point-in-time catalog snapshot to match against.
type SchemeStore interface {
	ListApproved(ctx context.Context) ([]*scheme.Scheme, error)
}

// Service is the composition point where the pure engine meets storage: it
// loads inputs, runs BuildVector and FindEligible, and persists the result.
type Service struct {
	users   UserStore
	schemes SchemeStore
	logger  *slog.Logger
	metrics *metrics.Metrics
	audit   *audit.Emitter
	tracer  trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAuditEmitter(emitter *audit.Emitter) Option {
	return func(s *Service) { s.audit = emitter }
}

func New(users UserStore, schemes SchemeStore, opts ...Option) (*Service, error) {
	if users == nil {
		return nil, errors.New("user store is required")
	}
	if schemes == nil {
		return nil, errors.New("scheme store is required")
	}
	svc := &Service{
		users:   users,
		schemes: schemes,
		logger:  slog.Default(),
		tracer:  otel.Tracer("schemeteller/eligibility"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Result is what a recompute returns: the fresh vector and the schemes it
// matched in the catalog snapshot used for this evaluation.
type Result struct {
	Vector         Vector
	MatchedIDs     []id.SchemeID
	MatchedSchemes []*scheme.Scheme
}

// Refresh rebuilds the user's eligibility vector, matches it against the
// current approved catalog, and stores the snapshot on the user record.
// The vector and match result are replaced as a unit; no partial state is
// ever written. A missing user surfaces as not found; a user who has not
// completed onboarding cannot be evaluated.
func (s *Service) Refresh(ctx context.Context, userID id.UserID) (*Result, error) {
	ctx, span := s.tracer.Start(ctx, "eligibility.Refresh",
		trace.WithAttributes(attribute.String("user_id", userID.String())))
	defer span.End()

	start := time.Now()

	var (
		u          *user.User
		candidates []*scheme.Scheme
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		found, err := s.users.FindByID(gctx, userID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "user not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "load user")
		}
		u = found
		return nil
	})
	g.Go(func() error {
		list, err := s.schemes.ListApproved(gctx)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "load approved schemes")
		}
		candidates = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if !u.OnboardingCompleted {
		return nil, dErrors.New(dErrors.CodeInvalidState, "onboarding not completed")
	}

	result, err := s.evaluateAndStore(ctx, u, candidates)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordRefresh(len(result.MatchedIDs), 0, time.Since(start).Seconds())
	s.audit.Emit(ctx, audit.Event{
		Category: audit.CategoryOperations,
		UserID:   userID,
		Action:   audit.ActionEligibilityRefreshed,
		Detail:   map[string]string{"matched_count": strconv.Itoa(len(result.MatchedIDs))},
	})
	return result, nil
}

func (s *Service) evaluateAndStore(ctx context.Context, u *user.User, candidates []*scheme.Scheme) (*Result, error) {
	now := requestcontext.Now(ctx)
	vector := BuildVector(u.Profile, now)
	match := FindEligible(vector, candidates)

	if len(match.Malformed) > 0 {
		// Data-quality signal, not a user-facing failure.
		ids := make([]string, len(match.Malformed))
		for i, sid := range match.Malformed {
			ids[i] = sid.String()
		}
		s.logger.WarnContext(ctx, "schemes skipped due to malformed eligibility policy",
			"scheme_ids", ids,
			"request_id", requestcontext.RequestID(ctx),
		)
		if s.metrics != nil {
			s.metrics.MalformedPolicies.Add(float64(len(match.Malformed)))
		}
	}

	snapshot, err := MarshalSnapshot(vector, match.MatchedIDs)
	if err != nil {
		return nil, err
	}
	if err := s.users.SaveEligibility(ctx, u.ID, snapshot, DeriveIncomeBracket(u.Profile.AnnualIncome)); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "store eligibility snapshot")
	}

	return &Result{
		Vector:         vector,
		MatchedIDs:     match.MatchedIDs,
		MatchedSchemes: match.MatchedSchemes,
	}, nil
}
