// Package auth implements account creation and token-based sign-in.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"schemeteller/internal/auth/store/revocation"
	"schemeteller/internal/jwttoken"
	"schemeteller/internal/user"
	id "schemeteller/pkg/domain"
	dErrors "schemeteller/pkg/domain-errors"
	"schemeteller/pkg/platform/audit"
	"schemeteller/pkg/platform/sentinel"
	"schemeteller/pkg/requestcontext"
)

// bcryptCost trades hash time against brute-force resistance. 12 keeps
// sign-in under ~300ms on current hardware.
const bcryptCost = 12

// UserStore is the slice of user persistence auth depends on.
type UserStore interface {
	Create(ctx context.Context, u *user.User) error
	FindByEmail(ctx context.Context, email string) (*user.User, error)
}

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	GenerateAccessToken(userID id.UserID, role id.Role, now time.Time, expiresIn time.Duration) (*jwttoken.IssuedToken, error)
}

// UserCounter records account creations for operational dashboards.
type UserCounter interface {
	IncrementUsersCreated()
}

// Service implements sign-up, sign-in, and sign-out.
type Service struct {
	users       UserStore
	tokens      TokenIssuer
	revocations revocation.TokenRevocationList
	accessTTL   time.Duration
	logger      *slog.Logger
	metrics     UserCounter
	audit       *audit.Emitter
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(metrics UserCounter) Option {
	return func(s *Service) { s.metrics = metrics }
}

func WithAuditEmitter(emitter *audit.Emitter) Option {
	return func(s *Service) { s.audit = emitter }
}

func New(users UserStore, tokens TokenIssuer, revocations revocation.TokenRevocationList, accessTTL time.Duration, opts ...Option) (*Service, error) {
	if users == nil {
		return nil, errors.New("user store is required")
	}
	if tokens == nil {
		return nil, errors.New("token issuer is required")
	}
	if revocations == nil {
		return nil, errors.New("revocation list is required")
	}
	if accessTTL <= 0 {
		return nil, errors.New("access token ttl must be positive")
	}
	svc := &Service{
		users:       users,
		tokens:      tokens,
		revocations: revocations,
		accessTTL:   accessTTL,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Session is the outcome of a successful sign-up or sign-in.
type Session struct {
	User  *user.User
	Token *jwttoken.IssuedToken
}

// SignUp creates an account and signs the user straight in.
func (s *Service) SignUp(ctx context.Context, name, email, password string) (*Session, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "hash password")
	}

	u := &user.User{
		ID:           id.NewUserID(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: string(hash),
		Name:         name,
		Role:         id.RoleUser,
		CreatedAt:    requestcontext.Now(ctx),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "email is already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "create user")
	}

	if s.metrics != nil {
		s.metrics.IncrementUsersCreated()
	}
	s.audit.Emit(ctx, audit.Event{
		Category: audit.CategoryCompliance,
		UserID:   u.ID,
		Action:   audit.ActionUserCreated,
	})

	token, err := s.issueToken(ctx, u)
	if err != nil {
		return nil, err
	}
	return &Session{User: u, Token: token}, nil
}

// SignIn verifies credentials and issues an access token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *Service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			// Burn a comparison anyway so response timing does not reveal
			// whether the email exists.
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			s.emitAuthFailed(ctx, email)
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		s.emitAuthFailed(ctx, email)
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
	}

	token, err := s.issueToken(ctx, u)
	if err != nil {
		return nil, err
	}

	s.audit.Emit(ctx, audit.Event{
		Category: audit.CategorySecurity,
		UserID:   u.ID,
		Action:   audit.ActionSignedIn,
	})
	return &Session{User: u, Token: token}, nil
}

// SignOut revokes the presented token's JTI for the rest of its life. The
// JTI comes from the validated token in the request context.
func (s *Service) SignOut(ctx context.Context) error {
	jti := requestcontext.TokenJTI(ctx)
	if jti == "" {
		return dErrors.New(dErrors.CodeUnauthorized, "no token to sign out")
	}

	// The exact remaining life is unknown here; the full access TTL is a
	// safe upper bound.
	if err := s.revocations.RevokeToken(ctx, jti, s.accessTTL); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "revoke token")
	}

	s.audit.Emit(ctx, audit.Event{
		Category: audit.CategorySecurity,
		UserID:   requestcontext.UserID(ctx),
		Action:   audit.ActionSignedOut,
	})
	return nil
}

func (s *Service) issueToken(ctx context.Context, u *user.User) (*jwttoken.IssuedToken, error) {
	token, err := s.tokens.GenerateAccessToken(u.ID, u.Role, requestcontext.Now(ctx), s.accessTTL)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "sign access token")
	}
	return token, nil
}

func (s *Service) emitAuthFailed(ctx context.Context, email string) {
	s.logger.WarnContext(ctx, "sign-in rejected",
		"request_id", requestcontext.RequestID(ctx),
	)
	s.audit.Emit(ctx, audit.Event{
		Category: audit.CategorySecurity,
		Action:   audit.ActionAuthFailed,
		Detail:   map[string]string{"email": email},
	})
}

// dummyHash is a bcrypt hash of an unguessable value, used to equalize
// sign-in timing for unknown emails.
var dummyHash = []byte("$2a$12$8vPxFIO7RiJ8xAsFSB3Zj.tR3MgLjJWfvtlIkZY4S5hFI0eOYbW0e")
