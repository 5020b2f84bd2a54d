package handler

import (
	"time"

	"schemeteller/internal/auth"
	id "schemeteller/pkg/domain"
)

// SessionResponse is returned from sign-up and sign-in.
type SessionResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// UserResponse is the account summary embedded in a session. The demographic
// profile is served by the profile endpoints, not here.
type UserResponse struct {
	ID                  id.UserID `json:"id"`
	Name                string    `json:"name"`
	Email               string    `json:"email"`
	Role                id.Role   `json:"role"`
	OnboardingCompleted bool      `json:"onboarding_completed"`
}

// FromSession converts a session to its response representation.
func FromSession(session *auth.Session) SessionResponse {
	return SessionResponse{
		Token:     session.Token.Token,
		ExpiresAt: session.Token.ExpiresAt,
		User: UserResponse{
			ID:                  session.User.ID,
			Name:                session.User.Name,
			Email:               session.User.Email,
			Role:                session.User.Role,
			OnboardingCompleted: session.User.OnboardingCompleted,
		},
	}
}
