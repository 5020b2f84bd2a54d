package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"schemeteller/internal/auth"
	"schemeteller/internal/auth/store/revocation"
	"schemeteller/internal/jwttoken"
	userstore "schemeteller/internal/user/store"
	"schemeteller/pkg/requestcontext"
)

type HandlerSuite struct {
	suite.Suite
	router  http.Handler
	service *auth.Service
	trl     *revocation.InMemoryTRL
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	users := userstore.NewInMemory()
	tokens := jwttoken.NewService("test-signing-key", "schemeteller", "schemeteller-api")
	s.trl = revocation.NewInMemoryTRL()

	svc, err := auth.New(users, tokens, s.trl, 15*time.Minute)
	s.Require().NoError(err)
	s.service = svc

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := New(svc, logger)

	r := chi.NewRouter()
	h.RegisterPublic(r)
	h.RegisterAuthenticated(r)
	s.router = r
}

func (s *HandlerSuite) postJSON(path string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) TestSignUpCreatesAccount() {
	rec := s.postJSON("/auth/sign-up",
		`{"name": "Asha", "email": "asha@example.com", "password": "s3cret-pass"}`)

	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var resp SessionResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
	s.NotEmpty(resp.Token)
	s.Equal("asha@example.com", resp.User.Email)
	s.False(resp.User.OnboardingCompleted)
}

func (s *HandlerSuite) TestSignUpRejectsInvalidJSON() {
	rec := s.postJSON("/auth/sign-up", `not json`)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestSignUpRejectsShortPassword() {
	rec := s.postJSON("/auth/sign-up",
		`{"name": "Asha", "email": "asha@example.com", "password": "short"}`)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestSignUpRejectsBadEmail() {
	rec := s.postJSON("/auth/sign-up",
		`{"name": "Asha", "email": "not-an-email", "password": "s3cret-pass"}`)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestSignUpDuplicateEmailConflicts() {
	rec := s.postJSON("/auth/sign-up",
		`{"name": "Asha", "email": "asha@example.com", "password": "s3cret-pass"}`)
	s.Require().Equal(http.StatusCreated, rec.Code)

	rec = s.postJSON("/auth/sign-up",
		`{"name": "Other", "email": "asha@example.com", "password": "different-pass"}`)
	s.Equal(http.StatusConflict, rec.Code)
}

func (s *HandlerSuite) TestSignInReturnsSession() {
	rec := s.postJSON("/auth/sign-up",
		`{"name": "Asha", "email": "asha@example.com", "password": "s3cret-pass"}`)
	s.Require().Equal(http.StatusCreated, rec.Code)

	rec = s.postJSON("/auth/sign-in",
		`{"email": "asha@example.com", "password": "s3cret-pass"}`)
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp SessionResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
	s.NotEmpty(resp.Token)
}

func (s *HandlerSuite) TestSignInWrongPasswordUnauthorized() {
	rec := s.postJSON("/auth/sign-up",
		`{"name": "Asha", "email": "asha@example.com", "password": "s3cret-pass"}`)
	s.Require().Equal(http.StatusCreated, rec.Code)

	rec = s.postJSON("/auth/sign-in",
		`{"email": "asha@example.com", "password": "wrong-pass"}`)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *HandlerSuite) TestSignOutRevokesToken() {
	session, err := s.service.SignUp(context.Background(), "Asha", "asha@example.com", "s3cret-pass")
	s.Require().NoError(err)

	req := httptest.NewRequest(http.MethodPost, "/auth/sign-out", nil)
	ctx := requestcontext.WithUserID(req.Context(), session.User.ID)
	ctx = requestcontext.WithTokenJTI(ctx, session.Token.JTI)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Require().Equal(http.StatusNoContent, rec.Code)

	revoked, err := s.trl.IsRevoked(req.Context(), session.Token.JTI)
	s.Require().NoError(err)
	s.True(revoked)
}

func (s *HandlerSuite) TestSignOutWithoutTokenUnauthorized() {
	rec := s.postJSON("/auth/sign-out", ``)
	s.Equal(http.StatusUnauthorized, rec.Code)
}
