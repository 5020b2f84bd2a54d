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

	bookmarkstore "schemeteller/internal/bookmark/store"
	"schemeteller/internal/eligibility"
	"schemeteller/internal/profile"
	"schemeteller/internal/scheme"
	schemestore "schemeteller/internal/scheme/store"
	"schemeteller/internal/user"
	userstore "schemeteller/internal/user/store"
	id "schemeteller/pkg/domain"
	"schemeteller/pkg/testutil"
)

type HandlerSuite struct {
	suite.Suite
	router  http.Handler
	users   *userstore.InMemory
	schemes *schemestore.InMemory
	userID  id.UserID
	now     time.Time
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.users = userstore.NewInMemory()
	s.schemes = schemestore.NewInMemory()
	bookmarks := bookmarkstore.NewInMemory()
	s.userID = id.NewUserID()
	s.now = time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

	refresher, err := eligibility.New(s.users, s.schemes)
	s.Require().NoError(err)
	svc, err := profile.New(s.users, bookmarks, refresher)
	s.Require().NoError(err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := New(svc, logger)

	r := chi.NewRouter()
	h.Register(r)
	s.router = r

	s.Require().NoError(s.users.Create(context.Background(), &user.User{
		ID:        s.userID,
		Email:     "asha@example.com",
		Name:      "Asha",
		Role:      id.RoleUser,
		CreatedAt: s.now.Add(-24 * time.Hour),
	}))
}

func (s *HandlerSuite) do(method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req = testutil.WithAuth(req, s.userID, id.RoleUser)
	req = testutil.WithTime(req, s.now)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

const onboardingBody = `{
	"date_of_birth": "1999-03-10",
	"gender": "FEMALE",
	"region": "KERALA",
	"annual_income": 180000,
	"is_bpl": false
}`

func (s *HandlerSuite) TestGetProfile() {
	rec := s.do(http.MethodGet, "/profile", "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp Response
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
	s.Equal(s.userID, resp.ID)
	s.Equal("asha@example.com", resp.Email)
	s.False(resp.OnboardingCompleted)
	s.Nil(resp.Eligibility)
	s.Nil(resp.Profile.DateOfBirth)
}

func (s *HandlerSuite) TestOnboardingCompletesAndEvaluates() {
	s.Require().NoError(s.schemes.Create(context.Background(), &scheme.Scheme{
		ID:        id.NewSchemeID(),
		Name:      "Open Scheme",
		Level:     id.SchemeLevelCentral,
		Status:    id.SchemeStatusApproved,
		CreatedAt: s.now.Add(-time.Hour),
	}))

	rec := s.do(http.MethodPost, "/onboarding", onboardingBody)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var resp Response
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
	s.True(resp.OnboardingCompleted)
	s.Require().NotNil(resp.Profile.DateOfBirth)
	s.Equal("1999-03-10", *resp.Profile.DateOfBirth)
	s.Require().NotNil(resp.IncomeBracket)
	s.Equal(id.Bracket1LTo2_5L, *resp.IncomeBracket)
	s.Require().NotNil(resp.Eligibility)
	s.Len(resp.Eligibility.MatchedSchemeIDs, 1)
}

func (s *HandlerSuite) TestOnboardingTwiceConflicts() {
	rec := s.do(http.MethodPost, "/onboarding", onboardingBody)
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodPost, "/onboarding", onboardingBody)
	s.Equal(http.StatusConflict, rec.Code)
}

func (s *HandlerSuite) TestOnboardingValidatesRequiredFields() {
	rec := s.do(http.MethodPost, "/onboarding", `{"gender": "FEMALE"}`)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestOnboardingRejectsUnknownEnumValues() {
	rec := s.do(http.MethodPost, "/onboarding", `{
		"date_of_birth": "1999-03-10",
		"gender": "UNKNOWN",
		"region": "KERALA",
		"annual_income": 180000
	}`)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestPatchUpdatesProvidedFieldsOnly() {
	rec := s.do(http.MethodPost, "/onboarding", onboardingBody)
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodPatch, "/profile", `{"annual_income": 90000}`)
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp Response
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
	s.Require().NotNil(resp.Profile.AnnualIncome)
	s.Equal(90000.0, *resp.Profile.AnnualIncome)
	s.Require().NotNil(resp.IncomeBracket)
	s.Equal(id.BracketBelow1L, *resp.IncomeBracket)
	// Untouched fields survive.
	s.Require().NotNil(resp.Profile.Gender)
	s.Equal(id.GenderFemale, *resp.Profile.Gender)
}

func (s *HandlerSuite) TestPatchRejectsEmptyUpdate() {
	rec := s.do(http.MethodPatch, "/profile", `{}`)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestPatchRejectsNegativeIncome() {
	rec := s.do(http.MethodPatch, "/profile", `{"annual_income": -1}`)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestPatchRejectsFutureDateOfBirth() {
	rec := s.do(http.MethodPatch, "/profile", `{"date_of_birth": "2999-01-01"}`)
	s.Equal(http.StatusBadRequest, rec.Code)
}
