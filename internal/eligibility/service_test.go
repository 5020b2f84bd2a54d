package eligibility

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"schemeteller/internal/scheme"
	"schemeteller/internal/user"
	id "schemeteller/pkg/domain"
	dErrors "schemeteller/pkg/domain-errors"
	"schemeteller/pkg/platform/sentinel"
	"schemeteller/pkg/requestcontext"
)

type stubUserStore struct {
	users map[id.UserID]*user.User

	savedSnapshot json.RawMessage
	savedBracket  *id.IncomeBracket
	saveCalls     int

	findErr error
	saveErr error
}

func (s *stubUserStore) FindByID(_ context.Context, userID id.UserID) (*user.User, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	u, ok := s.users[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return u, nil
}

func (s *stubUserStore) SaveEligibility(_ context.Context, userID id.UserID, snapshot json.RawMessage, bracket *id.IncomeBracket) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	if _, ok := s.users[userID]; !ok {
		return sentinel.ErrNotFound
	}
	s.savedSnapshot = snapshot
	s.savedBracket = bracket
	s.saveCalls++
	return nil
}

type stubSchemeStore struct {
	schemes []*scheme.Scheme
	err     error
}

func (s *stubSchemeStore) ListApproved(context.Context) ([]*scheme.Scheme, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.schemes, nil
}

type ServiceSuite struct {
	suite.Suite

	users   *stubUserStore
	schemes *stubSchemeStore
	svc     *Service

	userID id.UserID
	now    time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.userID = id.NewUserID()
	s.now = time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

	dob := time.Date(1999, time.March, 10, 0, 0, 0, 0, time.UTC)
	gender := id.GenderFemale
	region := id.RegionKerala
	income := 180000.0
	s.users = &stubUserStore{users: map[id.UserID]*user.User{
		s.userID: {
			ID:                  s.userID,
			OnboardingCompleted: true,
			Profile: user.Profile{
				DateOfBirth:  &dob,
				Gender:       &gender,
				Region:       &region,
				AnnualIncome: &income,
			},
		},
	}}
	s.schemes = &stubSchemeStore{}

	svc, err := New(s.users, s.schemes)
	s.Require().NoError(err)
	s.svc = svc
}

func (s *ServiceSuite) ctx() context.Context {
	return requestcontext.WithTime(context.Background(), s.now)
}

func (s *ServiceSuite) approved(name, rules string, regions ...id.Region) *scheme.Scheme {
	sch := &scheme.Scheme{
		ID:                id.NewSchemeID(),
		Name:              name,
		Status:            id.SchemeStatusApproved,
		ApplicableRegions: regions,
	}
	if rules != "" {
		sch.EligibilityRules = json.RawMessage(rules)
	}
	return sch
}

func (s *ServiceSuite) TestNewRequiresStores() {
	_, err := New(nil, s.schemes)
	s.Error(err)

	_, err = New(s.users, nil)
	s.Error(err)
}

func (s *ServiceSuite) TestRefreshUnknownUser() {
	_, err := s.svc.Refresh(s.ctx(), id.NewUserID())

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	s.Zero(s.users.saveCalls)
}

func (s *ServiceSuite) TestRefreshUserStoreFailure() {
	s.users.findErr = errors.New("connection reset")

	_, err := s.svc.Refresh(s.ctx(), s.userID)

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *ServiceSuite) TestRefreshSchemeStoreFailure() {
	s.schemes.err = errors.New("connection reset")

	_, err := s.svc.Refresh(s.ctx(), s.userID)

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	s.Zero(s.users.saveCalls)
}

func (s *ServiceSuite) TestRefreshBeforeOnboarding() {
	s.users.users[s.userID].OnboardingCompleted = false

	_, err := s.svc.Refresh(s.ctx(), s.userID)

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))
	s.Zero(s.users.saveCalls)
}

func (s *ServiceSuite) TestRefreshMatchesAndPersists() {
	open := s.approved("open", `{}`)
	women := s.approved("women", `{"genders": ["FEMALE"]}`)
	seniors := s.approved("seniors", `{"minAge": 60}`)
	elsewhere := s.approved("elsewhere", `{}`, id.RegionOdisha)
	s.schemes.schemes = []*scheme.Scheme{open, women, seniors, elsewhere}

	result, err := s.svc.Refresh(s.ctx(), s.userID)

	s.Require().NoError(err)
	s.Equal([]id.SchemeID{open.ID, women.ID}, result.MatchedIDs)
	s.Len(result.MatchedSchemes, 2)

	s.Require().NotNil(result.Vector.Age)
	s.Equal(25, *result.Vector.Age)

	s.Equal(1, s.users.saveCalls)
	s.Require().NotNil(s.users.savedBracket)
	s.Equal(id.Bracket1LTo2_5L, *s.users.savedBracket)

	snap, err := UnmarshalSnapshot(s.users.savedSnapshot)
	s.Require().NoError(err)
	s.Require().NotNil(snap)
	s.Equal([]id.SchemeID{open.ID, women.ID}, snap.MatchedSchemeIDs)
	s.Equal(result.Vector, snap.Vector)
}

func (s *ServiceSuite) TestRefreshWithEmptyCatalog() {
	result, err := s.svc.Refresh(s.ctx(), s.userID)

	s.Require().NoError(err)
	s.Empty(result.MatchedIDs)

	snap, err := UnmarshalSnapshot(s.users.savedSnapshot)
	s.Require().NoError(err)
	s.Require().NotNil(snap)
	s.NotNil(snap.MatchedSchemeIDs)
	s.Empty(snap.MatchedSchemeIDs)
}

func (s *ServiceSuite) TestRefreshSurvivesMalformedPolicy() {
	good := s.approved("good", `{}`)
	bad := s.approved("bad", `{"surpriseField": true}`)
	s.schemes.schemes = []*scheme.Scheme{good, bad}

	result, err := s.svc.Refresh(s.ctx(), s.userID)

	s.Require().NoError(err)
	s.Equal([]id.SchemeID{good.ID}, result.MatchedIDs)
	s.Equal(1, s.users.saveCalls)
}

func (s *ServiceSuite) TestRefreshSaveFailure() {
	s.users.saveErr = errors.New("disk full")

	_, err := s.svc.Refresh(s.ctx(), s.userID)

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *ServiceSuite) TestRefreshReflectsCatalogChanges() {
	first := s.approved("first", `{}`)
	s.schemes.schemes = []*scheme.Scheme{first}

	result, err := s.svc.Refresh(s.ctx(), s.userID)
	s.Require().NoError(err)
	s.Equal([]id.SchemeID{first.ID}, result.MatchedIDs)

	second := s.approved("second", `{}`)
	s.schemes.schemes = []*scheme.Scheme{first, second}

	result, err = s.svc.Refresh(s.ctx(), s.userID)
	s.Require().NoError(err)
	s.Equal([]id.SchemeID{first.ID, second.ID}, result.MatchedIDs)

	snap, err := UnmarshalSnapshot(s.users.savedSnapshot)
	s.Require().NoError(err)
	s.Equal([]id.SchemeID{first.ID, second.ID}, snap.MatchedSchemeIDs)
}
