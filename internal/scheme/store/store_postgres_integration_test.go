//go:build integration

package store_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"

	"schemeteller/internal/scheme"
	"schemeteller/internal/scheme/store"
	id "schemeteller/pkg/domain"
	"schemeteller/pkg/platform/sentinel"
	"schemeteller/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.Postgres
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "schemes"))
}

func (s *PostgresStoreSuite) seed(name, ministry string, status id.SchemeStatus) *scheme.Scheme {
	sch := &scheme.Scheme{
		ID:       id.NewSchemeID(),
		Name:     name,
		Ministry: ministry,
		Level:    id.SchemeLevelCentral,
		Status:   status,
	}
	s.Require().NoError(s.store.Create(context.Background(), sch))
	return sch
}

func (s *PostgresStoreSuite) TestCreateAndFindRoundTrip() {
	ctx := context.Background()
	sch := &scheme.Scheme{
		ID:                id.NewSchemeID(),
		Name:              "PM-KISAN",
		Description:       "Income support for farmers",
		Ministry:          "Agriculture",
		Level:             id.SchemeLevelCentral,
		Status:            id.SchemeStatusApproved,
		EligibilityRules:  json.RawMessage(`{"occupations": ["FARMER"]}`),
		ApplicableRegions: []id.Region{id.RegionKerala, id.RegionTamilNadu},
		OfficialLink:      "https://pmkisan.gov.in",
	}
	s.Require().NoError(s.store.Create(ctx, sch))

	got, err := s.store.FindByID(ctx, sch.ID)
	s.Require().NoError(err)
	s.Equal("PM-KISAN", got.Name)
	s.Equal("Income support for farmers", got.Description)
	s.Equal(id.SchemeLevelCentral, got.Level)
	s.Equal(id.SchemeStatusApproved, got.Status)
	s.JSONEq(`{"occupations": ["FARMER"]}`, string(got.EligibilityRules))
	s.Equal([]id.Region{id.RegionKerala, id.RegionTamilNadu}, got.ApplicableRegions)
	s.Equal("https://pmkisan.gov.in", got.OfficialLink)
	s.False(got.CreatedAt.IsZero())
}

func (s *PostgresStoreSuite) TestNilRulesAndRegionsRoundTrip() {
	ctx := context.Background()
	sch := s.seed("open", "M", id.SchemeStatusApproved)

	got, err := s.store.FindByID(ctx, sch.ID)
	s.Require().NoError(err)
	s.Nil(got.EligibilityRules)
	s.Nil(got.ApplicableRegions)
}

func (s *PostgresStoreSuite) TestMissingScheme() {
	ctx := context.Background()

	_, err := s.store.FindByID(ctx, id.NewSchemeID())
	s.ErrorIs(err, sentinel.ErrNotFound)
	s.ErrorIs(s.store.Delete(ctx, id.NewSchemeID()), sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestUpdateReplacesPolicyAndRegions() {
	ctx := context.Background()
	sch := s.seed("draft", "M", id.SchemeStatusDraft)

	sch.Status = id.SchemeStatusApproved
	sch.EligibilityRules = json.RawMessage(`{"minAge": 18}`)
	sch.ApplicableRegions = []id.Region{id.RegionOdisha}
	s.Require().NoError(s.store.Update(ctx, sch))

	got, err := s.store.FindByID(ctx, sch.ID)
	s.Require().NoError(err)
	s.Equal(id.SchemeStatusApproved, got.Status)
	s.JSONEq(`{"minAge": 18}`, string(got.EligibilityRules))
	s.Equal([]id.Region{id.RegionOdisha}, got.ApplicableRegions)
}

func (s *PostgresStoreSuite) TestListApprovedExcludesOtherStatuses() {
	ctx := context.Background()
	approved := s.seed("live", "A", id.SchemeStatusApproved)
	s.seed("draft", "A", id.SchemeStatusDraft)
	s.seed("gone", "A", id.SchemeStatusArchived)

	got, err := s.store.ListApproved(ctx)
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(approved.ID, got[0].ID)
}

func (s *PostgresStoreSuite) TestListFiltersAndPaging() {
	ctx := context.Background()
	s.seed("Crop Insurance", "Agriculture", id.SchemeStatusApproved)
	s.seed("Scholarship", "Education", id.SchemeStatusApproved)
	s.seed("Seed Support", "Agriculture", id.SchemeStatusDraft)

	page, err := s.store.List(ctx, scheme.ListFilter{Ministry: "agriculture"})
	s.Require().NoError(err)
	s.Equal(2, page.Total)

	page, err = s.store.List(ctx, scheme.ListFilter{Ministry: "Agriculture", Status: id.SchemeStatusApproved})
	s.Require().NoError(err)
	s.Require().Equal(1, page.Total)
	s.Equal("Crop Insurance", page.Schemes[0].Name)

	page, err = s.store.List(ctx, scheme.ListFilter{Search: "insurance"})
	s.Require().NoError(err)
	s.Require().Equal(1, page.Total)

	page, err = s.store.List(ctx, scheme.ListFilter{Page: 1, Limit: 2})
	s.Require().NoError(err)
	s.Equal(3, page.Total)
	s.Len(page.Schemes, 2)
}

func (s *PostgresStoreSuite) TestCountsAndMinistries() {
	ctx := context.Background()
	s.seed("a", "Agriculture", id.SchemeStatusApproved)
	s.seed("b", "Agriculture", id.SchemeStatusApproved)
	s.seed("c", "Education", id.SchemeStatusDraft)

	counts, err := s.store.CountsByStatus(ctx)
	s.Require().NoError(err)
	s.Equal(2, counts[id.SchemeStatusApproved])
	s.Equal(1, counts[id.SchemeStatusDraft])

	ministries, err := s.store.DistinctMinistries(ctx)
	s.Require().NoError(err)
	s.Equal([]string{"Agriculture", "Education"}, ministries)
}
