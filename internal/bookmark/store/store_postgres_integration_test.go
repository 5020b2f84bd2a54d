//go:build integration

package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"schemeteller/internal/bookmark"
	bookmarkstore "schemeteller/internal/bookmark/store"
	"schemeteller/internal/scheme"
	schemestore "schemeteller/internal/scheme/store"
	"schemeteller/internal/user"
	userstore "schemeteller/internal/user/store"
	id "schemeteller/pkg/domain"
	"schemeteller/pkg/platform/sentinel"
	"schemeteller/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *bookmarkstore.Postgres
	users    *userstore.Postgres
	schemes  *schemestore.Postgres

	userID   id.UserID
	schemeID id.SchemeID
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
	s.store = bookmarkstore.NewPostgres(s.postgres.DB)
	s.users = userstore.NewPostgres(s.postgres.DB)
	s.schemes = schemestore.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateTables(ctx, "bookmarks", "schemes", "users"))

	s.userID = id.NewUserID()
	s.Require().NoError(s.users.Create(ctx, &user.User{
		ID: s.userID, Email: "asha@example.com", PasswordHash: "h", Name: "Asha", Role: id.RoleUser,
	}))
	s.schemeID = id.NewSchemeID()
	s.Require().NoError(s.schemes.Create(ctx, &scheme.Scheme{
		ID: s.schemeID, Name: "PM-KISAN", Level: id.SchemeLevelCentral, Status: id.SchemeStatusApproved,
	}))
}

func (s *PostgresStoreSuite) create() *bookmark.Bookmark {
	b := &bookmark.Bookmark{ID: id.NewBookmarkID(), UserID: s.userID, SchemeID: s.schemeID}
	s.Require().NoError(s.store.Create(context.Background(), b))
	return b
}

func (s *PostgresStoreSuite) TestCreateAndFind() {
	ctx := context.Background()
	b := s.create()

	got, err := s.store.FindByUserAndScheme(ctx, s.userID, s.schemeID)
	s.Require().NoError(err)
	s.Equal(b.ID, got.ID)
	s.False(got.CreatedAt.IsZero())
}

func (s *PostgresStoreSuite) TestDuplicatePairConflicts() {
	ctx := context.Background()
	s.create()

	err := s.store.Create(ctx, &bookmark.Bookmark{ID: id.NewBookmarkID(), UserID: s.userID, SchemeID: s.schemeID})
	s.ErrorIs(err, sentinel.ErrConflict)
}

func (s *PostgresStoreSuite) TestDeleteRequiresOwnership() {
	ctx := context.Background()
	b := s.create()

	s.ErrorIs(s.store.Delete(ctx, id.NewUserID(), b.ID), sentinel.ErrNotFound)
	s.Require().NoError(s.store.Delete(ctx, s.userID, b.ID))
	s.ErrorIs(s.store.Delete(ctx, s.userID, b.ID), sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestDeleteByScheme() {
	ctx := context.Background()
	s.create()

	s.ErrorIs(s.store.DeleteByScheme(ctx, id.NewUserID(), s.schemeID), sentinel.ErrNotFound)
	s.Require().NoError(s.store.DeleteByScheme(ctx, s.userID, s.schemeID))

	_, err := s.store.FindByUserAndScheme(ctx, s.userID, s.schemeID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestCounts() {
	ctx := context.Background()
	s.create()

	count, err := s.store.CountByUser(ctx, s.userID)
	s.Require().NoError(err)
	s.Equal(1, count)

	count, err = s.store.CountByScheme(ctx, s.schemeID)
	s.Require().NoError(err)
	s.Equal(1, count)

	total, err := s.store.Count(ctx)
	s.Require().NoError(err)
	s.Equal(1, total)
}

func (s *PostgresStoreSuite) TestDeletingUserCascades() {
	ctx := context.Background()
	s.create()

	s.Require().NoError(s.users.Delete(ctx, s.userID))

	total, err := s.store.Count(ctx)
	s.Require().NoError(err)
	s.Zero(total)
}

func (s *PostgresStoreSuite) TestListByUser() {
	ctx := context.Background()
	s.create()

	other := id.NewSchemeID()
	s.Require().NoError(s.schemes.Create(ctx, &scheme.Scheme{
		ID: other, Name: "Scholarship", Level: id.SchemeLevelState, Status: id.SchemeStatusApproved,
	}))
	s.Require().NoError(s.store.Create(ctx, &bookmark.Bookmark{ID: id.NewBookmarkID(), UserID: s.userID, SchemeID: other}))

	got, err := s.store.ListByUser(ctx, s.userID)
	s.Require().NoError(err)
	s.Len(got, 2)
}
