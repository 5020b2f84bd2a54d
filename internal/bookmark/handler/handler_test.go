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

	"schemeteller/internal/bookmark"
	bookmarkstore "schemeteller/internal/bookmark/store"
	"schemeteller/internal/scheme"
	schemestore "schemeteller/internal/scheme/store"
	id "schemeteller/pkg/domain"
	"schemeteller/pkg/testutil"
)

type HandlerSuite struct {
	suite.Suite
	router    http.Handler
	schemes   *schemestore.InMemory
	bookmarks *bookmarkstore.InMemory
	userID    id.UserID
	now       time.Time
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.schemes = schemestore.NewInMemory()
	s.bookmarks = bookmarkstore.NewInMemory()
	s.userID = id.NewUserID()
	s.now = time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

	svc, err := bookmark.New(s.bookmarks, s.schemes)
	s.Require().NoError(err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := New(svc, logger)

	r := chi.NewRouter()
	h.Register(r)
	s.router = r
}

func (s *HandlerSuite) seedApprovedScheme(name string) *scheme.Scheme {
	sch := &scheme.Scheme{
		ID:        id.NewSchemeID(),
		Name:      name,
		Level:     id.SchemeLevelCentral,
		Status:    id.SchemeStatusApproved,
		CreatedAt: s.now.Add(-time.Hour),
	}
	s.Require().NoError(s.schemes.Create(context.Background(), sch))
	return sch
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

func (s *HandlerSuite) TestCreateBookmark() {
	sch := s.seedApprovedScheme("PM-KISAN")

	rec := s.do(http.MethodPost, "/bookmarks", `{"scheme_id": "`+sch.ID.String()+`"}`)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var resp BookmarkResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
	s.Equal(sch.ID, resp.SchemeID)
	s.False(resp.ID.IsNil())
}

func (s *HandlerSuite) TestCreateDuplicateReturnsExistingID() {
	sch := s.seedApprovedScheme("PM-KISAN")
	body := `{"scheme_id": "` + sch.ID.String() + `"}`

	rec := s.do(http.MethodPost, "/bookmarks", body)
	s.Require().Equal(http.StatusCreated, rec.Code)
	var created BookmarkResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&created))

	rec = s.do(http.MethodPost, "/bookmarks", body)
	s.Require().Equal(http.StatusConflict, rec.Code)

	var conflict ConflictResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&conflict))
	s.Equal(created.ID, conflict.BookmarkID)
}

func (s *HandlerSuite) TestCreateForUnknownSchemeIsNotFound() {
	rec := s.do(http.MethodPost, "/bookmarks", `{"scheme_id": "`+id.NewSchemeID().String()+`"}`)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *HandlerSuite) TestCreateRejectsMissingSchemeID() {
	rec := s.do(http.MethodPost, "/bookmarks", `{}`)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestListReturnsJoinedSchemes() {
	sch := s.seedApprovedScheme("PM-KISAN")
	rec := s.do(http.MethodPost, "/bookmarks", `{"scheme_id": "`+sch.ID.String()+`"}`)
	s.Require().Equal(http.StatusCreated, rec.Code)

	rec = s.do(http.MethodGet, "/bookmarks", "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp ListResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
	s.Equal(1, resp.Total)
	s.Require().Len(resp.Bookmarks, 1)
	s.Equal("PM-KISAN", resp.Bookmarks[0].Scheme.Name)
}

func (s *HandlerSuite) TestDeleteByBookmarkID() {
	sch := s.seedApprovedScheme("PM-KISAN")
	rec := s.do(http.MethodPost, "/bookmarks", `{"scheme_id": "`+sch.ID.String()+`"}`)
	s.Require().Equal(http.StatusCreated, rec.Code)
	var created BookmarkResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&created))

	rec = s.do(http.MethodDelete, "/bookmarks/"+created.ID.String(), "")
	s.Equal(http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodGet, "/bookmarks", "")
	var resp ListResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
	s.Zero(resp.Total)
}

func (s *HandlerSuite) TestDeleteBySchemeID() {
	sch := s.seedApprovedScheme("PM-KISAN")
	rec := s.do(http.MethodPost, "/bookmarks", `{"scheme_id": "`+sch.ID.String()+`"}`)
	s.Require().Equal(http.StatusCreated, rec.Code)

	rec = s.do(http.MethodDelete, "/bookmarks/"+sch.ID.String(), "")
	s.Equal(http.StatusNoContent, rec.Code)
}

func (s *HandlerSuite) TestDeleteUnknownRefIsNotFound() {
	rec := s.do(http.MethodDelete, "/bookmarks/"+id.NewBookmarkID().String(), "")
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *HandlerSuite) TestDeleteMalformedRefIsRejected() {
	rec := s.do(http.MethodDelete, "/bookmarks/not-a-uuid", "")
	s.Equal(http.StatusBadRequest, rec.Code)
}
