package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"schemeteller/internal/bookmark"
	id "schemeteller/pkg/domain"
	"schemeteller/pkg/platform/sentinel"
)

// Postgres persists bookmarks in PostgreSQL. The (user_id, scheme_id)
// unique constraint enforces one bookmark per pair.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, b *bookmark.Bookmark) error {
	query := `INSERT INTO bookmarks (id, user_id, scheme_id) VALUES ($1, $2, $3)`
	_, err := s.db.ExecContext(ctx, query, b.ID.String(), b.UserID.String(), b.SchemeID.String())
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create bookmark: %w", err)
	}
	return nil
}

func (s *Postgres) FindByUserAndScheme(ctx context.Context, userID id.UserID, schemeID id.SchemeID) (*bookmark.Bookmark, error) {
	query := `SELECT id, user_id, scheme_id, created_at FROM bookmarks WHERE user_id = $1 AND scheme_id = $2`
	b, err := scanBookmark(s.db.QueryRowContext(ctx, query, userID.String(), schemeID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find bookmark: %w", err)
	}
	return b, nil
}

func (s *Postgres) ListByUser(ctx context.Context, userID id.UserID) ([]*bookmark.Bookmark, error) {
	query := `SELECT id, user_id, scheme_id, created_at FROM bookmarks WHERE user_id = $1 ORDER BY created_at DESC, id`
	rows, err := s.db.QueryContext(ctx, query, userID.String())
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	defer rows.Close()

	bookmarks := make([]*bookmark.Bookmark, 0)
	for rows.Next() {
		b, err := scanBookmark(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bookmark row: %w", err)
		}
		bookmarks = append(bookmarks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookmark rows: %w", err)
	}
	return bookmarks, nil
}

func (s *Postgres) Delete(ctx context.Context, userID id.UserID, bookmarkID id.BookmarkID) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM bookmarks WHERE id = $1 AND user_id = $2`,
		bookmarkID.String(), userID.String())
	if err != nil {
		return fmt.Errorf("delete bookmark: %w", err)
	}
	return requireRow(result)
}

func (s *Postgres) DeleteByScheme(ctx context.Context, userID id.UserID, schemeID id.SchemeID) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM bookmarks WHERE user_id = $1 AND scheme_id = $2`,
		userID.String(), schemeID.String())
	if err != nil {
		return fmt.Errorf("delete bookmark by scheme: %w", err)
	}
	return requireRow(result)
}

func (s *Postgres) CountByUser(ctx context.Context, userID id.UserID) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM bookmarks WHERE user_id = $1`, userID.String()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count bookmarks by user: %w", err)
	}
	return count, nil
}

func (s *Postgres) CountByScheme(ctx context.Context, schemeID id.SchemeID) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM bookmarks WHERE scheme_id = $1`, schemeID.String()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count bookmarks by scheme: %w", err)
	}
	return count, nil
}

func (s *Postgres) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM bookmarks`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count bookmarks: %w", err)
	}
	return count, nil
}

func scanBookmark(row interface{ Scan(dest ...any) error }) (*bookmark.Bookmark, error) {
	var (
		b         bookmark.Bookmark
		rawID     string
		rawUser   string
		rawScheme string
	)
	if err := row.Scan(&rawID, &rawUser, &rawScheme, &b.CreatedAt); err != nil {
		return nil, err
	}

	bookmarkID, err := id.ParseBookmarkID(rawID)
	if err != nil {
		return nil, err
	}
	userID, err := id.ParseUserID(rawUser)
	if err != nil {
		return nil, err
	}
	schemeID, err := id.ParseSchemeID(rawScheme)
	if err != nil {
		return nil, err
	}
	b.ID = bookmarkID
	b.UserID = userID
	b.SchemeID = schemeID
	return &b, nil
}

func requireRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
