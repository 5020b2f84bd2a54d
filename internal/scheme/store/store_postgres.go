package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"schemeteller/internal/scheme"
	id "schemeteller/pkg/domain"
	"schemeteller/pkg/platform/sentinel"
)

// Postgres persists schemes in PostgreSQL. Applicable regions are stored as
// a text array; the eligibility policy stays an opaque JSONB document.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const schemeColumns = `
	id, name, description, ministry, level, status,
	eligibility_rules, applicable_regions, official_link,
	created_at, updated_at`

func (s *Postgres) Create(ctx context.Context, sch *scheme.Scheme) error {
	query := `
		INSERT INTO schemes (
			id, name, description, ministry, level, status,
			eligibility_rules, applicable_regions, official_link
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(ctx, query,
		sch.ID.String(), sch.Name, sch.Description, sch.Ministry,
		string(sch.Level), string(sch.Status),
		nullableJSON(sch.EligibilityRules), pq.Array(regionStrings(sch.ApplicableRegions)),
		sch.OfficialLink,
	)
	if err != nil {
		return fmt.Errorf("create scheme: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, schemeID id.SchemeID) (*scheme.Scheme, error) {
	query := `SELECT` + schemeColumns + ` FROM schemes WHERE id = $1`
	sch, err := scanScheme(s.db.QueryRowContext(ctx, query, schemeID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find scheme by id: %w", err)
	}
	return sch, nil
}

func (s *Postgres) Update(ctx context.Context, sch *scheme.Scheme) error {
	query := `
		UPDATE schemes SET
			name = $2, description = $3, ministry = $4, level = $5,
			status = $6, eligibility_rules = $7, applicable_regions = $8,
			official_link = $9, updated_at = now()
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query,
		sch.ID.String(), sch.Name, sch.Description, sch.Ministry,
		string(sch.Level), string(sch.Status),
		nullableJSON(sch.EligibilityRules), pq.Array(regionStrings(sch.ApplicableRegions)),
		sch.OfficialLink,
	)
	if err != nil {
		return fmt.Errorf("update scheme: %w", err)
	}
	return requireRow(result)
}

func (s *Postgres) Delete(ctx context.Context, schemeID id.SchemeID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM schemes WHERE id = $1`, schemeID.String())
	if err != nil {
		return fmt.Errorf("delete scheme: %w", err)
	}
	return requireRow(result)
}

func (s *Postgres) List(ctx context.Context, filter scheme.ListFilter) (*scheme.Page, error) {
	where, args := buildFilter(filter)

	total := 0
	countQuery := `SELECT count(*) FROM schemes` + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count schemes: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}
	query := fmt.Sprintf(`SELECT`+schemeColumns+` FROM schemes%s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)
	rows, err := s.db.QueryContext(ctx, query, append(args, limit, (page-1)*limit)...)
	if err != nil {
		return nil, fmt.Errorf("list schemes: %w", err)
	}
	defer rows.Close()

	schemes, err := collectSchemes(rows)
	if err != nil {
		return nil, err
	}
	return &scheme.Page{Schemes: schemes, Total: total}, nil
}

func (s *Postgres) ListApproved(ctx context.Context) ([]*scheme.Scheme, error) {
	query := `SELECT` + schemeColumns + ` FROM schemes WHERE status = $1 ORDER BY created_at DESC, id`
	rows, err := s.db.QueryContext(ctx, query, string(id.SchemeStatusApproved))
	if err != nil {
		return nil, fmt.Errorf("list approved schemes: %w", err)
	}
	defer rows.Close()

	return collectSchemes(rows)
}

func (s *Postgres) CountsByStatus(ctx context.Context) (map[id.SchemeStatus]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, count(*) FROM schemes GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count schemes by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[id.SchemeStatus]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts[id.SchemeStatus(status)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status counts: %w", err)
	}
	return counts, nil
}

func (s *Postgres) DistinctMinistries(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT ministry FROM schemes WHERE ministry <> '' ORDER BY ministry`)
	if err != nil {
		return nil, fmt.Errorf("list ministries: %w", err)
	}
	defer rows.Close()

	var ministries []string
	for rows.Next() {
		var ministry string
		if err := rows.Scan(&ministry); err != nil {
			return nil, fmt.Errorf("scan ministry: %w", err)
		}
		ministries = append(ministries, ministry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ministries: %w", err)
	}
	return ministries, nil
}

func buildFilter(filter scheme.ListFilter) (string, []any) {
	var clauses []string
	var args []any

	add := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if filter.Status != "" {
		add("status = $%d", string(filter.Status))
	}
	if filter.Level != "" {
		add("level = $%d", string(filter.Level))
	}
	if filter.Ministry != "" {
		add("lower(ministry) = lower($%d)", filter.Ministry)
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf(
			"(name ILIKE $%d OR description ILIKE $%d OR ministry ILIKE $%d)", n, n, n))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func collectSchemes(rows *sql.Rows) ([]*scheme.Scheme, error) {
	schemes := make([]*scheme.Scheme, 0)
	for rows.Next() {
		sch, err := scanScheme(rows)
		if err != nil {
			return nil, fmt.Errorf("scan scheme row: %w", err)
		}
		schemes = append(schemes, sch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scheme rows: %w", err)
	}
	return schemes, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanScheme(row rowScanner) (*scheme.Scheme, error) {
	var (
		sch     scheme.Scheme
		rawID   string
		level   string
		status  string
		rules   []byte
		regions pq.StringArray
	)
	err := row.Scan(
		&rawID, &sch.Name, &sch.Description, &sch.Ministry, &level, &status,
		&rules, &regions, &sch.OfficialLink, &sch.CreatedAt, &sch.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	schemeID, err := id.ParseSchemeID(rawID)
	if err != nil {
		return nil, err
	}
	sch.ID = schemeID
	sch.Level = id.SchemeLevel(level)
	sch.Status = id.SchemeStatus(status)
	if len(rules) > 0 {
		sch.EligibilityRules = json.RawMessage(rules)
	}
	if len(regions) > 0 {
		sch.ApplicableRegions = make([]id.Region, len(regions))
		for i, r := range regions {
			sch.ApplicableRegions[i] = id.Region(r)
		}
	}
	return &sch, nil
}

func regionStrings(regions []id.Region) []string {
	out := make([]string, len(regions))
	for i, r := range regions {
		out[i] = string(r)
	}
	return out
}

func nullableJSON(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
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
