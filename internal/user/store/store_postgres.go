package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"schemeteller/internal/user"
	id "schemeteller/pkg/domain"
	"schemeteller/pkg/platform/sentinel"
)

// Postgres persists users in PostgreSQL. One row per account; profile,
// derived bracket, and the eligibility snapshot live on the same row.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const userColumns = `
	id, email, password_hash, name, role, onboarding_completed,
	date_of_birth, gender, category, region, district, is_rural,
	annual_income, occupation, is_bpl, is_disabled, is_minority,
	income_bracket, eligibility_snapshot, created_at, updated_at`

func (s *Postgres) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (
			id, email, password_hash, name, role, onboarding_completed,
			date_of_birth, gender, category, region, district, is_rural,
			annual_income, occupation, is_bpl, is_disabled, is_minority,
			income_bracket, eligibility_snapshot
		)
		VALUES ($1, lower($2), $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`
	p := u.Profile
	_, err := s.db.ExecContext(ctx, query,
		u.ID.String(), u.Email, u.PasswordHash, u.Name, string(u.Role), u.OnboardingCompleted,
		p.DateOfBirth, nullableString(p.Gender), nullableString(p.Category), nullableString(p.Region),
		p.District, p.IsRural, p.AnnualIncome, nullableString(p.Occupation),
		p.IsBPL, p.IsDisabled, p.IsMinority,
		nullableString(u.IncomeBracket), nullableJSON(u.EligibilitySnapshot),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, userID id.UserID) (*user.User, error) {
	query := `SELECT` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(s.db.QueryRowContext(ctx, query, userID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

func (s *Postgres) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `SELECT` + userColumns + ` FROM users WHERE email = lower($1)`
	u, err := scanUser(s.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

func (s *Postgres) Update(ctx context.Context, u *user.User) error {
	query := `
		UPDATE users SET
			email = lower($2), password_hash = $3, name = $4, role = $5,
			onboarding_completed = $6, date_of_birth = $7, gender = $8,
			category = $9, region = $10, district = $11, is_rural = $12,
			annual_income = $13, occupation = $14, is_bpl = $15,
			is_disabled = $16, is_minority = $17, income_bracket = $18,
			updated_at = now()
		WHERE id = $1
	`
	p := u.Profile
	result, err := s.db.ExecContext(ctx, query,
		u.ID.String(), u.Email, u.PasswordHash, u.Name, string(u.Role),
		u.OnboardingCompleted, p.DateOfBirth, nullableString(p.Gender),
		nullableString(p.Category), nullableString(p.Region), p.District, p.IsRural,
		p.AnnualIncome, nullableString(p.Occupation), p.IsBPL,
		p.IsDisabled, p.IsMinority, nullableString(u.IncomeBracket),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("update user: %w", err)
	}
	return requireRow(result)
}

func (s *Postgres) SaveEligibility(ctx context.Context, userID id.UserID, snapshot json.RawMessage, bracket *id.IncomeBracket) error {
	query := `
		UPDATE users SET
			eligibility_snapshot = $2,
			income_bracket = $3,
			updated_at = now()
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query, userID.String(), nullableJSON(snapshot), nullableString(bracket))
	if err != nil {
		return fmt.Errorf("save eligibility snapshot: %w", err)
	}
	return requireRow(result)
}

func (s *Postgres) List(ctx context.Context, search string, page, limit int) ([]*user.User, int, error) {
	where := ""
	var args []any
	if search != "" {
		where = ` WHERE (name ILIKE $1 OR email ILIKE $1)`
		args = append(args, "%"+search+"%")
	}

	total := 0
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM users`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	query := fmt.Sprintf(`SELECT`+userColumns+` FROM users%s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)
	rows, err := s.db.QueryContext(ctx, query, append(args, limit, (page-1)*limit)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]*user.User, 0, limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate user rows: %w", err)
	}
	return users, total, nil
}

func (s *Postgres) Delete(ctx context.Context, userID id.UserID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID.String())
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return requireRow(result)
}

func (s *Postgres) Counts(ctx context.Context) (int, int, error) {
	var total, onboarded int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*), count(*) FILTER (WHERE onboarding_completed) FROM users`,
	).Scan(&total, &onboarded)
	if err != nil {
		return 0, 0, fmt.Errorf("count users: %w", err)
	}
	return total, onboarded, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*user.User, error) {
	var (
		u        user.User
		rawID    string
		role     string
		gender   sql.NullString
		category sql.NullString
		region   sql.NullString
		occ      sql.NullString
		bracket  sql.NullString
		dob      sql.NullTime
		district sql.NullString
		isRural  sql.NullBool
		income   sql.NullFloat64
		snapshot []byte
	)
	err := row.Scan(
		&rawID, &u.Email, &u.PasswordHash, &u.Name, &role, &u.OnboardingCompleted,
		&dob, &gender, &category, &region, &district, &isRural,
		&income, &occ, &u.Profile.IsBPL, &u.Profile.IsDisabled, &u.Profile.IsMinority,
		&bracket, &snapshot, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	userID, err := id.ParseUserID(rawID)
	if err != nil {
		return nil, err
	}
	u.ID = userID
	u.Role = id.Role(role)
	if dob.Valid {
		t := dob.Time.UTC()
		u.Profile.DateOfBirth = &t
	}
	if gender.Valid {
		v := id.Gender(gender.String)
		u.Profile.Gender = &v
	}
	if category.Valid {
		v := id.Category(category.String)
		u.Profile.Category = &v
	}
	if region.Valid {
		v := id.Region(region.String)
		u.Profile.Region = &v
	}
	if district.Valid {
		u.Profile.District = &district.String
	}
	if isRural.Valid {
		u.Profile.IsRural = &isRural.Bool
	}
	if income.Valid {
		u.Profile.AnnualIncome = &income.Float64
	}
	if occ.Valid {
		v := id.Occupation(occ.String)
		u.Profile.Occupation = &v
	}
	if bracket.Valid {
		v := id.IncomeBracket(bracket.String)
		u.IncomeBracket = &v
	}
	if len(snapshot) > 0 {
		u.EligibilitySnapshot = json.RawMessage(snapshot)
	}
	return &u, nil
}

// nullableString maps a nil pointer of any string-kinded type to SQL NULL.
func nullableString[T ~string](v *T) any {
	if v == nil {
		return nil
	}
	return string(*v)
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

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
