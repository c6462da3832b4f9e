package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"classroom/internal/apperr"
)

const userColumns = `id, user_id, COALESCE(full_name, ''), COALESCE(email, ''), role, is_active, password_hash, created_at`

// Repository persists users in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.UserID, &u.FullName, &u.Email, &u.Role, &u.IsActive, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

// Create inserts a new account. A unique violation on user_id or email
// surfaces as a conflict.
func (r *Repository) Create(ctx context.Context, u User) (User, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO users (user_id, full_name, email, password_hash, role, is_active)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4, $5, TRUE)
		RETURNING `+userColumns+`
	`, u.UserID, u.FullName, u.Email, u.PasswordHash, u.Role)
	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, apperr.Conflict("user id or email already registered")
		}
		return User{}, apperr.Internal(err)
	}
	return created, nil
}

// ByUserID looks an account up by its external identifier.
func (r *Repository) ByUserID(ctx context.Context, userID string) (User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE user_id = $1`, userID)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, apperr.NotFound("user not found")
		}
		return User{}, apperr.Internal(err)
	}
	return u, nil
}

// ByID looks an account up by its internal id.
func (r *Repository) ByID(ctx context.Context, id int64) (User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, apperr.NotFound("user not found")
		}
		return User{}, apperr.Internal(err)
	}
	return u, nil
}

// List returns accounts ordered by user id.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]User, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY user_id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(err)
	}
	return users, nil
}

// StudentsByUSNs returns the student accounts among the given user ids.
func (r *Repository) StudentsByUSNs(ctx context.Context, usns []string) ([]User, error) {
	if len(usns) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE user_id = ANY($1) AND role = 'student'
		ORDER BY user_id
	`, usns)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer rows.Close()

	var students []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		students = append(students, u)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(err)
	}
	return students, nil
}

// Update applies a partial patch and returns the fresh row.
func (r *Repository) Update(ctx context.Context, id int64, p Patch) (User, error) {
	sets := []string{}
	args := []any{}
	add := func(col string, val any) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if p.UserID != nil {
		add("user_id", *p.UserID)
	}
	if p.FullName != nil {
		add("full_name", *p.FullName)
	}
	if p.Email != nil {
		add("email", *p.Email)
	}
	if p.Role != nil {
		add("role", *p.Role)
	}
	if p.IsActive != nil {
		add("is_active", *p.IsActive)
	}
	if len(sets) == 0 {
		return r.ByID(ctx, id)
	}
	sets = append(sets, "updated_at = NOW()")

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING `+userColumns,
		strings.Join(sets, ", "), len(args))
	row := r.db.QueryRowContext(ctx, query, args...)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, apperr.NotFound("user not found")
		}
		if isUniqueViolation(err) {
			return User{}, apperr.Conflict("user id or email already registered")
		}
		return User{}, apperr.Internal(err)
	}
	return u, nil
}

// Delete removes an account.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return apperr.Internal(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

// SetPassword replaces the stored credential hash.
func (r *Repository) SetPassword(ctx context.Context, id int64, hash string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`, id, hash)
	if err != nil {
		return apperr.Internal(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
