package timetable

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"classroom/internal/apperr"
)

const entryColumns = `id, class_id, day, period_start, period_end, subject, professor_id, is_cancelled, COALESCE(cancel_reason, ''), created_at`

// Repository persists timetable entries in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func scanEntry(row interface{ Scan(...any) error }) (Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.ClassID, &e.Day, &e.PeriodStart, &e.PeriodEnd, &e.Subject,
		&e.ProfessorID, &e.IsCancelled, &e.CancelReason, &e.CreatedAt)
	return e, err
}

// Create inserts a new entry. The natural key is unique.
func (r *Repository) Create(ctx context.Context, e Entry) (Entry, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO timetable (class_id, day, period_start, period_end, subject, professor_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+entryColumns+`
	`, e.ClassID, e.Day, e.PeriodStart, e.PeriodEnd, e.Subject, e.ProfessorID)
	created, err := scanEntry(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Entry{}, apperr.Conflict("a timetable entry already exists for this slot")
		}
		return Entry{}, apperr.Internal(err)
	}
	return created, nil
}

// List returns entries with optional class and day filters.
func (r *Repository) List(ctx context.Context, classID, day string) ([]Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM timetable`
	args := []any{}
	clauses := []string{}
	if classID != "" {
		args = append(args, classID)
		clauses = append(clauses, fmt.Sprintf("class_id = $%d", len(args)))
	}
	if day != "" {
		args = append(args, day)
		clauses = append(clauses, fmt.Sprintf("day = $%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY class_id, day, period_start"

	return r.queryEntries(ctx, query, args...)
}

// ByNaturalKey resolves an entry by (class, weekday, period). Ambiguous
// matches resolve to the first row.
func (r *Repository) ByNaturalKey(ctx context.Context, key NaturalKey) (Entry, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+entryColumns+` FROM timetable
		WHERE class_id = $1 AND day = $2 AND period_start = $3 AND period_end = $4
		ORDER BY id
		LIMIT 1
	`, key.ClassID, key.Day, key.PeriodStart, key.PeriodEnd)
	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, apperr.NotFound("class not found")
		}
		return Entry{}, apperr.Internal(err)
	}
	return e, nil
}

// ByID resolves an entry by internal id.
func (r *Repository) ByID(ctx context.Context, id int64) (Entry, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM timetable WHERE id = $1`, id)
	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, apperr.NotFound("class not found")
		}
		return Entry{}, apperr.Internal(err)
	}
	return e, nil
}

// SetCancelled flips the cancellation state. Reason is cleared when
// restoring so it is never set alongside is_cancelled = false.
func (r *Repository) SetCancelled(ctx context.Context, id int64, cancelled bool, reason string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE timetable SET is_cancelled = $2, cancel_reason = NULLIF($3, '')
		WHERE id = $1
	`, id, cancelled, reason)
	if err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// Update applies a partial patch and returns the fresh row.
func (r *Repository) Update(ctx context.Context, id int64, p Patch) (Entry, error) {
	sets := []string{}
	args := []any{}
	add := func(col string, val any) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if p.ClassID != nil {
		add("class_id", *p.ClassID)
	}
	if p.Day != nil {
		add("day", *p.Day)
	}
	if p.PeriodStart != nil {
		add("period_start", *p.PeriodStart)
	}
	if p.PeriodEnd != nil {
		add("period_end", *p.PeriodEnd)
	}
	if p.Subject != nil {
		add("subject", *p.Subject)
	}
	if p.ProfessorID != nil {
		add("professor_id", *p.ProfessorID)
	}
	if len(sets) == 0 {
		return r.ByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE timetable SET %s WHERE id = $%d RETURNING `+entryColumns,
		strings.Join(sets, ", "), len(args))
	row := r.db.QueryRowContext(ctx, query, args...)
	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, apperr.NotFound("class not found")
		}
		return Entry{}, apperr.Internal(err)
	}
	return e, nil
}

// Delete removes an entry.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM timetable WHERE id = $1`, id)
	if err != nil {
		return apperr.Internal(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("class not found")
	}
	return nil
}

// Cancelled returns all cancelled entries.
func (r *Repository) Cancelled(ctx context.Context) ([]Entry, error) {
	return r.queryEntries(ctx, `SELECT `+entryColumns+` FROM timetable WHERE is_cancelled ORDER BY class_id, day, period_start`)
}

// FirstForClass returns the first entry for a class, or sql.ErrNoRows
// mapped to not-found when the class has no schedule.
func (r *Repository) FirstForClass(ctx context.Context, classID string) (Entry, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+entryColumns+` FROM timetable WHERE class_id = $1 ORDER BY id LIMIT 1
	`, classID)
	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, apperr.NotFound("class not found")
		}
		return Entry{}, apperr.Internal(err)
	}
	return e, nil
}

// ForProfessor returns every entry assigned to a professor.
func (r *Repository) ForProfessor(ctx context.Context, professorID string) ([]Entry, error) {
	return r.queryEntries(ctx, `
		SELECT `+entryColumns+` FROM timetable WHERE professor_id = $1 ORDER BY class_id, subject, day, period_start
	`, professorID)
}

// Assigned reports whether a professor holds a timetable assignment for
// the class, optionally narrowed to one subject. Implements
// authz.AssignmentChecker.
func (r *Repository) Assigned(ctx context.Context, classID, subject, professorID string) (bool, error) {
	query := `SELECT 1 FROM timetable WHERE class_id = $1 AND professor_id = $2`
	args := []any{classID, professorID}
	if subject != "" {
		args = append(args, subject)
		query += ` AND subject = $3`
	}
	query += ` LIMIT 1`

	var one int
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *Repository) queryEntries(ctx context.Context, query string, args ...any) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(err)
	}
	return entries, nil
}
