package attendance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"classroom/internal/apperr"
)

var recordsCreated = promauto.NewCounter(prometheus.CounterOpts{
	Name: "classroom_attendance_records_created_total",
	Help: "Number of attendance records written.",
})

const recordColumns = `id, class_id, usn, date::text, status, COALESCE(marked_by, ''), COALESCE(period_start, ''), COALESCE(period_end, ''), subject, created_at`

// Repository persists attendance records in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func scanRecord(row interface{ Scan(...any) error }) (Record, error) {
	var rec Record
	err := row.Scan(&rec.ID, &rec.ClassID, &rec.USN, &rec.Date, &rec.Status, &rec.MarkedBy,
		&rec.PeriodStart, &rec.PeriodEnd, &rec.Subject, &rec.CreatedAt)
	return rec, err
}

// Insert writes a new record. The unique constraint on
// (class_id, usn, date, subject) is the duplicate-detection signal.
func (r *Repository) Insert(ctx context.Context, rec Record) (Record, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO attendance (class_id, usn, date, status, marked_by, period_start, period_end, subject)
		VALUES ($1, $2, $3::date, $4, NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), $8)
		RETURNING `+recordColumns+`
	`, rec.ClassID, rec.USN, rec.Date, rec.Status, rec.MarkedBy, rec.PeriodStart, rec.PeriodEnd, rec.Subject)
	created, err := scanRecord(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Record{}, apperr.Conflict(fmt.Sprintf("attendance record already exists for %s on %s", rec.USN, rec.Date))
		}
		return Record{}, apperr.Internal(err)
	}
	recordsCreated.Inc()
	return created, nil
}

// List returns records matching the filter, newest first.
func (r *Repository) List(ctx context.Context, f Filter) ([]Record, error) {
	query := `SELECT ` + recordColumns + ` FROM attendance`
	args := []any{}
	clauses := []string{}
	add := func(clause string, val any) {
		args = append(args, val)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}
	if f.ClassID != "" {
		add("class_id = $%d", f.ClassID)
	}
	if f.USN != "" {
		add("usn = $%d", f.USN)
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.DateFrom != "" {
		add("date >= $%d::date", f.DateFrom)
	}
	if f.DateTo != "" {
		add("date <= $%d::date", f.DateTo)
	}
	if f.Subject != "" {
		add("subject = $%d", f.Subject)
	}
	if f.SubjectLike != "" {
		add("subject ILIKE $%d", "%"+f.SubjectLike+"%")
	}
	if f.Semester != "" {
		// Semester lives inside the class id, e.g. the 3 in CS301.
		add("class_id LIKE $%d", "%"+f.Semester+"%")
	}
	if f.MarkedBy != "" {
		add("marked_by = $%d", f.MarkedBy)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY date DESC, usn"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(err)
	}
	return records, nil
}

// ByID resolves a record by internal id.
func (r *Repository) ByID(ctx context.Context, id int64) (Record, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM attendance WHERE id = $1`, id)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, apperr.NotFound("attendance record not found")
		}
		return Record{}, apperr.Internal(err)
	}
	return rec, nil
}

// Update applies a partial patch and returns the fresh row.
func (r *Repository) Update(ctx context.Context, id int64, p Patch) (Record, error) {
	sets := []string{}
	args := []any{}
	add := func(col string, val any) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if p.ClassID != nil {
		add("class_id", *p.ClassID)
	}
	if p.USN != nil {
		add("usn", *p.USN)
	}
	if p.Date != nil {
		args = append(args, *p.Date)
		sets = append(sets, fmt.Sprintf("date = $%d::date", len(args)))
	}
	if p.Status != nil {
		add("status", *p.Status)
	}
	if p.MarkedBy != nil {
		add("marked_by", *p.MarkedBy)
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
	if len(sets) == 0 {
		return r.ByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE attendance SET %s WHERE id = $%d RETURNING `+recordColumns,
		strings.Join(sets, ", "), len(args))
	row := r.db.QueryRowContext(ctx, query, args...)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, apperr.NotFound("attendance record not found")
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Record{}, apperr.Conflict("attendance record already exists for that student, date and subject")
		}
		return Record{}, apperr.Internal(err)
	}
	return rec, nil
}

// Delete removes a record.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM attendance WHERE id = $1`, id)
	if err != nil {
		return apperr.Internal(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("attendance record not found")
	}
	return nil
}

// DistinctUSNs returns the students that have any record for a class.
func (r *Repository) DistinctUSNs(ctx context.Context, classID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT usn FROM attendance WHERE class_id = $1 ORDER BY usn
	`, classID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer rows.Close()

	var usns []string
	for rows.Next() {
		var usn string
		if err := rows.Scan(&usn); err != nil {
			return nil, apperr.Internal(err)
		}
		usns = append(usns, usn)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(err)
	}
	return usns, nil
}
