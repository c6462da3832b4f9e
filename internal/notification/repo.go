package notification

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"classroom/internal/apperr"
)

const notificationColumns = `id, class_id, type, title, message, metadata, COALESCE(target_usn, ''), is_read, created_at`

// Repository persists notifications in Postgres. Metadata round-trips
// through a JSONB column.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func scanNotification(row interface{ Scan(...any) error }) (Notification, error) {
	var n Notification
	var meta []byte
	err := row.Scan(&n.ID, &n.ClassID, &n.Type, &n.Title, &n.Message, &meta, &n.TargetUSN, &n.IsRead, &n.CreatedAt)
	if err != nil {
		return Notification{}, err
	}
	if len(meta) > 0 {
		var m Metadata
		if err := json.Unmarshal(meta, &m); err == nil {
			n.Metadata = &m
		}
	}
	return n, nil
}

// Create inserts a notification.
func (r *Repository) Create(ctx context.Context, n Notification) (Notification, error) {
	var meta any
	if n.Metadata != nil {
		raw, err := json.Marshal(n.Metadata)
		if err != nil {
			return Notification{}, apperr.Internal(err)
		}
		meta = raw
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO notifications (class_id, type, title, message, metadata, target_usn)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
		RETURNING `+notificationColumns+`
	`, n.ClassID, n.Type, n.Title, n.Message, meta, n.TargetUSN)
	created, err := scanNotification(row)
	if err != nil {
		return Notification{}, apperr.Internal(err)
	}
	return created, nil
}

// List returns notifications matching the filter, newest first.
func (r *Repository) List(ctx context.Context, f Filter) ([]Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications`
	args := []any{}
	clauses := []string{}
	add := func(clause string, val any) {
		args = append(args, val)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}
	if f.ViewerUSN != "" {
		add("(target_usn IS NULL OR target_usn = $%d)", f.ViewerUSN)
	}
	if f.TargetUSN != "" {
		add("(target_usn IS NULL OR target_usn = $%d)", f.TargetUSN)
	}
	if f.ClassID != "" {
		add("class_id = $%d", f.ClassID)
	}
	if f.Type != "" {
		add("type = $%d", f.Type)
	}
	if f.IsRead != nil {
		add("is_read = $%d", *f.IsRead)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer rows.Close()

	var notifications []Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(err)
	}
	return notifications, nil
}

// ByID resolves a notification by id.
func (r *Repository) ByID(ctx context.Context, id int64) (Notification, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, id)
	n, err := scanNotification(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Notification{}, apperr.NotFound("notification not found")
		}
		return Notification{}, apperr.Internal(err)
	}
	return n, nil
}

// MarkRead sets the read flag.
func (r *Repository) MarkRead(ctx context.Context, id int64) (Notification, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE notifications SET is_read = TRUE WHERE id = $1
		RETURNING `+notificationColumns+`
	`, id)
	n, err := scanNotification(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Notification{}, apperr.NotFound("notification not found")
		}
		return Notification{}, apperr.Internal(err)
	}
	return n, nil
}

// Delete removes a notification.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return apperr.Internal(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("notification not found")
	}
	return nil
}
