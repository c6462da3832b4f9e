package notification

import (
	"context"

	"classroom/internal/apperr"
	"classroom/internal/authz"
)

// Store is the persistence surface the service needs.
type Store interface {
	Create(ctx context.Context, n Notification) (Notification, error)
	List(ctx context.Context, f Filter) ([]Notification, error)
	ByID(ctx context.Context, id int64) (Notification, error)
	MarkRead(ctx context.Context, id int64) (Notification, error)
	Delete(ctx context.Context, id int64) error
}

// CreateInput is the notification creation payload.
type CreateInput struct {
	ClassID   string    `json:"class_id" binding:"required"`
	Type      string    `json:"type" binding:"required"`
	Title     string    `json:"title" binding:"required"`
	Message   string    `json:"message" binding:"required"`
	Metadata  *Metadata `json:"metadata"`
	TargetUSN string    `json:"target_usn"`
}

// Service applies role scoping over the notification store.
type Service struct {
	store Store
	gate  *authz.Gate
}

// NewService creates a service backed by a store.
func NewService(store Store, gate *authz.Gate) *Service {
	return &Service{store: store, gate: gate}
}

// List returns notifications. Students see broadcasts and their own
// targeted rows only; a student-supplied target filter is ignored.
func (s *Service) List(ctx context.Context, ident authz.Identity, f Filter) ([]Notification, error) {
	if err := s.gate.CanAct(ident).Err(); err != nil {
		return nil, err
	}
	if ident.IsStudent() {
		f.TargetUSN = ""
		f.ViewerUSN = ident.UserID
	}
	if f.Limit <= 0 {
		f.Limit = 50
	}
	return s.store.List(ctx, f)
}

// Create posts a notification. Professors stay restricted to classes
// they hold a timetable assignment for.
func (s *Service) Create(ctx context.Context, ident authz.Identity, in CreateInput) (Notification, error) {
	if !ValidType(in.Type) {
		return Notification{}, apperr.InvalidInput("type must be cancellation, resource or notice")
	}
	d, err := s.gate.MutateClass(ctx, ident, in.ClassID, "")
	if err != nil {
		return Notification{}, err
	}
	if err := d.Err(); err != nil {
		return Notification{}, err
	}
	return s.store.Create(ctx, Notification{
		ClassID:   in.ClassID,
		Type:      in.Type,
		Title:     in.Title,
		Message:   in.Message,
		Metadata:  in.Metadata,
		TargetUSN: in.TargetUSN,
	})
}

// MarkRead flags a notification read. A student may not flag another
// student's targeted notification.
func (s *Service) MarkRead(ctx context.Context, ident authz.Identity, id int64) (Notification, error) {
	if err := s.gate.CanAct(ident).Err(); err != nil {
		return Notification{}, err
	}
	n, err := s.store.ByID(ctx, id)
	if err != nil {
		return Notification{}, err
	}
	if ident.IsStudent() && n.TargetUSN != "" && n.TargetUSN != ident.UserID {
		return Notification{}, apperr.Forbidden("not authorized to modify this notification")
	}
	return s.store.MarkRead(ctx, id)
}

// Delete removes a notification, staff only, existence checked first.
func (s *Service) Delete(ctx context.Context, ident authz.Identity, id int64) error {
	if err := s.gate.RequireStaff(ident).Err(); err != nil {
		return err
	}
	if _, err := s.store.ByID(ctx, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}
