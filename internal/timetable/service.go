package timetable

import (
	"context"

	"classroom/internal/apperr"
	"classroom/internal/authz"
)

// Store is the persistence surface the service needs.
type Store interface {
	Create(ctx context.Context, e Entry) (Entry, error)
	List(ctx context.Context, classID, day string) ([]Entry, error)
	ByNaturalKey(ctx context.Context, key NaturalKey) (Entry, error)
	ByID(ctx context.Context, id int64) (Entry, error)
	SetCancelled(ctx context.Context, id int64, cancelled bool, reason string) error
	Update(ctx context.Context, id int64, p Patch) (Entry, error)
	Delete(ctx context.Context, id int64) error
	Cancelled(ctx context.Context) ([]Entry, error)
	FirstForClass(ctx context.Context, classID string) (Entry, error)
	ForProfessor(ctx context.Context, professorID string) ([]Entry, error)
}

// Service applies schedule mutations under ownership constraints.
// Existence is always confirmed before ownership so a missing entry
// reports not-found rather than forbidden.
type Service struct {
	store Store
	gate  *authz.Gate
}

// NewService creates a service backed by a store.
func NewService(store Store, gate *authz.Gate) *Service {
	return &Service{store: store, gate: gate}
}

// List returns schedule views with the status/color hint applied.
func (s *Service) List(ctx context.Context, ident authz.Identity, classID, day string) ([]View, error) {
	if err := s.gate.CanAct(ident).Err(); err != nil {
		return nil, err
	}
	entries, err := s.store.List(ctx, classID, day)
	if err != nil {
		return nil, err
	}
	return views(entries), nil
}

// Create adds a schedule entry. A professor may only schedule themselves.
func (s *Service) Create(ctx context.Context, ident authz.Identity, e Entry) (Entry, error) {
	if err := s.gate.RequireStaff(ident).Err(); err != nil {
		return Entry{}, err
	}
	if ident.IsProfessor() && e.ProfessorID != ident.UserID {
		return Entry{}, apperr.Forbidden("professors can only schedule their own classes")
	}
	return s.store.Create(ctx, e)
}

// Cancel marks the entry behind a natural key cancelled. A non-empty
// reason is required.
func (s *Service) Cancel(ctx context.Context, ident authz.Identity, key NaturalKey, reason string) (Entry, error) {
	if reason == "" {
		return Entry{}, apperr.InvalidInput("cancel_reason is required")
	}
	entry, err := s.ownedEntry(ctx, ident, key)
	if err != nil {
		return Entry{}, err
	}
	if err := s.store.SetCancelled(ctx, entry.ID, true, reason); err != nil {
		return Entry{}, err
	}
	entry.IsCancelled = true
	entry.CancelReason = reason
	return entry, nil
}

// Restore clears a cancellation. Restoring an entry that was never
// cancelled is a no-op success.
func (s *Service) Restore(ctx context.Context, ident authz.Identity, key NaturalKey) (Entry, error) {
	entry, err := s.ownedEntry(ctx, ident, key)
	if err != nil {
		return Entry{}, err
	}
	if err := s.store.SetCancelled(ctx, entry.ID, false, ""); err != nil {
		return Entry{}, err
	}
	entry.IsCancelled = false
	entry.CancelReason = ""
	return entry, nil
}

// Update patches an entry by id under the same ownership rule.
func (s *Service) Update(ctx context.Context, ident authz.Identity, id int64, p Patch) (Entry, error) {
	entry, err := s.store.ByID(ctx, id)
	if err != nil {
		return Entry{}, err
	}
	if err := s.gate.OwnSchedule(ident, entry.ProfessorID).Err(); err != nil {
		return Entry{}, err
	}
	return s.store.Update(ctx, id, p)
}

// Delete removes an entry by id under the same ownership rule.
func (s *Service) Delete(ctx context.Context, ident authz.Identity, id int64) error {
	entry, err := s.store.ByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.gate.OwnSchedule(ident, entry.ProfessorID).Err(); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

// Cancelled returns all cancelled entries.
func (s *Service) Cancelled(ctx context.Context, ident authz.Identity) ([]View, error) {
	if err := s.gate.CanAct(ident).Err(); err != nil {
		return nil, err
	}
	entries, err := s.store.Cancelled(ctx)
	if err != nil {
		return nil, err
	}
	return views(entries), nil
}

// NextClass returns the first scheduled slot for a class, nil when the
// class has no schedule.
func (s *Service) NextClass(ctx context.Context, ident authz.Identity, classID string) (*View, error) {
	if err := s.gate.CanAct(ident).Err(); err != nil {
		return nil, err
	}
	entry, err := s.store.FirstForClass(ctx, classID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, nil
		}
		return nil, err
	}
	v := NewView(entry)
	return &v, nil
}

func (s *Service) ownedEntry(ctx context.Context, ident authz.Identity, key NaturalKey) (Entry, error) {
	entry, err := s.store.ByNaturalKey(ctx, key)
	if err != nil {
		return Entry{}, err
	}
	if err := s.gate.OwnSchedule(ident, entry.ProfessorID).Err(); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

func views(entries []Entry) []View {
	out := make([]View, 0, len(entries))
	for _, e := range entries {
		out = append(out, NewView(e))
	}
	return out
}
