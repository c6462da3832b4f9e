package notification

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classroom/internal/apperr"
	"classroom/internal/authz"
	"classroom/internal/timetable"
)

type fakeStore struct {
	nextID int64
	rows   []Notification
}

func (f *fakeStore) Create(_ context.Context, n Notification) (Notification, error) {
	f.nextID++
	n.ID = f.nextID
	f.rows = append(f.rows, n)
	return n, nil
}

func (f *fakeStore) List(_ context.Context, fl Filter) ([]Notification, error) {
	var out []Notification
	for _, n := range f.rows {
		if fl.ClassID != "" && n.ClassID != fl.ClassID {
			continue
		}
		if fl.Type != "" && n.Type != fl.Type {
			continue
		}
		if fl.TargetUSN != "" && n.TargetUSN != fl.TargetUSN {
			continue
		}
		if fl.ViewerUSN != "" && n.TargetUSN != "" && n.TargetUSN != fl.ViewerUSN {
			continue
		}
		out = append(out, n)
		if fl.Limit > 0 && len(out) == fl.Limit {
			break
		}
	}
	return out, nil
}

func (f *fakeStore) ByID(_ context.Context, id int64) (Notification, error) {
	for _, n := range f.rows {
		if n.ID == id {
			return n, nil
		}
	}
	return Notification{}, apperr.NotFound("notification not found")
}

func (f *fakeStore) MarkRead(_ context.Context, id int64) (Notification, error) {
	for i, n := range f.rows {
		if n.ID == id {
			f.rows[i].IsRead = true
			return f.rows[i], nil
		}
	}
	return Notification{}, apperr.NotFound("notification not found")
}

func (f *fakeStore) Delete(_ context.Context, id int64) error {
	for i, n := range f.rows {
		if n.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("notification not found")
}

type fakeAssignments struct {
	entries []timetable.Entry
}

func (f *fakeAssignments) Assigned(_ context.Context, classID, subject, professorID string) (bool, error) {
	for _, e := range f.entries {
		if e.ClassID != classID || e.ProfessorID != professorID {
			continue
		}
		if subject == "" || e.Subject == subject {
			return true, nil
		}
	}
	return false, nil
}

func student(usn string) authz.Identity {
	return authz.Identity{UserID: usn, Role: authz.RoleStudent, Active: true}
}

func professor(id string) authz.Identity {
	return authz.Identity{UserID: id, Role: authz.RoleProfessor, Active: true}
}

func admin() authz.Identity {
	return authz.Identity{UserID: "ADM1", Role: authz.RoleAdmin, Active: true}
}

func newFixture() (*Service, *fakeStore) {
	store := &fakeStore{}
	gate := authz.NewGate(&fakeAssignments{entries: []timetable.Entry{
		{ClassID: "CS301", Subject: "Networks", ProfessorID: "PROF1"},
	}})
	return NewService(store, gate), store
}

func TestListStudentScoping(t *testing.T) {
	svc, store := newFixture()
	ctx := context.Background()
	store.rows = []Notification{
		{ID: 1, ClassID: "CS301", Type: TypeNotice, Title: "broadcast"},
		{ID: 2, ClassID: "CS301", Type: TypeNotice, Title: "mine", TargetUSN: "1MS21CS001"},
		{ID: 3, ClassID: "CS301", Type: TypeNotice, Title: "theirs", TargetUSN: "1MS21CS002"},
	}

	// A student sees broadcasts plus their own targeted rows; asking for
	// another student's target filter is ignored.
	out, err := svc.List(ctx, student("1MS21CS001"), Filter{TargetUSN: "1MS21CS002"})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "broadcast", out[0].Title)
	assert.Equal(t, "mine", out[1].Title)

	out, err = svc.List(ctx, admin(), Filter{})
	require.NoError(t, err)
	assert.Len(t, out, 3)
}

func TestCreateValidation(t *testing.T) {
	svc, store := newFixture()
	ctx := context.Background()

	_, err := svc.Create(ctx, professor("PROF1"), CreateInput{
		ClassID: "CS301", Type: "party", Title: "t", Message: "m",
	})
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))

	_, err = svc.Create(ctx, student("1MS21CS001"), CreateInput{
		ClassID: "CS301", Type: TypeNotice, Title: "t", Message: "m",
	})
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	// Professors post only to classes they hold an assignment for.
	_, err = svc.Create(ctx, professor("PROF2"), CreateInput{
		ClassID: "CS301", Type: TypeNotice, Title: "t", Message: "m",
	})
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	assert.Empty(t, store.rows)

	n, err := svc.Create(ctx, professor("PROF1"), CreateInput{
		ClassID: "CS301", Type: TypeCancellation, Title: "Class Cancelled", Message: "Networks cancelled",
		Metadata: &Metadata{Subject: "Networks", Date: "2024-03-04", Reason: "faculty leave"},
	})
	require.NoError(t, err)
	assert.NotZero(t, n.ID)
	require.NotNil(t, n.Metadata)
	assert.Equal(t, "faculty leave", n.Metadata.Reason)
}

func TestMarkRead(t *testing.T) {
	svc, store := newFixture()
	ctx := context.Background()
	store.rows = []Notification{
		{ID: 1, ClassID: "CS301", Type: TypeNotice, TargetUSN: "1MS21CS002"},
		{ID: 2, ClassID: "CS301", Type: TypeNotice},
	}
	store.nextID = 2

	_, err := svc.MarkRead(ctx, student("1MS21CS001"), 1)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	assert.False(t, store.rows[0].IsRead)

	n, err := svc.MarkRead(ctx, student("1MS21CS002"), 1)
	require.NoError(t, err)
	assert.True(t, n.IsRead)

	// Broadcasts are markable by anyone.
	n, err = svc.MarkRead(ctx, student("1MS21CS001"), 2)
	require.NoError(t, err)
	assert.True(t, n.IsRead)

	_, err = svc.MarkRead(ctx, admin(), 99)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestDeleteStaffOnly(t *testing.T) {
	svc, store := newFixture()
	ctx := context.Background()
	store.rows = []Notification{{ID: 1, ClassID: "CS301", Type: TypeNotice}}
	store.nextID = 1

	err := svc.Delete(ctx, student("1MS21CS001"), 1)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	assert.Len(t, store.rows, 1)

	err = svc.Delete(ctx, admin(), 99)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	require.NoError(t, svc.Delete(ctx, professor("PROF1"), 1))
	assert.Empty(t, store.rows)
}
