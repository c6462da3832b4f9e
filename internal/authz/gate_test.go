package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classroom/internal/apperr"
)

type fakeAssignments struct {
	assigned map[string]bool // classID|subject|professorID
	err      error
}

func (f *fakeAssignments) Assigned(_ context.Context, classID, subject, professorID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.assigned[classID+"|"+subject+"|"+professorID], nil
}

func student(usn string) Identity   { return Identity{UserID: usn, Role: RoleStudent, Active: true} }
func professor(id string) Identity  { return Identity{UserID: id, Role: RoleProfessor, Active: true} }
func adminIdent(id string) Identity { return Identity{UserID: id, Role: RoleAdmin, Active: true} }

func TestCanActInactive(t *testing.T) {
	g := NewGate(nil)
	for _, role := range AllRoles {
		d := g.CanAct(Identity{UserID: "U1", Role: role})
		assert.False(t, d.Allowed, role)
		assert.Equal(t, apperr.KindInactiveAccount, apperr.KindOf(d.Err()), role)
	}
}

func TestReadRecordsScoping(t *testing.T) {
	g := NewGate(nil)

	// A student is pinned to their own records even when asking for
	// somebody else; the foreign filter is ignored, not rejected.
	d := g.ReadRecords(student("1MS21CS001"), "1MS21CS099")
	require.True(t, d.Allowed)
	assert.Equal(t, "1MS21CS001", d.ScopeUSN)

	d = g.ReadRecords(professor("PROF1"), "1MS21CS099")
	require.True(t, d.Allowed)
	assert.Equal(t, "1MS21CS099", d.ScopeUSN)

	d = g.ReadRecords(adminIdent("ADM1"), "")
	require.True(t, d.Allowed)
	assert.Empty(t, d.ScopeUSN)
}

func TestViewStudent(t *testing.T) {
	g := NewGate(nil)

	assert.True(t, g.ViewStudent(student("1MS21CS001"), "1MS21CS001").Allowed)

	d := g.ViewStudent(student("1MS21CS001"), "1MS21CS099")
	assert.False(t, d.Allowed)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(d.Err()))

	assert.True(t, g.ViewStudent(professor("PROF1"), "1MS21CS099").Allowed)
}

func TestRequireRole(t *testing.T) {
	g := NewGate(nil)

	assert.True(t, g.RequireStaff(professor("PROF1")).Allowed)
	assert.True(t, g.RequireStaff(adminIdent("ADM1")).Allowed)
	assert.False(t, g.RequireStaff(student("1MS21CS001")).Allowed)

	assert.True(t, g.RequireAdmin(adminIdent("ADM1")).Allowed)
	assert.False(t, g.RequireAdmin(professor("PROF1")).Allowed)
}

func TestMutateClass(t *testing.T) {
	assignments := &fakeAssignments{assigned: map[string]bool{
		"CS301|Networks|PROF1": true,
		"CS301||PROF1":         true,
	}}
	g := NewGate(assignments)
	ctx := context.Background()

	// Admins pass without an assignment probe.
	d, err := g.MutateClass(ctx, adminIdent("ADM1"), "EC999", "Anything")
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	d, err = g.MutateClass(ctx, professor("PROF1"), "CS301", "Networks")
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	d, err = g.MutateClass(ctx, professor("PROF2"), "CS301", "Networks")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(d.Err()))

	d, err = g.MutateClass(ctx, student("1MS21CS001"), "CS301", "Networks")
	require.NoError(t, err)
	assert.False(t, d.Allowed)

	// Empty subject matches any subject taught in the class.
	d, err = g.MutateClass(ctx, professor("PROF1"), "CS301", "")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestMutateClassProbeFailure(t *testing.T) {
	g := NewGate(&fakeAssignments{err: assert.AnError})
	_, err := g.MutateClass(context.Background(), professor("PROF1"), "CS301", "Networks")
	require.Error(t, err)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
}

func TestOwnSchedule(t *testing.T) {
	g := NewGate(nil)

	assert.True(t, g.OwnSchedule(professor("PROF1"), "PROF1").Allowed)
	assert.False(t, g.OwnSchedule(professor("PROF1"), "PROF2").Allowed)
	assert.True(t, g.OwnSchedule(adminIdent("ADM1"), "PROF2").Allowed)
	assert.False(t, g.OwnSchedule(student("1MS21CS001"), "PROF1").Allowed)
}

func TestDeleteUser(t *testing.T) {
	g := NewGate(nil)

	assert.True(t, g.DeleteUser(adminIdent("ADM1"), "U2").Allowed)

	d := g.DeleteUser(adminIdent("ADM1"), "ADM1")
	assert.False(t, d.Allowed)
	assert.Equal(t, "admins cannot delete their own account", d.Reason)

	assert.False(t, g.DeleteUser(professor("PROF1"), "U2").Allowed)
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole("student"))
	assert.True(t, ValidRole("professor"))
	assert.True(t, ValidRole("admin"))
	assert.False(t, ValidRole("superuser"))
	assert.False(t, ValidRole(""))
}
