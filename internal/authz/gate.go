// Package authz is the single authorization gate: every request-scoped
// role and ownership rule lives here, evaluated against the verified
// caller identity.
package authz

import (
	"context"

	"classroom/internal/apperr"
)

// Roles known to the system.
const (
	RoleStudent   = "student"
	RoleProfessor = "professor"
	RoleAdmin     = "admin"
)

// AllRoles is the static role enumeration exposed by the API.
var AllRoles = []string{RoleStudent, RoleProfessor, RoleAdmin}

// ValidRole reports whether r is a known role.
func ValidRole(r string) bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}

// Identity is the verified caller: token claims plus the store-backed
// active flag.
type Identity struct {
	UserID string
	Role   string
	Active bool
}

func (i Identity) IsStudent() bool   { return i.Role == RoleStudent }
func (i Identity) IsProfessor() bool { return i.Role == RoleProfessor }
func (i Identity) IsAdmin() bool     { return i.Role == RoleAdmin }
func (i Identity) IsStaff() bool     { return i.IsProfessor() || i.IsAdmin() }

// Decision is the gate's tagged outcome. A denied decision carries the
// reason; an allowed one may narrow the query scope to a single student.
type Decision struct {
	Allowed  bool
	Reason   string
	ScopeUSN string
}

func allow() Decision                 { return Decision{Allowed: true} }
func scopedTo(usn string) Decision    { return Decision{Allowed: true, ScopeUSN: usn} }
func forbid(reason string) Decision   { return Decision{Reason: reason} }
func inactive() Decision              { return Decision{Reason: "inactive account"} }

// Err translates a denied decision into a tagged error, nil when allowed.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	if d.Reason == "inactive account" {
		return apperr.InactiveAccount()
	}
	return apperr.Forbidden(d.Reason)
}

// AssignmentChecker probes the schedule store for a professor's
// class/subject assignment. An empty subject matches any subject taught
// in the class.
type AssignmentChecker interface {
	Assigned(ctx context.Context, classID, subject, professorID string) (bool, error)
}

// Gate evaluates role and ownership rules. Stateless per request.
type Gate struct {
	assignments AssignmentChecker
}

func NewGate(assignments AssignmentChecker) *Gate {
	return &Gate{assignments: assignments}
}

// CanAct rejects inactive accounts regardless of role.
func (g *Gate) CanAct(id Identity) Decision {
	if !id.Active {
		return inactive()
	}
	return allow()
}

// ReadRecords scopes list reads. Students are always pinned to their own
// records; a student-supplied filter for another student is silently
// ignored rather than rejected.
func (g *Gate) ReadRecords(id Identity, requestedUSN string) Decision {
	if d := g.CanAct(id); !d.Allowed {
		return d
	}
	if id.IsStudent() {
		return scopedTo(id.UserID)
	}
	if requestedUSN != "" {
		return scopedTo(requestedUSN)
	}
	return allow()
}

// ViewStudent guards endpoints addressed at an explicit student. Unlike
// list filters this is an error, not a silent rescope.
func (g *Gate) ViewStudent(id Identity, usn string) Decision {
	if d := g.CanAct(id); !d.Allowed {
		return d
	}
	if id.IsStudent() && id.UserID != usn {
		return forbid("students can only view their own records")
	}
	return allow()
}

// RequireRole admits only the listed roles.
func (g *Gate) RequireRole(id Identity, roles ...string) Decision {
	if d := g.CanAct(id); !d.Allowed {
		return d
	}
	for _, r := range roles {
		if id.Role == r {
			return allow()
		}
	}
	return forbid("insufficient permissions")
}

// RequireStaff admits professors and admins.
func (g *Gate) RequireStaff(id Identity) Decision {
	return g.RequireRole(id, RoleProfessor, RoleAdmin)
}

// RequireAdmin admits admins only.
func (g *Gate) RequireAdmin(id Identity) Decision {
	return g.RequireRole(id, RoleAdmin)
}

// MutateClass authorizes a mutation against a class/subject pairing.
// Admins pass unconditionally; professors must hold a timetable
// assignment for the pairing. The probe runs before any write.
func (g *Gate) MutateClass(ctx context.Context, id Identity, classID, subject string) (Decision, error) {
	if d := g.RequireStaff(id); !d.Allowed {
		return d, nil
	}
	if id.IsAdmin() {
		return allow(), nil
	}
	ok, err := g.assignments.Assigned(ctx, classID, subject, id.UserID)
	if err != nil {
		return Decision{}, apperr.Internal(err)
	}
	if !ok {
		return forbid("professors can only act on their assigned classes"), nil
	}
	return allow(), nil
}

// OwnSchedule authorizes a mutation of a timetable entry already known
// to exist. Existence is the caller's concern; ownership only is judged
// here so not-found is reported before forbidden.
func (g *Gate) OwnSchedule(id Identity, professorID string) Decision {
	if d := g.RequireStaff(id); !d.Allowed {
		return d
	}
	if id.IsAdmin() || id.UserID == professorID {
		return allow()
	}
	return forbid("professors can only modify their own classes")
}

// DeleteUser lets admins delete any account except their own.
func (g *Gate) DeleteUser(id Identity, targetUserID string) Decision {
	if d := g.RequireAdmin(id); !d.Allowed {
		return d
	}
	if id.UserID == targetUserID {
		return forbid("admins cannot delete their own account")
	}
	return allow()
}
