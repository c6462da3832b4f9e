package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classroom/internal/apperr"
	"classroom/internal/authz"
)

// fakeStore mirrors the database defaults: new accounts start active.
type fakeStore struct {
	nextID int64
	users  []User
}

func (f *fakeStore) Create(_ context.Context, u User) (User, error) {
	for _, existing := range f.users {
		if existing.UserID == u.UserID || (u.Email != "" && existing.Email == u.Email) {
			return User{}, apperr.Conflict("user id or email already registered")
		}
	}
	f.nextID++
	u.ID = f.nextID
	u.IsActive = true
	f.users = append(f.users, u)
	return u, nil
}

func (f *fakeStore) ByUserID(_ context.Context, userID string) (User, error) {
	for _, u := range f.users {
		if u.UserID == userID {
			return u, nil
		}
	}
	return User{}, apperr.NotFound("user not found")
}

func (f *fakeStore) ByID(_ context.Context, id int64) (User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return User{}, apperr.NotFound("user not found")
}

func (f *fakeStore) List(_ context.Context, limit, offset int) ([]User, error) {
	if offset >= len(f.users) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.users) {
		end = len(f.users)
	}
	return f.users[offset:end], nil
}

func (f *fakeStore) Update(_ context.Context, id int64, p Patch) (User, error) {
	for i, u := range f.users {
		if u.ID != id {
			continue
		}
		if p.FullName != nil {
			f.users[i].FullName = *p.FullName
		}
		if p.Role != nil {
			f.users[i].Role = *p.Role
		}
		if p.IsActive != nil {
			f.users[i].IsActive = *p.IsActive
		}
		return f.users[i], nil
	}
	return User{}, apperr.NotFound("user not found")
}

func (f *fakeStore) Delete(_ context.Context, id int64) error {
	for i, u := range f.users {
		if u.ID == id {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("user not found")
}

func (f *fakeStore) SetPassword(_ context.Context, id int64, hash string) error {
	for i, u := range f.users {
		if u.ID == id {
			f.users[i].PasswordHash = hash
			return nil
		}
	}
	return apperr.NotFound("user not found")
}

func adminIdent() authz.Identity {
	return authz.Identity{UserID: "ADM1", Role: authz.RoleAdmin, Active: true}
}

func newFixture() (*Service, *fakeStore) {
	store := &fakeStore{}
	return NewService(store, authz.NewGate(nil)), store
}

func TestRegisterDefaultsToStudent(t *testing.T) {
	svc, _ := newFixture()
	u, err := svc.Register(context.Background(), RegisterInput{
		UserID: "1MS21CS001", Password: "secret123", FullName: "Anil Kumar",
	})
	require.NoError(t, err)
	assert.Equal(t, authz.RoleStudent, u.Role)
	assert.True(t, u.IsActive)
	assert.NotEmpty(t, u.PasswordHash)
	assert.NotEqual(t, "secret123", u.PasswordHash)
}

func TestRegisterUnknownRole(t *testing.T) {
	svc, _ := newFixture()
	_, err := svc.Register(context.Background(), RegisterInput{
		UserID: "X1", Password: "secret123", Role: "superuser",
	})
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
}

func TestRegisterDuplicate(t *testing.T) {
	svc, _ := newFixture()
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterInput{UserID: "1MS21CS001", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{UserID: "1MS21CS001", Password: "other456"})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newFixture()
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterInput{UserID: "1MS21CS001", Password: "secret123"})
	require.NoError(t, err)

	u, err := svc.Authenticate(ctx, "1MS21CS001", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "1MS21CS001", u.UserID)

	// Unknown user and wrong password collapse into one message so the
	// response does not leak which part was wrong.
	_, err = svc.Authenticate(ctx, "1MS21CS001", "wrong")
	assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
	wrongPass := apperr.Message(err)

	_, err = svc.Authenticate(ctx, "nobody", "secret123")
	assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
	assert.Equal(t, wrongPass, apperr.Message(err))
}

func TestAuthenticateInactive(t *testing.T) {
	svc, store := newFixture()
	ctx := context.Background()
	u, err := svc.Register(ctx, RegisterInput{UserID: "1MS21CS001", Password: "secret123"})
	require.NoError(t, err)

	inactive := false
	_, err = store.Update(ctx, u.ID, Patch{IsActive: &inactive})
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "1MS21CS001", "secret123")
	assert.Equal(t, apperr.KindInactiveAccount, apperr.KindOf(err))
}

func TestListAdminOnly(t *testing.T) {
	svc, _ := newFixture()
	ctx := context.Background()

	_, err := svc.List(ctx, authz.Identity{UserID: "PROF1", Role: authz.RoleProfessor, Active: true}, 10, 0)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	_, err = svc.List(ctx, adminIdent(), 10, 0)
	require.NoError(t, err)
}

func TestUpdateRoleValidation(t *testing.T) {
	svc, _ := newFixture()
	ctx := context.Background()
	u, err := svc.Register(ctx, RegisterInput{UserID: "1MS21CS001", Password: "secret123"})
	require.NoError(t, err)

	bad := "superuser"
	_, err = svc.Update(ctx, adminIdent(), u.ID, Patch{Role: &bad})
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))

	prof := authz.RoleProfessor
	updated, err := svc.Update(ctx, adminIdent(), u.ID, Patch{Role: &prof})
	require.NoError(t, err)
	assert.Equal(t, authz.RoleProfessor, updated.Role)
}

func TestDeleteSelfRefused(t *testing.T) {
	svc, store := newFixture()
	ctx := context.Background()
	admin, err := svc.Register(ctx, RegisterInput{UserID: "ADM1", Password: "secret123", Role: authz.RoleAdmin})
	require.NoError(t, err)
	other, err := svc.Register(ctx, RegisterInput{UserID: "1MS21CS001", Password: "secret123"})
	require.NoError(t, err)

	err = svc.Delete(ctx, adminIdent(), admin.ID)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	assert.Len(t, store.users, 2)

	require.NoError(t, svc.Delete(ctx, adminIdent(), other.ID))
	assert.Len(t, store.users, 1)

	err = svc.Delete(ctx, adminIdent(), 99)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestChangePassword(t *testing.T) {
	svc, _ := newFixture()
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterInput{UserID: "1MS21CS001", Password: "secret123"})
	require.NoError(t, err)
	ident := authz.Identity{UserID: "1MS21CS001", Role: authz.RoleStudent, Active: true}

	err = svc.ChangePassword(ctx, ident, "wrong", "newpass99")
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))

	require.NoError(t, svc.ChangePassword(ctx, ident, "secret123", "newpass99"))

	_, err = svc.Authenticate(ctx, "1MS21CS001", "newpass99")
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, "1MS21CS001", "secret123")
	require.Error(t, err)
}

func TestResetPassword(t *testing.T) {
	svc, _ := newFixture()
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterInput{UserID: "1MS21CS001", Password: "secret123"})
	require.NoError(t, err)

	err = svc.ResetPassword(ctx, authz.Identity{UserID: "PROF1", Role: authz.RoleProfessor, Active: true}, "1MS21CS001", "forced99")
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	require.NoError(t, svc.ResetPassword(ctx, adminIdent(), "1MS21CS001", "forced99"))
	_, err = svc.Authenticate(ctx, "1MS21CS001", "forced99")
	require.NoError(t, err)
}
