package user

import (
	"context"

	"classroom/internal/apperr"
	"classroom/internal/auth"
	"classroom/internal/authz"
)

// Store is the persistence surface the service needs.
type Store interface {
	Create(ctx context.Context, u User) (User, error)
	ByUserID(ctx context.Context, userID string) (User, error)
	ByID(ctx context.Context, id int64) (User, error)
	List(ctx context.Context, limit, offset int) ([]User, error)
	Update(ctx context.Context, id int64, p Patch) (User, error)
	Delete(ctx context.Context, id int64) error
	SetPassword(ctx context.Context, id int64, hash string) error
}

// RegisterInput is the registration payload.
type RegisterInput struct {
	UserID   string `json:"user_id" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Service owns account lifecycle and credential checks.
type Service struct {
	store Store
	gate  *authz.Gate
}

// NewService creates a service backed by a store.
func NewService(store Store, gate *authz.Gate) *Service {
	return &Service{store: store, gate: gate}
}

// Register creates a new account. Role defaults to student.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	if in.Role == "" {
		in.Role = authz.RoleStudent
	}
	if !authz.ValidRole(in.Role) {
		return User{}, apperr.InvalidInput("unknown role: " + in.Role)
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return User{}, apperr.Internal(err)
	}
	return s.store.Create(ctx, User{
		UserID:       in.UserID,
		FullName:     in.FullName,
		Email:        in.Email,
		Role:         in.Role,
		PasswordHash: hash,
	})
}

// Authenticate verifies credentials. Unknown user and bad password
// collapse into one error; an inactive account is reported distinctly.
func (s *Service) Authenticate(ctx context.Context, userID, password string) (User, error) {
	u, err := s.store.ByUserID(ctx, userID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return User{}, apperr.Unauthenticated("incorrect user id or password")
		}
		return User{}, err
	}
	if err := auth.CheckPassword(u.PasswordHash, password); err != nil {
		return User{}, apperr.Unauthenticated("incorrect user id or password")
	}
	if !u.IsActive {
		return User{}, apperr.InactiveAccount()
	}
	return u, nil
}

// Account implements auth.AccountSource for the token middleware.
func (s *Service) Account(ctx context.Context, userID string) (string, bool, error) {
	u, err := s.store.ByUserID(ctx, userID)
	if err != nil {
		return "", false, err
	}
	return u.Role, u.IsActive, nil
}

// Get returns the account behind an external identifier.
func (s *Service) Get(ctx context.Context, userID string) (User, error) {
	return s.store.ByUserID(ctx, userID)
}

// List returns accounts, admin only.
func (s *Service) List(ctx context.Context, ident authz.Identity, limit, offset int) ([]User, error) {
	if err := s.gate.RequireAdmin(ident).Err(); err != nil {
		return nil, err
	}
	return s.store.List(ctx, limit, offset)
}

// Update patches an account, admin only. Role changes happen only here.
func (s *Service) Update(ctx context.Context, ident authz.Identity, id int64, p Patch) (User, error) {
	if err := s.gate.RequireAdmin(ident).Err(); err != nil {
		return User{}, err
	}
	if p.Role != nil && !authz.ValidRole(*p.Role) {
		return User{}, apperr.InvalidInput("unknown role: " + *p.Role)
	}
	return s.store.Update(ctx, id, p)
}

// Delete removes an account, admin only; self-deletion is refused.
func (s *Service) Delete(ctx context.Context, ident authz.Identity, id int64) error {
	target, err := s.store.ByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.gate.DeleteUser(ident, target.UserID).Err(); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

// ChangePassword verifies the current password before replacing it.
func (s *Service) ChangePassword(ctx context.Context, ident authz.Identity, current, next string) error {
	u, err := s.store.ByUserID(ctx, ident.UserID)
	if err != nil {
		return err
	}
	if err := auth.CheckPassword(u.PasswordHash, current); err != nil {
		return apperr.InvalidInput("incorrect current password")
	}
	hash, err := auth.HashPassword(next)
	if err != nil {
		return apperr.Internal(err)
	}
	return s.store.SetPassword(ctx, u.ID, hash)
}

// ResetPassword force-sets a password, admin only.
func (s *Service) ResetPassword(ctx context.Context, ident authz.Identity, userID, next string) error {
	if err := s.gate.RequireAdmin(ident).Err(); err != nil {
		return err
	}
	u, err := s.store.ByUserID(ctx, userID)
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(next)
	if err != nil {
		return apperr.Internal(err)
	}
	return s.store.SetPassword(ctx, u.ID, hash)
}
