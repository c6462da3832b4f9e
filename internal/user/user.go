// Package user implements the identity store: accounts keyed by the
// human-facing user id (USN for students, employee code for professors,
// admin code for admins).
package user

import "time"

// User is an account record. The password hash never serializes.
type User struct {
	ID           int64     `json:"id"`
	UserID       string    `json:"user_id"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Patch is a partial update; nil fields are left untouched.
type Patch struct {
	UserID   *string `json:"user_id"`
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}
