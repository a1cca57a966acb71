// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Role represents a user's permission level in the system.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleSubadmin Role = "subadmin"
	RoleUser     Role = "user"
)

// User represents a platform user with authentication and 2FA fields.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize the hash
	DisplayName  string    `json:"name"`
	Role         Role      `json:"role"`
	TOTPSecret   *string   `json:"-"` // Nullable; set during 2FA setup
	TOTPEnabled  bool      `json:"totpEnabled"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// IsElevated returns true if the user can manage content (admin or subadmin).
func (u *User) IsElevated() bool {
	return u.Role == RoleAdmin || u.Role == RoleSubadmin
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// AuthorRef is the projection of a user embedded in blog responses.
// It carries only public-safe fields.
type AuthorRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// Ref returns the public-safe projection of the user.
func (u *User) Ref() *AuthorRef {
	return &AuthorRef{ID: u.ID, Name: u.DisplayName, Email: u.Email}
}
