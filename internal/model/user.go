package model

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role is the fixed set of user roles. A user's role never changes after registration.
type Role string

const (
	// RoleLibrarian manages the catalog and the circulation desk.
	RoleLibrarian Role = "librarian"
	// RoleMember borrows books for themselves.
	RoleMember Role = "member"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleLibrarian || r == RoleMember
}

// ParseRole converts s into a Role. An empty string yields RoleMember.
func ParseRole(s string) (Role, error) {
	if s == "" {
		return RoleMember, nil
	}
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	Create(ctx context.Context, user User) (User, error)
}

// User represents a stored user with a hashed password.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash []byte
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is the authenticated caller handed to every core operation.
type Identity struct {
	UserID uuid.UUID
	Role   Role
}

// RegisterParams contains parameters to register a user.
type RegisterParams struct {
	Email    string
	Password string
	Role     string
}

// Session is the result of a successful registration or login.
type Session struct {
	User        User
	AccessToken string
}
