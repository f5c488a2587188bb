// Package domain defines admin user accounts, roles and login tokens.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is the administrative level of a user. It is looked up from the store on every
// request and never taken from token claims alone.
type Role string

const (
	// RoleAdmin may unlock the disclosure gate and reveal full card data.
	RoleAdmin Role = "admin"

	// RoleStaff may sign in but is refused every card-data endpoint.
	RoleStaff Role = "staff"
)

// ParseRole validates a role name.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleAdmin, RoleStaff:
		return r, nil
	default:
		return "", ErrInvalidRole
	}
}

// User is an admin panel login.
type User struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Password  string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAdmin reports whether the user holds the administrative role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CreateUserInput carries the fields needed to create a user.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     Role
}

// LoginInput carries email and password credentials.
type LoginInput struct {
	Email    string
	Password string
}

// IssuedToken is a signed bearer token and its expiry.
type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
}
