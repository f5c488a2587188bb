package domain

import (
	"github.com/allisson/cardauth/internal/errors"
)

var (
	// ErrUserNotFound indicates no user matches the lookup.
	ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")

	// ErrUserAlreadyExists indicates the email is already registered.
	ErrUserAlreadyExists = errors.Wrap(errors.ErrConflict, "user already exists")

	// ErrInvalidCredentials covers unknown emails, wrong passwords and bad tokens alike.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrAdminRequired indicates an authenticated user without the admin role.
	ErrAdminRequired = errors.Wrap(errors.ErrForbidden, "admin role required")

	// ErrInvalidRole indicates an unknown role name.
	ErrInvalidRole = errors.Wrap(errors.ErrInvalidInput, "role must be admin or staff")
)
