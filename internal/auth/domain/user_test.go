package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/cardauth/internal/errors"
)

func TestParseRole(t *testing.T) {
	role, err := ParseRole("admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, role)

	role, err = ParseRole("staff")
	require.NoError(t, err)
	assert.Equal(t, RoleStaff, role)

	_, err = ParseRole("root")
	assert.ErrorIs(t, err, ErrInvalidRole)
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestUser_IsAdmin(t *testing.T) {
	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
	assert.False(t, (&User{Role: RoleStaff}).IsAdmin())
}

func TestErrors(t *testing.T) {
	assert.ErrorIs(t, ErrInvalidCredentials, errors.ErrUnauthorized)
	assert.ErrorIs(t, ErrAdminRequired, errors.ErrForbidden)
	assert.ErrorIs(t, ErrUserNotFound, errors.ErrNotFound)
	assert.ErrorIs(t, ErrUserAlreadyExists, errors.ErrConflict)
}
