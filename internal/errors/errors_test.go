package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type lockoutError struct {
	seconds int
}

func (e *lockoutError) Error() string { return fmt.Sprintf("locked for %ds", e.seconds) }
func (e *lockoutError) Unwrap() error { return ErrLocked }

func TestWrap(t *testing.T) {
	err := Wrap(ErrInvalidInput, "cvv must be 3 or 4 digits")
	assert.EqualError(t, err, "cvv must be 3 or 4 digits: invalid input")
	assert.True(t, Is(err, ErrInvalidInput))
	assert.False(t, Is(err, ErrNotFound))

	assert.NoError(t, Wrap(nil, "ignored"))
}

func TestWrapf(t *testing.T) {
	err := Wrapf(ErrNotFound, "authorization %s", "0192e0a4")
	assert.EqualError(t, err, "authorization 0192e0a4: not found")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, Wrapf(nil, "ignored %d", 1))
}

func TestNew(t *testing.T) {
	err := New("audit log signature mismatch")
	assert.EqualError(t, err, "audit log signature mismatch")
	assert.False(t, Is(err, ErrInvalidInput))
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{ErrNotFound, ErrConflict, ErrInvalidInput, ErrUnauthorized, ErrForbidden, ErrLocked}
	for i, a := range sentinels {
		for j, b := range sentinels {
			assert.Equal(t, i == j, Is(a, b), "%v vs %v", a, b)
		}
	}
}

func TestAs(t *testing.T) {
	err := Wrap(&lockoutError{seconds: 300}, "gate verification")

	var locked *lockoutError
	assert.True(t, As(err, &locked))
	assert.Equal(t, 300, locked.seconds)
	assert.True(t, Is(err, ErrLocked))

	var other *lockoutError
	assert.False(t, As(errors.New("plain"), &other))
	assert.Nil(t, other)
}
