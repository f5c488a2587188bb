package httputil

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/cardauth/internal/errors"
)

// Page bounds for admin listings.
const (
	DefaultPageLimit = 25
	MaxPageLimit     = 100
)

var (
	// ErrInvalidOffset is returned for a negative or non-numeric offset.
	ErrInvalidOffset = apperrors.Wrap(apperrors.ErrInvalidInput, "offset must be a non-negative integer")

	// ErrInvalidLimit is returned for a limit outside [1, MaxPageLimit].
	ErrInvalidLimit = apperrors.Wrap(apperrors.ErrInvalidInput, "limit must be between 1 and 100")
)

// ParsePagination reads the offset and limit query parameters.
func ParsePagination(c *gin.Context) (offset, limit int, err error) {
	offset, err = queryInt(c, "offset", 0)
	if err != nil || offset < 0 {
		return 0, 0, ErrInvalidOffset
	}

	limit, err = queryInt(c, "limit", DefaultPageLimit)
	if err != nil || limit < 1 || limit > MaxPageLimit {
		return 0, 0, ErrInvalidLimit
	}

	return offset, limit, nil
}

func queryInt(c *gin.Context, key string, fallback int) (int, error) {
	raw, ok := c.GetQuery(key)
	if !ok {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
