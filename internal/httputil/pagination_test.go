package httputil_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/allisson/cardauth/internal/errors"
	"github.com/allisson/cardauth/internal/httputil"
)

func paginationContext(target string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c
}

func TestParsePagination_Accepted(t *testing.T) {
	cases := map[string][2]int{
		"/v1/admin/authorizations":                    {0, httputil.DefaultPageLimit},
		"/v1/admin/authorizations?offset=50&limit=10": {50, 10},
		"/v1/admin/audit-logs?limit=100":              {0, httputil.MaxPageLimit},
	}

	for target, want := range cases {
		offset, limit, err := httputil.ParsePagination(paginationContext(target))
		assert.NoError(t, err, target)
		assert.Equal(t, want[0], offset, target)
		assert.Equal(t, want[1], limit, target)
	}
}

func TestParsePagination_Rejected(t *testing.T) {
	cases := map[string]error{
		"/?offset=-1":  httputil.ErrInvalidOffset,
		"/?offset=two": httputil.ErrInvalidOffset,
		"/?offset=":    httputil.ErrInvalidOffset,
		"/?limit=0":    httputil.ErrInvalidLimit,
		"/?limit=101":  httputil.ErrInvalidLimit,
		"/?limit=all":  httputil.ErrInvalidLimit,
	}

	for target, want := range cases {
		offset, limit, err := httputil.ParsePagination(paginationContext(target))
		assert.ErrorIs(t, err, want, target)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput, target)
		assert.Zero(t, offset)
		assert.Zero(t, limit)
	}
}
