package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	provider, err := NewProvider("test_app")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	router := gin.New()
	router.Use(HTTPMetricsMiddleware(provider.MeterProvider(), "test_app"))
	router.GET("/v1/admin/authorizations/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
	})
	router.POST("/v1/authorizations", func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing field"})
	})

	for _, path := range []string{"/v1/admin/authorizations/1", "/v1/admin/authorizations/2"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/authorizations", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	provider.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	output := w.Body.String()

	assertBizMetricLine(t, output, `test_app_http_requests_total`,
		`method="GET".*route="/v1/admin/authorizations/:id".*status_code="200"`, `2`)
	assertBizMetricLine(t, output, `test_app_http_requests_total`,
		`method="POST".*route="/v1/authorizations".*status_code="400"`, `1`)
	assertBizMetricLine(t, output, `test_app_http_requests_total`,
		`route="unmatched".*status_code="404"`, `1`)
}

func TestRouteLabel(t *testing.T) {
	assert.Equal(t, "/v1/admin/authorizations/:id", routeLabel("/v1/admin/authorizations/:id"))
	assert.Equal(t, "unmatched", routeLabel(""))
}
