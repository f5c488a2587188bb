package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/allisson/cardauth/internal/audit/domain"
	"github.com/allisson/cardauth/internal/audit/http/dto"
	httpMocks "github.com/allisson/cardauth/internal/audit/http/mocks"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func createTestContext(method, target string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, nil)
	return c, w
}

func TestAccessLogHandler_ListHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Success_WithFilters", func(t *testing.T) {
		useCase := &httpMocks.MockAccessLogUseCase{}
		handler := NewAccessLogHandler(useCase, testLogger())

		authorizationID := uuid.Must(uuid.NewV7())
		from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
		expected := auditDomain.ListFilter{
			AuthorizationID: &authorizationID,
			Action:          auditDomain.ActionViewFullCardNumber,
			CreatedAtFrom:   &from,
		}
		logs := []*auditDomain.AccessLog{{
			ID:              uuid.Must(uuid.NewV7()),
			AuthorizationID: &authorizationID,
			Action:          auditDomain.ActionViewFullCardNumber,
		}}

		useCase.On("List", mock.Anything, 0, 25, expected).Return(logs, nil).Once()

		c, w := createTestContext(http.MethodGet,
			"/v1/admin/audit-logs?authorization_id="+authorizationID.String()+
				"&action=view_full_card_number&created_at_from=2026-02-01T00:00:00Z")
		handler.ListHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp dto.ListAccessLogsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 1)
		assert.Equal(t, "view_full_card_number", resp.Data[0].Action)
		useCase.AssertExpectations(t)
	})

	t.Run("Error_InvalidAction", func(t *testing.T) {
		useCase := &httpMocks.MockAccessLogUseCase{}
		handler := NewAccessLogHandler(useCase, testLogger())

		c, w := createTestContext(http.MethodGet, "/v1/admin/audit-logs?action=drop")
		handler.ListHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		useCase.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Error_InvertedRange", func(t *testing.T) {
		useCase := &httpMocks.MockAccessLogUseCase{}
		handler := NewAccessLogHandler(useCase, testLogger())

		c, w := createTestContext(http.MethodGet,
			"/v1/admin/audit-logs?created_at_from=2026-03-01T00:00:00Z&created_at_to=2026-02-01T00:00:00Z")
		handler.ListHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Error_InvalidLimit", func(t *testing.T) {
		useCase := &httpMocks.MockAccessLogUseCase{}
		handler := NewAccessLogHandler(useCase, testLogger())

		c, w := createTestContext(http.MethodGet, "/v1/admin/audit-logs?limit=1000")
		handler.ListHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Error_UseCase", func(t *testing.T) {
		useCase := &httpMocks.MockAccessLogUseCase{}
		handler := NewAccessLogHandler(useCase, testLogger())

		useCase.On("List", mock.Anything, 0, 25, auditDomain.ListFilter{}).
			Return(nil, errors.New("db down")).Once()

		c, w := createTestContext(http.MethodGet, "/v1/admin/audit-logs")
		handler.ListHandler(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
