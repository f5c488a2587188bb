// Package http serves the access log listing.
package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	auditDomain "github.com/allisson/cardauth/internal/audit/domain"
	"github.com/allisson/cardauth/internal/audit/http/dto"
	auditUseCase "github.com/allisson/cardauth/internal/audit/usecase"
	"github.com/allisson/cardauth/internal/httputil"
)

// AccessLogHandler handles access log requests.
type AccessLogHandler struct {
	useCase auditUseCase.AccessLogUseCase
	logger  *slog.Logger
}

// NewAccessLogHandler creates a new AccessLogHandler.
func NewAccessLogHandler(useCase auditUseCase.AccessLogUseCase, logger *slog.Logger) *AccessLogHandler {
	return &AccessLogHandler{
		useCase: useCase,
		logger:  logger,
	}
}

// ListHandler lists access log entries newest first.
// GET /v1/admin/audit-logs?offset=0&limit=25&authorization_id=&action=&created_at_from=&created_at_to=
// Time bounds are RFC3339 and inclusive.
func (h *AccessLogHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	filter, err := parseFilter(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	logs, err := h.useCase.List(c.Request.Context(), offset, limit, filter)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAccessLogsToListResponse(logs))
}

func parseFilter(c *gin.Context) (auditDomain.ListFilter, error) {
	var filter auditDomain.ListFilter

	if raw := c.Query("authorization_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, fmt.Errorf("invalid authorization_id: must be a UUID")
		}
		filter.AuthorizationID = &id
	}

	if raw := c.Query("action"); raw != "" {
		action := auditDomain.Action(raw)
		if !action.Valid() {
			return filter, fmt.Errorf("invalid action %q", raw)
		}
		filter.Action = action
	}

	var err error
	if filter.CreatedAtFrom, err = parseTime(c, "created_at_from"); err != nil {
		return filter, err
	}
	if filter.CreatedAtTo, err = parseTime(c, "created_at_to"); err != nil {
		return filter, err
	}

	if filter.CreatedAtFrom != nil && filter.CreatedAtTo != nil && filter.CreatedAtFrom.After(*filter.CreatedAtTo) {
		return filter, fmt.Errorf("created_at_from must be before or equal to created_at_to")
	}

	return filter, nil
}

func parseTime(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s format: must be RFC3339 (e.g., 2026-02-01T00:00:00Z)", name)
	}
	utc := parsed.UTC()
	return &utc, nil
}
