// Package httputil provides HTTP utility functions for request and response handling.
package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/cardauth/internal/errors"
)

// Detailer is implemented by domain errors that carry extra response fields,
// such as the remaining gate attempts or a lockout countdown.
type Detailer interface {
	Details() map[string]any
}

// HandleErrorGin maps domain errors to HTTP status codes and writes a JSON body of the
// form {"error": <message>, "code": <code>}. Only input errors expose their own text;
// everything else gets a fixed, safe message.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	var (
		statusCode int
		code       string
		message    string
	)

	switch {
	case apperrors.Is(err, apperrors.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		code = "invalid_input"
		message = err.Error()

	case apperrors.Is(err, apperrors.ErrNotFound):
		statusCode = http.StatusNotFound
		code = "not_found"
		message = "The requested resource was not found"

	case apperrors.Is(err, apperrors.ErrConflict):
		statusCode = http.StatusConflict
		code = "conflict"
		message = "A conflict occurred with existing data"

	case apperrors.Is(err, apperrors.ErrUnauthorized):
		statusCode = http.StatusUnauthorized
		code = "unauthorized"
		message = "Authentication is required"

	case apperrors.Is(err, apperrors.ErrLocked):
		statusCode = http.StatusLocked
		code = "locked"
		message = "Too many failed attempts, try again later"

	case apperrors.Is(err, apperrors.ErrForbidden):
		statusCode = http.StatusForbidden
		code = "forbidden"
		message = "You don't have permission to access this resource"

	default:
		statusCode = http.StatusInternalServerError
		code = "internal_error"
		message = "An internal error occurred, please retry"
	}

	body := gin.H{"error": message, "code": code}

	var detailer Detailer
	if apperrors.As(err, &detailer) {
		for k, v := range detailer.Details() {
			body[k] = v
		}
	}

	if logger != nil {
		// Validation failures are expected traffic, not system errors.
		level := slog.LevelError
		if statusCode < http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		logger.Log(c, level, "request failed",
			slog.Int("status_code", statusCode),
			slog.Any("error_code", body["code"]),
			slog.Any("error", err),
		)
	}

	c.JSON(statusCode, body)
}

// HandleBadRequestGin writes a 400 Bad Request response for malformed JSON or parameters.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("bad request", slog.Any("error", err))
	}

	c.JSON(http.StatusBadRequest, gin.H{
		"error": err.Error(),
		"code":  "bad_request",
	})
}

// HandleValidationErrorGin writes a 400 response carrying the validation message.
func HandleValidationErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("validation failed", slog.Any("error", err))
	}

	c.JSON(http.StatusBadRequest, gin.H{
		"error": err.Error(),
		"code":  "validation_error",
	})
}

// MakeJSONResponse writes body as JSON with the given status on a plain ResponseWriter.
func MakeJSONResponse(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}
