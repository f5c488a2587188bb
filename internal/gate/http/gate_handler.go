// Package http serves the disclosure gate endpoints and the middleware that enforces an unlock.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authHTTP "github.com/allisson/cardauth/internal/auth/http"
	apperrors "github.com/allisson/cardauth/internal/errors"
	gateDomain "github.com/allisson/cardauth/internal/gate/domain"
	"github.com/allisson/cardauth/internal/gate/http/dto"
	gateUseCase "github.com/allisson/cardauth/internal/gate/usecase"
	"github.com/allisson/cardauth/internal/httputil"
	customValidation "github.com/allisson/cardauth/internal/validation"
)

// GateHandler handles disclosure gate requests. Routes sit behind authentication and the admin role.
type GateHandler struct {
	useCase gateUseCase.GateUseCase
	logger  *slog.Logger
}

// NewGateHandler creates a new GateHandler.
func NewGateHandler(useCase gateUseCase.GateUseCase, logger *slog.Logger) *GateHandler {
	return &GateHandler{
		useCase: useCase,
		logger:  logger,
	}
}

// VerifyHandler checks the gate password hash and unlocks the caller's session.
// POST /v1/admin/gate/verify
func (h *GateHandler) VerifyHandler(c *gin.Context) {
	user, ok := authHTTP.GetUser(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	session, err := h.useCase.Verify(c.Request.Context(), &gateDomain.VerifyInput{
		PasswordHash: req.PasswordHash,
		UserID:       user.ID,
		UserEmail:    user.Email,
		IPAddress:    httputil.ClientIP(c),
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSessionToResponse(session))
}

// SessionHandler reports whether the caller's gate session is unlocked.
// GET /v1/admin/gate/session
func (h *GateHandler) SessionHandler(c *gin.Context) {
	user, ok := authHTTP.GetUser(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	session, err := h.useCase.CheckSession(c.Request.Context(), user.ID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSessionToResponse(session))
}

// GateMiddleware lets a request through only while the caller's gate session is unlocked.
// Otherwise it aborts with 403 and code gate_locked.
func GateMiddleware(useCase gateUseCase.GateUseCase, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := authHTTP.GetUser(c.Request.Context())
		if !ok {
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		session, err := useCase.CheckSession(c.Request.Context(), user.ID)
		if err != nil {
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		if !session.Unlocked {
			httputil.HandleErrorGin(c, gateDomain.ErrSessionRequired, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}
