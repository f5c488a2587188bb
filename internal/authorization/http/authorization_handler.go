// Package http serves public authorization capture and the admin read and disclosure endpoints.
package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/allisson/cardauth/internal/auth/http"
	authorizationDomain "github.com/allisson/cardauth/internal/authorization/domain"
	"github.com/allisson/cardauth/internal/authorization/http/dto"
	authorizationUseCase "github.com/allisson/cardauth/internal/authorization/usecase"
	apperrors "github.com/allisson/cardauth/internal/errors"
	"github.com/allisson/cardauth/internal/httputil"
	customValidation "github.com/allisson/cardauth/internal/validation"
)

var errInvalidAuthorizationID = errors.New("invalid authorization ID format: must be a valid UUID")

// AuthorizationHandler handles authorization requests.
type AuthorizationHandler struct {
	useCase authorizationUseCase.AuthorizationUseCase
	logger  *slog.Logger
}

// NewAuthorizationHandler creates a new AuthorizationHandler.
func NewAuthorizationHandler(
	useCase authorizationUseCase.AuthorizationUseCase,
	logger *slog.Logger,
) *AuthorizationHandler {
	return &AuthorizationHandler{
		useCase: useCase,
		logger:  logger,
	}
}

// SubmitHandler captures a card authorization.
// POST /v1/authorizations - public, rate limited per client IP.
// Returns 200 OK with {success, confirmationNumber}.
func (h *AuthorizationHandler) SubmitHandler(c *gin.Context) {
	var req dto.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	authorization, err := h.useCase.Submit(c.Request.Context(), req.ToDomain(httputil.ClientIP(c)))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.SubmitResponse{
		Success:            true,
		ConfirmationNumber: authorization.ConfirmationNumber,
	})
}

// ListHandler lists stored authorizations newest first.
// GET /v1/admin/authorizations?offset=0&limit=25 - admin with an unlocked gate.
func (h *AuthorizationHandler) ListHandler(c *gin.Context) {
	viewer, ok := h.viewer(c)
	if !ok {
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	authorizations, err := h.useCase.List(c.Request.Context(), offset, limit, viewer)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAuthorizationsToListResponse(authorizations))
}

// GetHandler returns one stored authorization.
// GET /v1/admin/authorizations/:id - admin with an unlocked gate.
func (h *AuthorizationHandler) GetHandler(c *gin.Context) {
	viewer, ok := h.viewer(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, errInvalidAuthorizationID, h.logger)
		return
	}

	authorization, err := h.useCase.Get(c.Request.Context(), id, viewer)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAuthorizationToResponse(authorization))
}

// DecryptHandler reveals the card number and CVV of one authorization.
// POST /v1/admin/authorizations/decrypt - admin only.
func (h *AuthorizationHandler) DecryptHandler(c *gin.Context) {
	viewer, ok := h.viewer(c)
	if !ok {
		return
	}

	var req dto.DecryptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	id, err := uuid.Parse(req.AuthorizationID)
	if err != nil {
		httputil.HandleValidationErrorGin(c, errInvalidAuthorizationID, h.logger)
		return
	}

	card, err := h.useCase.Decrypt(c.Request.Context(), &authorizationDomain.DecryptInput{
		AuthorizationID:     id,
		EncryptedCardNumber: req.EncryptedCardNumber,
		EncryptedCVV:        req.EncryptedCVV,
		Viewer:              viewer,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, dto.DecryptResponse{CardNumber: card.CardNumber, CVV: card.CVV})
}

// viewer builds the access log identity from the authenticated user. It writes a 401 when absent.
func (h *AuthorizationHandler) viewer(c *gin.Context) (authorizationDomain.Viewer, bool) {
	user, ok := authHTTP.GetUser(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return authorizationDomain.Viewer{}, false
	}
	return authorizationDomain.Viewer{
		UserID:    user.ID,
		UserEmail: user.Email,
		IPAddress: httputil.ClientIP(c),
	}, true
}
