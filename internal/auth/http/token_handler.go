package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/cardauth/internal/auth/domain"
	"github.com/allisson/cardauth/internal/auth/http/dto"
	authUseCase "github.com/allisson/cardauth/internal/auth/usecase"
	"github.com/allisson/cardauth/internal/httputil"
	customValidation "github.com/allisson/cardauth/internal/validation"
)

// TokenHandler serves admin login.
type TokenHandler struct {
	tokenUseCase authUseCase.TokenUseCase
	logger       *slog.Logger
}

// NewTokenHandler creates a new TokenHandler.
func NewTokenHandler(tokenUseCase authUseCase.TokenUseCase, logger *slog.Logger) *TokenHandler {
	return &TokenHandler{
		tokenUseCase: tokenUseCase,
		logger:       logger,
	}
}

// LoginHandler exchanges email and password for a bearer token.
// POST /v1/auth/token
func (h *TokenHandler) LoginHandler(c *gin.Context) {
	var req dto.LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	output, err := h.tokenUseCase.Login(c.Request.Context(), &authDomain.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.TokenResponse{
		Token:     output.Token,
		ExpiresAt: output.ExpiresAt,
	})
}
