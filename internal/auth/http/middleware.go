package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/cardauth/internal/auth/domain"
	authUseCase "github.com/allisson/cardauth/internal/auth/usecase"
	apperrors "github.com/allisson/cardauth/internal/errors"
	"github.com/allisson/cardauth/internal/httputil"
)

// AuthenticationMiddleware resolves the bearer token to a stored user and puts it in the request context.
// Missing, malformed or invalid tokens abort with 401.
func AuthenticationMiddleware(tokenUseCase authUseCase.TokenUseCase, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const bearerPrefix = "bearer "

		authHeader := c.GetHeader("Authorization")
		if len(authHeader) <= len(bearerPrefix) ||
			!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			logger.Debug("authentication failed: missing or malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		token := strings.TrimSpace(authHeader[len(bearerPrefix):])

		user, err := tokenUseCase.Authenticate(c.Request.Context(), token)
		if err != nil {
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(WithUser(c.Request.Context(), user))

		logger.Debug("authentication successful", slog.String("user_id", user.ID.String()))

		c.Next()
	}
}

// AdminMiddleware requires the authenticated user to hold the admin role; anyone else gets 403.
func AdminMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetUser(c.Request.Context())
		if !ok {
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		if !user.IsAdmin() {
			logger.Warn("admin role required",
				slog.String("user_id", user.ID.String()),
				slog.String("role", string(user.Role)),
				slog.String("path", c.FullPath()))
			httputil.HandleErrorGin(c, authDomain.ErrAdminRequired, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}
