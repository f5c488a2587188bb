package app

import (
	"fmt"

	authHTTP "github.com/allisson/cardauth/internal/auth/http"
	authRepository "github.com/allisson/cardauth/internal/auth/repository"
	authService "github.com/allisson/cardauth/internal/auth/service"
	authUseCase "github.com/allisson/cardauth/internal/auth/usecase"
	"github.com/allisson/cardauth/internal/database"
)

type authComponents struct {
	passwordService lazy[authService.PasswordService]
	tokenService    lazy[authService.TokenService]
	userRepository  lazy[authUseCase.UserRepository]
	userUseCase     lazy[authUseCase.UserUseCase]
	tokenUseCase    lazy[authUseCase.TokenUseCase]
	tokenHandler    lazy[*authHTTP.TokenHandler]
}

// PasswordService returns the Argon2id password hasher for admin logins.
func (c *Container) PasswordService() authService.PasswordService {
	svc, _ := c.authComponents.passwordService.get(func() (authService.PasswordService, error) {
		return authService.NewPasswordService(), nil
	})
	return svc
}

// TokenService returns the bearer token signer.
func (c *Container) TokenService() (authService.TokenService, error) {
	return c.authComponents.tokenService.get(func() (authService.TokenService, error) {
		svc, err := authService.NewTokenService(
			c.config.AuthJWTSecret,
			c.config.AuthJWTIssuer,
			c.config.AuthTokenExpiration,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create token service: %w", err)
		}
		return svc, nil
	})
}

// UserRepository returns the user repository for the configured driver.
func (c *Container) UserRepository() (authUseCase.UserRepository, error) {
	return c.authComponents.userRepository.get(func() (authUseCase.UserRepository, error) {
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for user repository: %w", err)
		}
		switch c.config.DBDriver {
		case database.DriverMySQL:
			return authRepository.NewMySQLUserRepository(db), nil
		case database.DriverPostgres:
			return authRepository.NewPostgreSQLUserRepository(db), nil
		default:
			return nil, c.unsupportedDriver()
		}
	})
}

// UserUseCase returns the admin user use case.
func (c *Container) UserUseCase() (authUseCase.UserUseCase, error) {
	return c.authComponents.userUseCase.get(func() (authUseCase.UserUseCase, error) {
		userRepo, err := c.UserRepository()
		if err != nil {
			return nil, err
		}
		return authUseCase.NewUserUseCase(userRepo, c.PasswordService()), nil
	})
}

// TokenUseCase returns the login and bearer authentication use case.
func (c *Container) TokenUseCase() (authUseCase.TokenUseCase, error) {
	return c.authComponents.tokenUseCase.get(func() (authUseCase.TokenUseCase, error) {
		userRepo, err := c.UserRepository()
		if err != nil {
			return nil, err
		}
		tokenService, err := c.TokenService()
		if err != nil {
			return nil, err
		}
		bm, err := c.BusinessMetrics()
		if err != nil {
			return nil, err
		}
		useCase := authUseCase.NewTokenUseCase(userRepo, c.PasswordService(), tokenService)
		return authUseCase.NewTokenUseCaseWithMetrics(useCase, bm), nil
	})
}

// TokenHandler returns the login handler.
func (c *Container) TokenHandler() (*authHTTP.TokenHandler, error) {
	return c.authComponents.tokenHandler.get(func() (*authHTTP.TokenHandler, error) {
		useCase, err := c.TokenUseCase()
		if err != nil {
			return nil, err
		}
		return authHTTP.NewTokenHandler(useCase, c.Logger()), nil
	})
}
