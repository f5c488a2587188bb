package usecase

import (
	"context"
	"errors"
	"time"

	authDomain "github.com/allisson/cardauth/internal/auth/domain"
	authService "github.com/allisson/cardauth/internal/auth/service"
)

type tokenUseCase struct {
	userRepo        UserRepository
	passwordService authService.PasswordService
	tokenService    authService.TokenService
	now             func() time.Time
}

func (t *tokenUseCase) Login(
	ctx context.Context,
	input *authDomain.LoginInput,
) (*authDomain.IssuedToken, error) {
	user, err := t.userRepo.GetByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, authDomain.ErrUserNotFound) {
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !t.passwordService.Compare(input.Password, user.Password) {
		return nil, authDomain.ErrInvalidCredentials
	}

	token, expiresAt, err := t.tokenService.Issue(t.now().UTC(), user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	return &authDomain.IssuedToken{Token: token, ExpiresAt: expiresAt}, nil
}

func (t *tokenUseCase) Authenticate(ctx context.Context, token string) (*authDomain.User, error) {
	claims, err := t.tokenService.Verify(token, t.now().UTC())
	if err != nil {
		return nil, authDomain.ErrInvalidCredentials
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, authDomain.ErrInvalidCredentials
	}

	user, err := t.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, authDomain.ErrUserNotFound) {
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	return user, nil
}

// NewTokenUseCase creates a TokenUseCase.
func NewTokenUseCase(
	userRepo UserRepository,
	passwordService authService.PasswordService,
	tokenService authService.TokenService,
) TokenUseCase {
	return &tokenUseCase{
		userRepo:        userRepo,
		passwordService: passwordService,
		tokenService:    tokenService,
		now:             time.Now,
	}
}
