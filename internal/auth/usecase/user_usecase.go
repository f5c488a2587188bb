package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	authDomain "github.com/allisson/cardauth/internal/auth/domain"
	authService "github.com/allisson/cardauth/internal/auth/service"
	customValidation "github.com/allisson/cardauth/internal/validation"
)

type userUseCase struct {
	userRepo        UserRepository
	passwordService authService.PasswordService
}

func (u *userUseCase) validate(input *authDomain.CreateUserInput) error {
	err := validation.ValidateStruct(input,
		validation.Field(&input.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&input.Email,
			validation.Required,
			customValidation.Email,
			validation.Length(5, 255),
		),
		validation.Field(&input.Password,
			validation.Required,
			validation.Length(12, 128),
		),
	)
	return customValidation.WrapValidationError(err)
}

// Create validates input, hashes the password and stores the user.
func (u *userUseCase) Create(
	ctx context.Context,
	input *authDomain.CreateUserInput,
) (*authDomain.User, error) {
	if err := u.validate(input); err != nil {
		return nil, err
	}

	role, err := authDomain.ParseRole(string(input.Role))
	if err != nil {
		return nil, err
	}

	hashed, err := u.passwordService.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &authDomain.User{
		ID:        uuid.Must(uuid.NewV7()),
		Name:      strings.TrimSpace(input.Name),
		Email:     normalizeEmail(input.Email),
		Password:  hashed,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewUserUseCase creates a UserUseCase.
func NewUserUseCase(userRepo UserRepository, passwordService authService.PasswordService) UserUseCase {
	return &userUseCase{
		userRepo:        userRepo,
		passwordService: passwordService,
	}
}
