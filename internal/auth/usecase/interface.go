// Package usecase implements admin user management, login and bearer authentication.
package usecase

import (
	"context"

	"github.com/google/uuid"

	authDomain "github.com/allisson/cardauth/internal/auth/domain"
)

// UserRepository persists admin users.
type UserRepository interface {
	Create(ctx context.Context, user *authDomain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*authDomain.User, error)
	GetByEmail(ctx context.Context, email string) (*authDomain.User, error)
}

// UserUseCase manages admin users.
type UserUseCase interface {
	Create(ctx context.Context, input *authDomain.CreateUserInput) (*authDomain.User, error)
}

// TokenUseCase signs users in and resolves bearer tokens to users.
type TokenUseCase interface {
	// Login verifies email and password and returns a signed bearer token.
	Login(ctx context.Context, input *authDomain.LoginInput) (*authDomain.IssuedToken, error)

	// Authenticate resolves a bearer token to the stored user, with the role as persisted.
	Authenticate(ctx context.Context, token string) (*authDomain.User, error)
}
