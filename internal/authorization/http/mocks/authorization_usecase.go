// Package mocks provides a testify mock of the authorization use case.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	authorizationDomain "github.com/allisson/cardauth/internal/authorization/domain"
)

// MockAuthorizationUseCase is a mock implementation of usecase.AuthorizationUseCase.
type MockAuthorizationUseCase struct {
	mock.Mock
}

// Submit mocks the Submit method.
func (m *MockAuthorizationUseCase) Submit(
	ctx context.Context,
	input *authorizationDomain.SubmitInput,
) (*authorizationDomain.Authorization, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authorizationDomain.Authorization), args.Error(1)
}

// List mocks the List method.
func (m *MockAuthorizationUseCase) List(
	ctx context.Context,
	offset, limit int,
	viewer authorizationDomain.Viewer,
) ([]*authorizationDomain.Authorization, error) {
	args := m.Called(ctx, offset, limit, viewer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*authorizationDomain.Authorization), args.Error(1)
}

// Get mocks the Get method.
func (m *MockAuthorizationUseCase) Get(
	ctx context.Context,
	id uuid.UUID,
	viewer authorizationDomain.Viewer,
) (*authorizationDomain.Authorization, error) {
	args := m.Called(ctx, id, viewer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authorizationDomain.Authorization), args.Error(1)
}

// Decrypt mocks the Decrypt method.
func (m *MockAuthorizationUseCase) Decrypt(
	ctx context.Context,
	input *authorizationDomain.DecryptInput,
) (*authorizationDomain.RevealedCard, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authorizationDomain.RevealedCard), args.Error(1)
}
