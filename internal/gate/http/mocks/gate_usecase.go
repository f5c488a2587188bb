// Package mocks provides a testify mock of the gate use case.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	gateDomain "github.com/allisson/cardauth/internal/gate/domain"
)

// MockGateUseCase is a mock implementation of usecase.GateUseCase.
type MockGateUseCase struct {
	mock.Mock
}

// Verify mocks the Verify method.
func (m *MockGateUseCase) Verify(ctx context.Context, input *gateDomain.VerifyInput) (*gateDomain.Session, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateDomain.Session), args.Error(1)
}

// CheckSession mocks the CheckSession method.
func (m *MockGateUseCase) CheckSession(ctx context.Context, userID uuid.UUID) (*gateDomain.Session, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateDomain.Session), args.Error(1)
}

// SetPassword mocks the SetPassword method.
func (m *MockGateUseCase) SetPassword(ctx context.Context, password string) error {
	args := m.Called(ctx, password)
	return args.Error(0)
}
