// Package mocks provides a testify mock of the access log use case.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	auditDomain "github.com/allisson/cardauth/internal/audit/domain"
)

// MockAccessLogUseCase is a mock implementation of usecase.AccessLogUseCase.
type MockAccessLogUseCase struct {
	mock.Mock
}

// Record mocks the Record method.
func (m *MockAccessLogUseCase) Record(
	ctx context.Context,
	input *auditDomain.RecordInput,
) (*auditDomain.AccessLog, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auditDomain.AccessLog), args.Error(1)
}

// List mocks the List method.
func (m *MockAccessLogUseCase) List(
	ctx context.Context,
	offset, limit int,
	filter auditDomain.ListFilter,
) ([]*auditDomain.AccessLog, error) {
	args := m.Called(ctx, offset, limit, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*auditDomain.AccessLog), args.Error(1)
}

// Verify mocks the Verify method.
func (m *MockAccessLogUseCase) Verify(
	ctx context.Context,
	from, to *time.Time,
) (*auditDomain.VerificationReport, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auditDomain.VerificationReport), args.Error(1)
}
