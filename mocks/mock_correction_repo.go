package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"docrecon/internal/domain"
)

// MockCorrectionRepo is a mock implementation of port.CorrectionRepository.
type MockCorrectionRepo struct {
	mock.Mock
}

func (m *MockCorrectionRepo) Upsert(ctx context.Context, correction *domain.PageCorrection) error {
	args := m.Called(ctx, correction)
	return args.Error(0)
}

func (m *MockCorrectionRepo) Get(ctx context.Context, docID uuid.UUID, pageNumber int) (*domain.PageCorrection, error) {
	args := m.Called(ctx, docID, pageNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PageCorrection), args.Error(1)
}

func (m *MockCorrectionRepo) ListByDocument(ctx context.Context, docID uuid.UUID) ([]domain.PageCorrection, error) {
	args := m.Called(ctx, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PageCorrection), args.Error(1)
}
