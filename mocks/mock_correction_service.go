package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"docrecon/internal/domain"
	"docrecon/internal/service"
)

// MockCorrectionService is a mock implementation of service.CorrectionService.
type MockCorrectionService struct {
	mock.Mock
}

func (m *MockCorrectionService) GetPageText(ctx context.Context, docID uuid.UUID, pageNumber int) (string, error) {
	args := m.Called(ctx, docID, pageNumber)
	return args.String(0), args.Error(1)
}

func (m *MockCorrectionService) SetPageText(ctx context.Context, docID uuid.UUID, pageNumber int, text string) (*domain.PageCorrection, error) {
	args := m.Called(ctx, docID, pageNumber, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PageCorrection), args.Error(1)
}

func (m *MockCorrectionService) GetAllPages(ctx context.Context, docID uuid.UUID) (map[int]string, time.Time, error) {
	args := m.Called(ctx, docID)
	if args.Get(0) == nil {
		return nil, time.Time{}, args.Error(2)
	}
	return args.Get(0).(map[int]string), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockCorrectionService) SaveCorrection(ctx context.Context, docID uuid.UUID, pageNumber int, text string) (*service.SaveCorrectionResult, error) {
	args := m.Called(ctx, docID, pageNumber, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SaveCorrectionResult), args.Error(1)
}

func (m *MockCorrectionService) ListCorrections(ctx context.Context, docID uuid.UUID) (*service.DocumentCorrections, error) {
	args := m.Called(ctx, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentCorrections), args.Error(1)
}

func (m *MockCorrectionService) Finalize(ctx context.Context, input *service.FinalizeInput) (*domain.Document, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}
