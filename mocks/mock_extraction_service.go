package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"docrecon/internal/domain"
)

// MockExtractionService is a mock implementation of service.ExtractionService.
type MockExtractionService struct {
	mock.Mock
}

func (m *MockExtractionService) QueueDocument(ctx context.Context, docID uuid.UUID) (int, error) {
	args := m.Called(ctx, docID)
	return args.Int(0), args.Error(1)
}

func (m *MockExtractionService) ExtractPage(ctx context.Context, page *domain.Page, maxRetries int) {
	m.Called(ctx, page, maxRetries)
}
