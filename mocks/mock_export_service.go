package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"docrecon/internal/service"
)

// MockExportService is a mock implementation of service.ExportService.
type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) ExportWord(ctx context.Context, docID uuid.UUID) (*service.ExportFile, error) {
	args := m.Called(ctx, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportFile), args.Error(1)
}

func (m *MockExportService) ExportComparison(ctx context.Context, docID uuid.UUID, pageNumber int, includeEqual bool) (*service.ExportFile, error) {
	args := m.Called(ctx, docID, pageNumber, includeEqual)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportFile), args.Error(1)
}

func (m *MockExportService) ExportPageTexts(ctx context.Context, docID uuid.UUID) (*service.ExportFile, error) {
	args := m.Called(ctx, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportFile), args.Error(1)
}
