package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"docrecon/internal/diff"
	"docrecon/internal/service"
)

// MockComparisonService is a mock implementation of service.ComparisonService.
type MockComparisonService struct {
	mock.Mock
}

func (m *MockComparisonService) CompareTexts(ctx context.Context, textA, textB string) (*diff.Result, error) {
	args := m.Called(ctx, textA, textB)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*diff.Result), args.Error(1)
}

func (m *MockComparisonService) ComparePage(ctx context.Context, docID uuid.UUID, pageNumber int) (*service.PageComparison, error) {
	args := m.Called(ctx, docID, pageNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PageComparison), args.Error(1)
}
