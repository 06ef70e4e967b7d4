package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"docrecon/internal/domain"
	"docrecon/internal/service"
)

// MockEditableService is a mock implementation of service.EditableService.
type MockEditableService struct {
	mock.Mock
}

func (m *MockEditableService) Upload(ctx context.Context, input *service.UploadEditableInput) (*service.EditableResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.EditableResult), args.Error(1)
}

func (m *MockEditableService) GetPageText(ctx context.Context, docID uuid.UUID, pageNumber int) (*domain.EditableText, error) {
	args := m.Called(ctx, docID, pageNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EditableText), args.Error(1)
}
