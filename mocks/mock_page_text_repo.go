package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"docrecon/internal/domain"
)

// MockPageTextRepo is a mock implementation of port.PageTextRepository.
type MockPageTextRepo struct {
	mock.Mock
}

func (m *MockPageTextRepo) UpsertOCRText(ctx context.Context, text *domain.OCRText) error {
	args := m.Called(ctx, text)
	return args.Error(0)
}

func (m *MockPageTextRepo) GetOCRText(ctx context.Context, docID uuid.UUID, pageNumber int) (*domain.OCRText, error) {
	args := m.Called(ctx, docID, pageNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OCRText), args.Error(1)
}

func (m *MockPageTextRepo) ListOCRTexts(ctx context.Context, docID uuid.UUID) ([]domain.OCRText, error) {
	args := m.Called(ctx, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OCRText), args.Error(1)
}

func (m *MockPageTextRepo) ReplaceEditableTexts(ctx context.Context, docID uuid.UUID, texts []domain.EditableText) error {
	args := m.Called(ctx, docID, texts)
	return args.Error(0)
}

func (m *MockPageTextRepo) GetEditableText(ctx context.Context, docID uuid.UUID, pageNumber int) (*domain.EditableText, error) {
	args := m.Called(ctx, docID, pageNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EditableText), args.Error(1)
}
