package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"docrecon/internal/domain"
)

// MockPageRepo is a mock implementation of port.PageRepository.
type MockPageRepo struct {
	mock.Mock
}

func (m *MockPageRepo) CreateBatch(ctx context.Context, pages []domain.Page) error {
	args := m.Called(ctx, pages)
	return args.Error(0)
}

func (m *MockPageRepo) GetByNumber(ctx context.Context, docID uuid.UUID, pageNumber int) (*domain.Page, error) {
	args := m.Called(ctx, docID, pageNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Page), args.Error(1)
}

func (m *MockPageRepo) ListByDocument(ctx context.Context, docID uuid.UUID) ([]domain.Page, error) {
	args := m.Called(ctx, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Page), args.Error(1)
}

func (m *MockPageRepo) SetImage(ctx context.Context, docID uuid.UUID, pageNumber int, key, contentType string) error {
	args := m.Called(ctx, docID, pageNumber, key, contentType)
	return args.Error(0)
}

func (m *MockPageRepo) QueueForExtraction(ctx context.Context, docID uuid.UUID) (int, error) {
	args := m.Called(ctx, docID)
	return args.Int(0), args.Error(1)
}

func (m *MockPageRepo) ClaimQueued(ctx context.Context, limit int) ([]domain.Page, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Page), args.Error(1)
}

func (m *MockPageRepo) UpdateExtraction(ctx context.Context, page *domain.Page) error {
	args := m.Called(ctx, page)
	return args.Error(0)
}

func (m *MockPageRepo) CountByStatus(ctx context.Context, docID uuid.UUID) (map[domain.PageStatus]int, error) {
	args := m.Called(ctx, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.PageStatus]int), args.Error(1)
}
