package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockTextLayerExtractor is a mock implementation of port.TextLayerExtractor.
type MockTextLayerExtractor struct {
	mock.Mock
}

func (m *MockTextLayerExtractor) PageCount(data []byte) (int, error) {
	args := m.Called(data)
	return args.Int(0), args.Error(1)
}

func (m *MockTextLayerExtractor) ExtractPages(ctx context.Context, data []byte) ([]string, error) {
	args := m.Called(ctx, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
