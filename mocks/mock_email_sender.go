package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docrecon/internal/port"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendFinalizedEmail(ctx context.Context, toEmail string, notice port.FinalizedNotice) error {
	args := m.Called(ctx, toEmail, notice)
	return args.Error(0)
}
