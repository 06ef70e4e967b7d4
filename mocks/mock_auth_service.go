package mocks

import (
	"time"

	"github.com/stretchr/testify/mock"

	"docrecon/internal/service"
)

// MockAuthService is a mock implementation of service.AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) ValidateToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}

func (m *MockAuthService) GenerateToken(subject, email string, ttl time.Duration) (string, error) {
	args := m.Called(subject, email, ttl)
	return args.String(0), args.Error(1)
}
