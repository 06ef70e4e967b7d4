package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docrecon/internal/config"
	"docrecon/internal/service"
)

func TestAuthService_GenerateAndValidate(t *testing.T) {
	svc := service.NewAuthService(config.AuthConfig{Enabled: true, Secret: "test-secret", Issuer: "docrecon"})

	token, err := svc.GenerateToken("user-1", "user@example.com", time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "docrecon", claims.Issuer)
}

func TestAuthService_ValidateToken_WrongSecret(t *testing.T) {
	issuer := service.NewAuthService(config.AuthConfig{Secret: "secret-a"})
	verifier := service.NewAuthService(config.AuthConfig{Secret: "secret-b"})

	token, err := issuer.GenerateToken("user-1", "", time.Hour)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestAuthService_ValidateToken_Expired(t *testing.T) {
	svc := service.NewAuthService(config.AuthConfig{Secret: "test-secret"})

	token, err := svc.GenerateToken("user-1", "", -time.Minute)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestAuthService_ValidateToken_WrongIssuer(t *testing.T) {
	issuer := service.NewAuthService(config.AuthConfig{Secret: "s", Issuer: "someone-else"})
	verifier := service.NewAuthService(config.AuthConfig{Secret: "s", Issuer: "docrecon"})

	token, err := issuer.GenerateToken("user-1", "", time.Hour)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestAuthService_ValidateToken_Garbage(t *testing.T) {
	svc := service.NewAuthService(config.AuthConfig{Secret: "s"})

	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}
