package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"docrecon/internal/config"
	"docrecon/internal/domain"
)

// Claims represents the JWT claims accepted by the API.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// AuthService validates bearer tokens issued by the identity provider that
// fronts this service.
type AuthService interface {
	ValidateToken(tokenString string) (*Claims, error)
	GenerateToken(subject, email string, ttl time.Duration) (string, error)
}

type authService struct {
	cfg config.AuthConfig
}

// NewAuthService creates a new AuthService implementation.
func NewAuthService(cfg config.AuthConfig) AuthService {
	return &authService{cfg: cfg}
}

// GenerateToken signs an HS256 token with the shared secret. It exists for
// tooling and tests; production tokens come from the identity provider.
func (s *authService) GenerateToken(subject, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.New().String(),
		},
		Email: email,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	opts := []jwt.ParserOption{jwt.WithExpirationRequired()}
	if s.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.cfg.Issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}
	if !token.Valid {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}
