package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"docrecon/internal/service"
)

const (
	ContextKeySubject = "subject"
	ContextKeyEmail   = "email"
	ContextKeyClaims  = "claims"
)

// AuthMiddleware returns Gin middleware that validates bearer tokens and
// injects the caller's identity.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "UNAUTHORIZED", "message": "missing or invalid authorization header"},
			})
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := authService.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "UNAUTHORIZED", "message": "invalid or expired token"},
			})
			return
		}

		c.Set(ContextKeySubject, claims.Subject)
		c.Set(ContextKeyEmail, claims.Email)
		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// GetSubject returns the authenticated subject, or "" when auth is disabled.
func GetSubject(c *gin.Context) string {
	return c.GetString(ContextKeySubject)
}

// GetEmail returns the authenticated caller's email, or "" when unknown.
func GetEmail(c *gin.Context) string {
	return c.GetString(ContextKeyEmail)
}
