// internal/middleware/helpers.go
package middleware

import (
	"idea-billing-service/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
)

const (
	claimsKey    = "claims"
	requestIDKey = "request_id"
)

// GetClaims returns the verified token claims set by Auth()
func GetClaims(c *gin.Context) (*jwt.Claims, bool) {
	value, exists := c.Get(claimsKey)
	if !exists {
		return nil, false
	}

	claims, ok := value.(*jwt.Claims)
	return claims, ok
}

// GetSubject returns the token subject, or "" for unauthenticated requests
func GetSubject(c *gin.Context) string {
	claims, ok := GetClaims(c)
	if !ok {
		return ""
	}
	return claims.Subject
}

// GetRequestID returns the id assigned by LoggingMiddleware
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
