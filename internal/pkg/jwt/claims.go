// internal/pkg/jwt/claims.go
package jwt

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the access token claims issued by the auth platform.
type Claims struct {
	Role  string `json:"role"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// HasRole checks if the token was issued for a specific role
func (c *Claims) HasRole(role string) bool {
	return role != "" && c.Role == role
}
