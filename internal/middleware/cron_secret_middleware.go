// internal/middleware/cron_secret_middleware.go
package middleware

import (
	"crypto/subtle"
	"net/http"

	xerrors "idea-billing-service/internal/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CronSecretMiddleware requires "Authorization: Bearer <secret>" verbatim.
// An empty secret leaves the endpoint open.
func CronSecretMiddleware(secret string, logger *zap.Logger) gin.HandlerFunc {
	expected := []byte("Bearer " + secret)

	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		got := []byte(c.GetHeader("Authorization"))
		if subtle.ConstantTimeCompare(got, expected) != 1 {
			logger.Warn("rejected job trigger",
				zap.String("client_ip", c.ClientIP()),
				zap.Bool("has_authorization", len(got) > 0),
			)
			_ = c.Error(xerrors.ErrUnauthorized)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Next()
	}
}
