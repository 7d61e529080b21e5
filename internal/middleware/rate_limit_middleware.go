// internal/middleware/rate_limit_middleware.go
package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	xerrors "idea-billing-service/internal/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Limiter is satisfied by ratelimit.RateLimiter.
type Limiter interface {
	Allow(ctx context.Context, key string, maxRequests int64, window time.Duration) (bool, int64, error)
}

// RateLimitMiddleware caps how often the route can be hit across all callers.
// A nil limiter disables the check; limiter errors let the request through.
func RateLimitMiddleware(limiter Limiter, key string, maxRequests int64, window time.Duration, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || maxRequests <= 0 {
			c.Next()
			return
		}

		allowed, remaining, err := limiter.Allow(c.Request.Context(), key, maxRequests, window)
		if err != nil {
			logger.Warn("rate limiter unavailable", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(maxRequests, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if !allowed {
			logger.Warn("rate limit exceeded", zap.String("key", key), zap.String("client_ip", c.ClientIP()))
			_ = c.Error(xerrors.ErrRateLimited)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}

		c.Next()
	}
}
