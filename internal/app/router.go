// internal/app/router.go
package app

import (
	paymentHandler "idea-billing-service/internal/handlers/payment"
	renewalHandler "idea-billing-service/internal/handlers/renewal"
	"idea-billing-service/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TriggerPath is where the scheduler posts to run the renewal job.
const TriggerPath = "/functions/v1/process-subscription-payments"

type Handlers struct {
	RenewalHandler *renewalHandler.RenewalHandler
	PaymentHandler *paymentHandler.PaymentHandler
	AuthMiddleware *middleware.AuthMiddleware

	// Applied to the job trigger only
	TriggerGuards []gin.HandlerFunc
	AdminRole     string
}

func SetupRouter(r *gin.Engine, logger *zap.Logger, h *Handlers) {
	// ==================== Renewal Job Trigger ====================
	r.OPTIONS(TriggerPath, h.RenewalHandler.Preflight)
	r.POST(TriggerPath, append(h.TriggerGuards, h.RenewalHandler.ProcessSubscriptionPayments)...)

	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== Admin Review Routes ====================
	admin := api.Group("/admin")
	admin.Use(h.AuthMiddleware.AdminOnly(h.AdminRole)...)
	{
		admin.GET("/subscription-payments", h.PaymentHandler.ListAttempts)
		admin.GET("/subscriptions/due", h.PaymentHandler.PreviewDue)
	}

	logger.Info("routes registered", zap.Int("count", len(r.Routes())))
}
