// internal/handlers/renewal/renewal_handler.go
package renewal

import (
	"context"
	"fmt"
	"net/http"

	service "idea-billing-service/internal/service/renewal"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Runner executes one renewal pass. Implemented by renewal.Service.
type Runner interface {
	Run(ctx context.Context) (*service.Report, error)
}

type RenewalHandler struct {
	runner Runner
	logger *zap.Logger
}

func NewRenewalHandler(runner Runner, logger *zap.Logger) *RenewalHandler {
	return &RenewalHandler{
		runner: runner,
		logger: logger,
	}
}

// Preflight answers CORS preflight requests. Headers are set by CORSMiddleware.
func (h *RenewalHandler) Preflight(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// ProcessSubscriptionPayments runs the renewal job synchronously and reports
// the per-subscription outcomes.
func (h *RenewalHandler) ProcessSubscriptionPayments(c *gin.Context) {
	// A caller hanging up must not abort a run halfway through charging.
	ctx := context.WithoutCancel(c.Request.Context())

	report, err := h.runner.Run(ctx)
	if err != nil {
		h.logger.Error("renewal run aborted", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   fmt.Sprintf("Processed %d subscriptions", report.Processed),
		"processed": report.Processed,
		"expired":   report.Expired,
		"run_id":    report.RunID,
		"results":   report.Results,
	})
}
