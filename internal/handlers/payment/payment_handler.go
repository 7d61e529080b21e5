// internal/handlers/payment/payment_handler.go
package payment

import (
	"context"
	"net/http"

	"idea-billing-service/internal/domain/payment"
	"idea-billing-service/internal/domain/subscription"
	xerrors "idea-billing-service/internal/pkg/errors"
	"idea-billing-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type AttemptLister interface {
	ListAttempts(ctx context.Context, filters *payment.AttemptListFilters) (*payment.AttemptListResponse, error)
}

type DuePreviewer interface {
	PreviewDue(ctx context.Context, date string) (*subscription.DuePreviewResponse, error)
}

// PaymentHandler serves the admin review endpoints.
type PaymentHandler struct {
	attempts AttemptLister
	due      DuePreviewer
}

func NewPaymentHandler(attempts AttemptLister, due DuePreviewer) *PaymentHandler {
	return &PaymentHandler{
		attempts: attempts,
		due:      due,
	}
}

// ListAttempts retrieves recorded payment attempts with filters
func (h *PaymentHandler) ListAttempts(c *gin.Context) {
	var filters payment.AttemptListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid filters", err)
		return
	}

	result, err := h.attempts.ListAttempts(c.Request.Context(), &filters)
	if err != nil {
		response.InternalError(c, "failed to list payment attempts", err)
		return
	}

	response.Success(c, http.StatusOK, "payment attempts retrieved", result)
}

// PreviewDue lists the subscriptions the next run would charge on the given date
func (h *PaymentHandler) PreviewDue(c *gin.Context) {
	var req subscription.DuePreviewRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ValidationError(c, "invalid date", err)
		return
	}

	result, err := h.due.PreviewDue(c.Request.Context(), req.Date)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrInvalidInput) {
			response.ValidationError(c, "invalid date", err)
			return
		}
		response.InternalError(c, "failed to preview due subscriptions", err)
		return
	}

	response.Success(c, http.StatusOK, "due subscriptions retrieved", result)
}
