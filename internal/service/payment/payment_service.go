// internal/service/payment/payment_service.go
package payment

import (
	"context"
	"fmt"

	"idea-billing-service/internal/domain/payment"

	"go.uber.org/zap"
)

// AttemptRepository is satisfied by postgres.SubscriptionPaymentRepository.
type AttemptRepository interface {
	List(ctx context.Context, filters *payment.AttemptListFilters) ([]payment.Attempt, int64, error)
}

// PaymentService exposes recorded payment attempts for manual review.
type PaymentService struct {
	attemptRepo AttemptRepository
	logger      *zap.Logger
}

func NewPaymentService(attemptRepo AttemptRepository, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		attemptRepo: attemptRepo,
		logger:      logger,
	}
}

// ListAttempts retrieves payment attempts with filters
func (s *PaymentService) ListAttempts(ctx context.Context, filters *payment.AttemptListFilters) (*payment.AttemptListResponse, error) {
	// Set defaults
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}
	if filters.PageSize > 100 {
		filters.PageSize = 100
	}

	attempts, total, err := s.attemptRepo.List(ctx, filters)
	if err != nil {
		s.logger.Error("failed to list payment attempts", zap.Error(err))
		return nil, fmt.Errorf("failed to list payment attempts: %w", err)
	}

	totalPages := int(total) / filters.PageSize
	if int(total)%filters.PageSize > 0 {
		totalPages++
	}

	if attempts == nil {
		attempts = []payment.Attempt{}
	}

	return &payment.AttemptListResponse{
		Attempts:   attempts,
		Total:      total,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		TotalPages: totalPages,
	}, nil
}
