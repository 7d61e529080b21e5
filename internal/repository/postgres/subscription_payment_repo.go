// internal/repository/postgres/subscription_payment_repo.go
package postgres

import (
	"context"
	"fmt"
	"strings"

	"idea-billing-service/internal/domain/payment"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SubscriptionPaymentRepository struct {
	db *pgxpool.Pool
}

func NewSubscriptionPaymentRepository(db *pgxpool.Pool) *SubscriptionPaymentRepository {
	return &SubscriptionPaymentRepository{db: db}
}

const insertPaymentQuery = `
	INSERT INTO subscription_payments (
		subscription_id, amount, status, payment_key, order_id,
		error_code, error_message, metadata
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING id, created_at
`

// Create appends a payment attempt
func (r *SubscriptionPaymentRepository) Create(ctx context.Context, attempt *payment.Attempt) error {
	return r.insert(ctx, r.db, attempt)
}

// CreateWithTx appends a payment attempt within a transaction
func (r *SubscriptionPaymentRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, attempt *payment.Attempt) error {
	return r.insert(ctx, tx, attempt)
}

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *SubscriptionPaymentRepository) insert(ctx context.Context, q queryRower, attempt *payment.Attempt) error {
	var metadata []byte
	if len(attempt.Metadata) > 0 {
		metadata = attempt.Metadata
	}

	err := q.QueryRow(
		ctx, insertPaymentQuery,
		attempt.SubscriptionID, attempt.Amount, attempt.Status, attempt.PaymentKey, attempt.OrderID,
		attempt.ErrorCode, attempt.ErrorMessage, metadata,
	).Scan(&attempt.ID, &attempt.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create subscription payment: %w", err)
	}

	return nil
}

// List retrieves payment attempts with filters, newest first by default
func (r *SubscriptionPaymentRepository) List(ctx context.Context, filters *payment.AttemptListFilters) ([]payment.Attempt, int64, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argPos := 1

	if filters.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *filters.Status)
		argPos++
	}

	if filters.SubscriptionID != nil {
		conditions = append(conditions, fmt.Sprintf("subscription_id = $%d", argPos))
		args = append(args, *filters.SubscriptionID)
		argPos++
	}

	whereClause := strings.Join(conditions, " AND ")

	// Count total
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM subscription_payments WHERE %s", whereClause)
	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count subscription payments: %w", err)
	}

	// Pagination
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}
	offset := (filters.Page - 1) * filters.PageSize

	sortOrder := "DESC"
	if strings.EqualFold(filters.SortOrder, "asc") {
		sortOrder = "ASC"
	}

	query := fmt.Sprintf(`
		SELECT id, subscription_id, amount, status, payment_key, order_id,
		       error_code, error_message, metadata, created_at
		FROM subscription_payments
		WHERE %s
		ORDER BY created_at %s
		LIMIT $%d OFFSET $%d
	`, whereClause, sortOrder, argPos, argPos+1)

	args = append(args, filters.PageSize, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list subscription payments: %w", err)
	}
	defer rows.Close()

	attempts := []payment.Attempt{}
	for rows.Next() {
		var a payment.Attempt
		var metadata []byte
		err := rows.Scan(
			&a.ID, &a.SubscriptionID, &a.Amount, &a.Status, &a.PaymentKey, &a.OrderID,
			&a.ErrorCode, &a.ErrorMessage, &metadata, &a.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan subscription payment: %w", err)
		}
		a.Metadata = metadata
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate subscription payments: %w", err)
	}

	return attempts, total, nil
}
