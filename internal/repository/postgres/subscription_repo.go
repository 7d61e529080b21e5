// internal/repository/postgres/subscription_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"idea-billing-service/internal/domain/subscription"
	xerrors "idea-billing-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SubscriptionRepository struct {
	db *pgxpool.Pool
}

func NewSubscriptionRepository(db *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

const subscriptionColumns = `
	s.id, s.user_id, s.plan_id, s.billing_key_id, s.status, s.cancel_at_period_end,
	s.current_period_start, s.current_period_end, s.next_billing_date,
	s.created_at, s.updated_at,
	p.id, p.name, p.price, p.billing_cycle,
	bk.id, bk.billing_key, bk.customer_key, bk.customer_email
`

// FindDue returns renewable subscriptions whose next billing date has arrived,
// joined with their plan and billing key. Cancelled-at-period-end rows are excluded.
func (r *SubscriptionRepository) FindDue(ctx context.Context, today time.Time) ([]*subscription.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions s
		JOIN subscription_plans p ON p.id = s.plan_id
		LEFT JOIN billing_keys bk ON bk.id = s.billing_key_id
		WHERE s.status IN ($1, $2)
		  AND s.next_billing_date <= $3::date
		  AND s.cancel_at_period_end = FALSE
		ORDER BY s.next_billing_date ASC, s.created_at ASC
	`

	rows, err := r.db.Query(ctx, query,
		subscription.StatusActive, subscription.StatusTrial, today.Format(time.DateOnly),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query due subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []*subscription.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate due subscriptions: %w", err)
	}

	return subs, nil
}

// FindByID retrieves a subscription with its plan and billing key
func (r *SubscriptionRepository) FindByID(ctx context.Context, id string) (*subscription.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions s
		JOIN subscription_plans p ON p.id = s.plan_id
		LEFT JOIN billing_keys bk ON bk.id = s.billing_key_id
		WHERE s.id = $1
	`

	sub, err := scanSubscription(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find subscription: %w", err)
	}

	return sub, nil
}

// UpdateRenewalWithTx extends the billing period and (re)activates the subscription
func (r *SubscriptionRepository) UpdateRenewalWithTx(ctx context.Context, tx pgx.Tx, renewal subscription.Renewal) error {
	query := `
		UPDATE subscriptions
		SET status = $1, current_period_start = $2, current_period_end = $3::date,
		    next_billing_date = $4::date, updated_at = $5
		WHERE id = $6
	`

	result, err := tx.Exec(
		ctx, query,
		subscription.StatusActive,
		renewal.CurrentPeriodStart,
		renewal.CurrentPeriodEnd.Format(time.DateOnly),
		renewal.NextBillingDate.Format(time.DateOnly),
		time.Now(),
		renewal.SubscriptionID,
	)
	if err != nil {
		return fmt.Errorf("failed to update renewal info: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// ExpireCancelled marks cancel-at-period-end subscriptions whose period ended
// before today as expired and returns their ids. Already expired rows are untouched.
func (r *SubscriptionRepository) ExpireCancelled(ctx context.Context, today time.Time) ([]string, error) {
	query := `
		UPDATE subscriptions
		SET status = $1, updated_at = $2
		WHERE cancel_at_period_end = TRUE
		  AND current_period_end < $3::date
		  AND status <> $1
		RETURNING id
	`

	rows, err := r.db.Query(ctx, query, subscription.StatusExpired, time.Now(), today.Format(time.DateOnly))
	if err != nil {
		return nil, fmt.Errorf("failed to expire subscriptions: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to collect expired subscriptions: %w", err)
	}

	return ids, nil
}

func scanSubscription(row pgx.Row) (*subscription.Subscription, error) {
	var sub subscription.Subscription
	var bkID, bkKey, bkCustomer, bkEmail *string

	err := row.Scan(
		&sub.ID, &sub.UserID, &sub.PlanID, &sub.BillingKeyID, &sub.Status, &sub.CancelAtPeriodEnd,
		&sub.CurrentPeriodStart, &sub.CurrentPeriodEnd, &sub.NextBillingDate,
		&sub.CreatedAt, &sub.UpdatedAt,
		&sub.Plan.ID, &sub.Plan.Name, &sub.Plan.Price, &sub.Plan.BillingCycle,
		&bkID, &bkKey, &bkCustomer, &bkEmail,
	)
	if err != nil {
		return nil, err
	}

	if bkID != nil {
		sub.BillingKey = &subscription.BillingKey{
			ID:            *bkID,
			BillingKey:    deref(bkKey),
			CustomerKey:   deref(bkCustomer),
			CustomerEmail: bkEmail,
		}
	}

	return &sub, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
