// internal/repository/postgres/renewal_ledger.go
package postgres

import (
	"context"
	"time"

	"idea-billing-service/internal/domain/payment"
	"idea-billing-service/internal/domain/subscription"

	"github.com/jackc/pgx/v5"
)

// RenewalLedger is the storage the renewal job reads and writes.
type RenewalLedger struct {
	db            *DB
	subscriptions *SubscriptionRepository
	payments      *SubscriptionPaymentRepository
}

func NewRenewalLedger(db *DB, subscriptions *SubscriptionRepository, payments *SubscriptionPaymentRepository) *RenewalLedger {
	return &RenewalLedger{
		db:            db,
		subscriptions: subscriptions,
		payments:      payments,
	}
}

func (l *RenewalLedger) FindDue(ctx context.Context, today time.Time) ([]*subscription.Subscription, error) {
	return l.subscriptions.FindDue(ctx, today)
}

func (l *RenewalLedger) FindByID(ctx context.Context, id string) (*subscription.Subscription, error) {
	return l.subscriptions.FindByID(ctx, id)
}

func (l *RenewalLedger) ExpireCancelled(ctx context.Context, today time.Time) ([]string, error) {
	return l.subscriptions.ExpireCancelled(ctx, today)
}

// RecordRenewal stores the successful attempt (nil for free plans) and the
// extended period in one transaction.
func (l *RenewalLedger) RecordRenewal(ctx context.Context, attempt *payment.Attempt, renewal subscription.Renewal) error {
	return l.db.WithTx(ctx, func(tx pgx.Tx) error {
		if attempt != nil {
			if err := l.payments.CreateWithTx(ctx, tx, attempt); err != nil {
				return err
			}
		}
		return l.subscriptions.UpdateRenewalWithTx(ctx, tx, renewal)
	})
}

// RecordFailure stores a failed attempt. The subscription row is not touched.
func (l *RenewalLedger) RecordFailure(ctx context.Context, attempt *payment.Attempt) error {
	return l.payments.Create(ctx, attempt)
}
