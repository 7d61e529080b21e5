// internal/domain/subscription/entity.go
package subscription

import (
	"time"
)

type Status string

const (
	StatusTrial   Status = "trial"
	StatusActive  Status = "active"
	StatusExpired Status = "expired"
)

// Renewable reports whether the renewal job may charge a subscription in this state.
func (s Status) Renewable() bool {
	return s == StatusTrial || s == StatusActive
}

type BillingCycle string

const (
	CycleMonthly   BillingCycle = "monthly"
	CycleQuarterly BillingCycle = "quarterly"
	CycleYearly    BillingCycle = "yearly"
)

type Plan struct {
	ID           string       `json:"id" db:"id"`
	Name         string       `json:"name" db:"name"`
	Price        int64        `json:"price" db:"price"`
	BillingCycle BillingCycle `json:"billing_cycle" db:"billing_cycle"`
}

// IsFree is true for zero-cost plans, which are extended without a gateway charge.
func (p Plan) IsFree() bool {
	return p.Price == 0
}

type BillingKey struct {
	ID            string  `json:"id" db:"id"`
	BillingKey    string  `json:"-" db:"billing_key"`
	CustomerKey   string  `json:"customer_key" db:"customer_key"`
	CustomerEmail *string `json:"customer_email,omitempty" db:"customer_email"`
}

type Subscription struct {
	ID                 string    `json:"id" db:"id"`
	UserID             string    `json:"user_id" db:"user_id"`
	PlanID             string    `json:"plan_id" db:"plan_id"`
	BillingKeyID       *string   `json:"billing_key_id,omitempty" db:"billing_key_id"`
	Status             Status    `json:"status" db:"status"`
	CancelAtPeriodEnd  bool      `json:"cancel_at_period_end" db:"cancel_at_period_end"`
	CurrentPeriodStart time.Time `json:"current_period_start" db:"current_period_start"`
	CurrentPeriodEnd   time.Time `json:"current_period_end" db:"current_period_end"`
	NextBillingDate    time.Time `json:"next_billing_date" db:"next_billing_date"`

	// Joined by the due-subscription query
	Plan       Plan        `json:"plan"`
	BillingKey *BillingKey `json:"billing_key,omitempty"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Renewal is the set of column values written after a successful or free renewal.
type Renewal struct {
	SubscriptionID     string
	CurrentPeriodStart time.Time
	CurrentPeriodEnd   time.Time
	NextBillingDate    time.Time
}

// CalendarDate drops the clock part of t, keeping the calendar day as seen in
// t's own location. The result is midnight UTC, the form DATE columns scan into.
func CalendarDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DueOn reports whether the subscription is eligible for a renewal charge on today.
func (s *Subscription) DueOn(today time.Time) bool {
	return s.Status.Renewable() &&
		!s.CancelAtPeriodEnd &&
		!CalendarDate(s.NextBillingDate).After(CalendarDate(today))
}

// ExpirableOn reports whether the expiration sweep would expire the subscription on today.
func (s *Subscription) ExpirableOn(today time.Time) bool {
	return s.CancelAtPeriodEnd &&
		s.Status != StatusExpired &&
		CalendarDate(s.CurrentPeriodEnd).Before(CalendarDate(today))
}
