// internal/service/renewal/period.go
package renewal

import (
	"time"

	"idea-billing-service/internal/domain/subscription"
)

// AddPeriod advances t by one billing cycle. Month overflow rolls into the
// following month the way time.AddDate does (Jan 31 + 1 month = Mar 3 or Mar 2).
// Unknown cycles are treated as monthly.
func AddPeriod(t time.Time, cycle subscription.BillingCycle) time.Time {
	switch cycle {
	case subscription.CycleMonthly:
		return t.AddDate(0, 1, 0)
	case subscription.CycleQuarterly:
		return t.AddDate(0, 3, 0)
	case subscription.CycleYearly:
		return t.AddDate(1, 0, 0)
	default:
		return t.AddDate(0, 1, 0)
	}
}

// nextRenewal computes the period written after a successful or free renewal.
// The end date is the calendar day one cycle after now, as seen in loc.
func nextRenewal(subID string, now time.Time, loc *time.Location, cycle subscription.BillingCycle) subscription.Renewal {
	next := subscription.CalendarDate(AddPeriod(now.In(loc), cycle))
	return subscription.Renewal{
		SubscriptionID:     subID,
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   next,
		NextBillingDate:    next,
	}
}
