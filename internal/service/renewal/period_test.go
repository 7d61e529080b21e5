package renewal

import (
	"testing"
	"time"

	"idea-billing-service/internal/domain/subscription"

	"github.com/stretchr/testify/assert"
)

func TestAddPeriod(t *testing.T) {
	tests := []struct {
		name  string
		start string
		cycle subscription.BillingCycle
		want  string
	}{
		{"monthly", "2025-01-15", subscription.CycleMonthly, "2025-02-15"},
		{"monthly month end rolls over", "2025-01-31", subscription.CycleMonthly, "2025-03-03"},
		{"monthly leap year rollover", "2024-01-31", subscription.CycleMonthly, "2024-03-02"},
		{"quarterly", "2025-01-15", subscription.CycleQuarterly, "2025-04-15"},
		{"quarterly across year", "2024-11-30", subscription.CycleQuarterly, "2025-03-02"},
		{"yearly", "2025-01-15", subscription.CycleYearly, "2026-01-15"},
		{"yearly from leap day", "2024-02-29", subscription.CycleYearly, "2025-03-01"},
		{"unknown cycle defaults to monthly", "2025-01-15", subscription.BillingCycle("weekly"), "2025-02-15"},
		{"empty cycle defaults to monthly", "2025-06-10", "", "2025-07-10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, _ := time.Parse(time.DateOnly, tt.start)
			assert.Equal(t, tt.want, AddPeriod(start, tt.cycle).Format(time.DateOnly))
		})
	}
}

func TestNextRenewal_UsesBillingLocation(t *testing.T) {
	seoul := time.FixedZone("KST", 9*60*60)
	// 2025-01-31 16:00 UTC is 2025-02-01 01:00 in Seoul
	now := time.Date(2025, 1, 31, 16, 0, 0, 0, time.UTC)

	utc := nextRenewal("s1", now, time.UTC, subscription.CycleMonthly)
	kst := nextRenewal("s1", now, seoul, subscription.CycleMonthly)

	assert.Equal(t, "2025-03-03", utc.NextBillingDate.Format(time.DateOnly))
	assert.Equal(t, "2025-03-01", kst.NextBillingDate.Format(time.DateOnly))
	assert.Equal(t, kst.NextBillingDate, kst.CurrentPeriodEnd)
	assert.True(t, kst.CurrentPeriodStart.Equal(now))
	assert.Equal(t, "s1", kst.SubscriptionID)
}
