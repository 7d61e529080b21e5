// internal/domain/subscription/dto.go
package subscription

type DuePreviewRequest struct {
	Date string `form:"date" binding:"omitempty,datetime=2006-01-02"`
}

type DueSubscriptionView struct {
	ID              string       `json:"id"`
	UserID          string       `json:"user_id"`
	Status          Status       `json:"status"`
	PlanName        string       `json:"plan_name"`
	Amount          int64        `json:"amount"`
	BillingCycle    BillingCycle `json:"billing_cycle"`
	NextBillingDate string       `json:"next_billing_date"`
	HasBillingKey   bool         `json:"has_billing_key"`
}

type DuePreviewResponse struct {
	Date          string                `json:"date"`
	Subscriptions []DueSubscriptionView `json:"subscriptions"`
	Total         int                   `json:"total"`
}

// NewDueSubscriptionView flattens a joined subscription row for the admin preview.
func NewDueSubscriptionView(sub *Subscription) DueSubscriptionView {
	return DueSubscriptionView{
		ID:              sub.ID,
		UserID:          sub.UserID,
		Status:          sub.Status,
		PlanName:        sub.Plan.Name,
		Amount:          sub.Plan.Price,
		BillingCycle:    sub.Plan.BillingCycle,
		NextBillingDate: sub.NextBillingDate.Format("2006-01-02"),
		HasBillingKey:   sub.BillingKey != nil && sub.BillingKey.BillingKey != "",
	}
}
