// internal/domain/payment/dto.go
package payment

type AttemptListFilters struct {
	Status         *AttemptStatus `form:"status" binding:"omitempty,oneof=success failed"`
	SubscriptionID *string        `form:"subscription_id"`
	Page           int            `form:"page" binding:"omitempty,min=1"`
	PageSize       int            `form:"page_size" binding:"omitempty,min=1,max=100"`
	SortOrder      string         `form:"sort_order" binding:"omitempty,oneof=asc desc"`
}

type AttemptListResponse struct {
	Attempts   []Attempt `json:"attempts"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
}
