// internal/domain/payment/entity.go
package payment

import (
	"encoding/json"
	"time"
)

type AttemptStatus string

const (
	AttemptSuccess AttemptStatus = "success"
	AttemptFailed  AttemptStatus = "failed"
)

const (
	DefaultErrorCode    = "UNKNOWN"
	DefaultErrorMessage = "Unknown error"
)

// Attempt is one renewal charge attempt. Rows are append-only.
type Attempt struct {
	ID             string          `json:"id" db:"id"`
	SubscriptionID string          `json:"subscription_id" db:"subscription_id"`
	Amount         int64           `json:"amount" db:"amount"`
	Status         AttemptStatus   `json:"status" db:"status"`
	PaymentKey     *string         `json:"payment_key,omitempty" db:"payment_key"`
	OrderID        *string         `json:"order_id,omitempty" db:"order_id"`
	ErrorCode      *string         `json:"error_code,omitempty" db:"error_code"`
	ErrorMessage   *string         `json:"error_message,omitempty" db:"error_message"`
	Metadata       json.RawMessage `json:"metadata,omitempty" db:"metadata"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}
