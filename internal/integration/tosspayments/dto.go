package tosspayments

import "encoding/json"

const (
	DefaultBaseURL = "https://api.tosspayments.com"

	// CodeNetworkError marks a charge that never produced an HTTP response.
	CodeNetworkError = "NETWORK_ERROR"
)

// ChargeRequest is the body of POST /v1/billing/{billingKey}.
type ChargeRequest struct {
	Amount        int64  `json:"amount"`
	CustomerKey   string `json:"customerKey"`
	OrderID       string `json:"orderId"`
	OrderName     string `json:"orderName"`
	CustomerEmail string `json:"customerEmail,omitempty"`
	TaxFreeAmount int64  `json:"taxFreeAmount"`
}

// Payment is the subset of the approved payment object the renewal job reads.
type Payment struct {
	PaymentKey  string `json:"paymentKey"`
	OrderID     string `json:"orderId"`
	Status      string `json:"status"`
	TotalAmount int64  `json:"totalAmount"`
	Method      string `json:"method"`
	ApprovedAt  string `json:"approvedAt"`
}

// Failure is the gateway error body, or a synthesized one for transport errors.
type Failure struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ChargeResult is a tagged result: exactly one of Payment or Failure is set.
// Raw always holds the response body as valid JSON.
type ChargeResult struct {
	StatusCode int
	Payment    *Payment
	Failure    *Failure
	Raw        json.RawMessage
}

// OK reports whether the gateway accepted the charge.
func (r *ChargeResult) OK() bool {
	return r != nil && r.Payment != nil
}
