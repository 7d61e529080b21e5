// internal/service/renewal/result.go
package renewal

type ResultStatus string

const (
	ResultSuccess      ResultStatus = "success"
	ResultFailed       ResultStatus = "failed"
	ResultErrored      ResultStatus = "error"
	ResultExtendedFree ResultStatus = "extended_free"
	// Another run holds the subscription lock, or already renewed it.
	ResultSkipped ResultStatus = "skipped"
)

// ResultError carries the gateway's code and message for failed charges, or
// only a message for unexpected errors.
type ResultError struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// Result is the per-subscription outcome reported to the caller.
type Result struct {
	ID              string       `json:"id"`
	Status          ResultStatus `json:"status"`
	PaymentKey      string       `json:"paymentKey,omitempty"`
	NextBillingDate string       `json:"nextBillingDate,omitempty"`
	Error           *ResultError `json:"error,omitempty"`
}

// Report summarises one invocation of the renewal job.
type Report struct {
	RunID      string   `json:"run_id"`
	Date       string   `json:"date"`
	Processed  int      `json:"processed"`
	Expired    int      `json:"expired"`
	ExpiredIDs []string `json:"expired_ids"`
	Results    []Result `json:"results"`
}

// Count returns how many results ended with status.
func (r *Report) Count(status ResultStatus) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == status {
			n++
		}
	}
	return n
}
