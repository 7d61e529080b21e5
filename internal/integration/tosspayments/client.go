package tosspayments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Client charges stored billing keys through the gateway REST API.
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a gateway client. A zero timeout leaves the http.Client unbounded.
func NewClient(baseURL, secretKey string, timeout time.Duration, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		secretKey: secretKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// ChargeBillingKey issues one charge against billingKey. Classification is by HTTP
// status only: 2xx yields Payment, anything else (including transport errors)
// yields Failure. The error return is reserved for requests that could not be built.
func (c *Client) ChargeBillingKey(ctx context.Context, billingKey string, req *ChargeRequest) (*ChargeResult, error) {
	bodyBytes, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal charge request: %w", err)
	}

	endpoint := c.baseURL + "/v1/billing/" + url.PathEscape(billingKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	// Basic auth with the secret key as username and an empty password
	httpReq.SetBasicAuth(c.secretKey, "")
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error("billing charge request failed",
			zap.String("order_id", req.OrderID),
			zap.Error(err),
		)
		return networkFailure(err), nil
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("failed to read billing charge response",
			zap.String("order_id", req.OrderID),
			zap.Int("status", resp.StatusCode),
			zap.Error(err),
		)
		return networkFailure(err), nil
	}

	result := &ChargeResult{
		StatusCode: resp.StatusCode,
		Raw:        rawJSON(respBody),
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var failure Failure
		_ = json.Unmarshal(respBody, &failure)
		result.Failure = &failure

		c.logger.Warn("billing charge rejected",
			zap.String("order_id", req.OrderID),
			zap.Int("status", resp.StatusCode),
			zap.String("code", failure.Code),
			zap.String("message", failure.Message),
		)
		return result, nil
	}

	var payment Payment
	if err := json.Unmarshal(respBody, &payment); err != nil {
		c.logger.Warn("billing charge succeeded with unparsable body",
			zap.String("order_id", req.OrderID),
			zap.Error(err),
		)
	}
	result.Payment = &payment

	c.logger.Info("billing charge approved",
		zap.String("order_id", req.OrderID),
		zap.String("payment_key", payment.PaymentKey),
		zap.Int64("amount", req.Amount),
	)

	return result, nil
}

func networkFailure(err error) *ChargeResult {
	failure := &Failure{Code: CodeNetworkError, Message: err.Error()}
	raw, _ := json.Marshal(failure)
	return &ChargeResult{Failure: failure, Raw: raw}
}

// rawJSON keeps body verbatim when it is JSON and wraps it as {"raw": "..."} otherwise.
func rawJSON(body []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && json.Valid(trimmed) {
		return json.RawMessage(trimmed)
	}
	wrapped, _ := json.Marshal(map[string]string{"raw": string(body)})
	return wrapped
}
