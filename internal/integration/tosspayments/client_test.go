package tosspayments

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestChargeBillingKey_Success(t *testing.T) {
	var gotPath, gotUser, gotPass string
	var gotBody ChargeRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, gotPass, _ = r.BasicAuth()
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotBody))

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"paymentKey":"pk_1","orderId":"sub-1_1700000000000","status":"DONE","totalAmount":10000}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/", "test_sk", 5*time.Second, zap.NewNop())
	res, err := client.ChargeBillingKey(context.Background(), "bk_abc", &ChargeRequest{
		Amount:        10000,
		CustomerKey:   "cust_1",
		OrderID:       "sub-1_1700000000000",
		OrderName:     "Pro 정기결제",
		CustomerEmail: "user@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "/v1/billing/bk_abc", gotPath)
	assert.Equal(t, "test_sk", gotUser)
	assert.Empty(t, gotPass)
	assert.Equal(t, int64(10000), gotBody.Amount)
	assert.Equal(t, "cust_1", gotBody.CustomerKey)
	assert.Equal(t, "Pro 정기결제", gotBody.OrderName)
	assert.Zero(t, gotBody.TaxFreeAmount)

	require.True(t, res.OK())
	assert.Nil(t, res.Failure)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "pk_1", res.Payment.PaymentKey)
	assert.JSONEq(t, `{"paymentKey":"pk_1","orderId":"sub-1_1700000000000","status":"DONE","totalAmount":10000}`, string(res.Raw))
}

func TestChargeBillingKey_Classification(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantOK    bool
		wantCode  string
		wantMsg   string
		wantRawEq string
	}{
		{
			name:      "card rejected",
			status:    http.StatusBadRequest,
			body:      `{"code":"REJECT_CARD_COMPANY","message":"한도초과"}`,
			wantCode:  "REJECT_CARD_COMPANY",
			wantMsg:   "한도초과",
			wantRawEq: `{"code":"REJECT_CARD_COMPANY","message":"한도초과"}`,
		},
		{
			name:      "revoked billing key",
			status:    http.StatusNotFound,
			body:      `{"code":"NOT_FOUND_BILLING_KEY","message":"billing key not found"}`,
			wantCode:  "NOT_FOUND_BILLING_KEY",
			wantMsg:   "billing key not found",
			wantRawEq: `{"code":"NOT_FOUND_BILLING_KEY","message":"billing key not found"}`,
		},
		{
			name:      "non json error body",
			status:    http.StatusBadGateway,
			body:      `upstream down`,
			wantRawEq: `{"raw":"upstream down"}`,
		},
		{
			name:      "created counts as success",
			status:    http.StatusCreated,
			body:      `{"paymentKey":"pk_2"}`,
			wantOK:    true,
			wantRawEq: `{"paymentKey":"pk_2"}`,
		},
		{
			name:      "success with non json body",
			status:    http.StatusOK,
			body:      `OK`,
			wantOK:    true,
			wantRawEq: `{"raw":"OK"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			res, err := NewClient(srv.URL, "sk", time.Second, zap.NewNop()).
				ChargeBillingKey(context.Background(), "bk", &ChargeRequest{Amount: 5000, OrderID: "o"})
			require.NoError(t, err)

			assert.Equal(t, tt.wantOK, res.OK())
			assert.Equal(t, tt.status, res.StatusCode)
			assert.JSONEq(t, tt.wantRawEq, string(res.Raw))
			if tt.wantOK {
				assert.Nil(t, res.Failure)
				return
			}
			require.NotNil(t, res.Failure)
			assert.Nil(t, res.Payment)
			assert.Equal(t, tt.wantCode, res.Failure.Code)
			assert.Equal(t, tt.wantMsg, res.Failure.Message)
		})
	}
}

func TestChargeBillingKey_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	res, err := NewClient(url, "sk", time.Second, zap.NewNop()).
		ChargeBillingKey(context.Background(), "bk", &ChargeRequest{Amount: 5000, OrderID: "o"})
	require.NoError(t, err)

	assert.False(t, res.OK())
	require.NotNil(t, res.Failure)
	assert.Equal(t, CodeNetworkError, res.Failure.Code)
	assert.NotEmpty(t, res.Failure.Message)
	assert.True(t, json.Valid(res.Raw))
}

func TestChargeBillingKey_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL, "sk", 20*time.Millisecond, zap.NewNop()).
		ChargeBillingKey(context.Background(), "bk", &ChargeRequest{Amount: 5000, OrderID: "o"})
	require.NoError(t, err)
	require.NotNil(t, res.Failure)
	assert.Equal(t, CodeNetworkError, res.Failure.Code)
}

func TestNewClient_DefaultBaseURL(t *testing.T) {
	c := NewClient("", "sk", 0, zap.NewNop())
	assert.Equal(t, DefaultBaseURL, c.baseURL)
	assert.Zero(t, c.httpClient.Timeout)
}
