package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"checkout-backend/internal/domain"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCashfreeTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *CashfreeGateway) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	gw := NewCashfreeGateway(srv.URL, "app-id", "secret", "2023-08-01", "http://localhost:3000", 5*time.Second)
	return srv, gw
}

func TestCashfreeCreateOrder(t *testing.T) {
	var gotHeaders http.Header
	var gotPayload map[string]interface{}

	_, gw := newCashfreeTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/orders", r.URL.Path)
		gotHeaders = r.Header.Clone()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"order_id":           "order_123",
			"payment_session_id": "session_abc",
			"order_currency":     "INR",
		})
	})

	order, err := gw.CreateOrder(context.Background(), 18.0, domain.CustomerDetails{CustomerPhone: "9999999999"})
	require.NoError(t, err)

	assert.Equal(t, "order_123", order.OrderID)
	assert.Equal(t, "session_abc", order.PaymentSessionID)
	assert.Equal(t, 18.0, order.Amount)

	assert.Equal(t, "app-id", gotHeaders.Get("x-client-id"))
	assert.Equal(t, "secret", gotHeaders.Get("x-client-secret"))
	assert.Equal(t, "2023-08-01", gotHeaders.Get("x-api-version"))

	assert.Equal(t, 18.0, gotPayload["order_amount"])
	assert.Equal(t, "INR", gotPayload["order_currency"])
	meta := gotPayload["order_meta"].(map[string]interface{})
	assert.Equal(t, "http://localhost:3000/payment-result?order_id={order_id}", meta["return_url"])
}

func TestCashfreeCreateOrderErrorPayloadVerbatim(t *testing.T) {
	vendorBody := `{"message":"order_amount exceeds limit","code":"order_amount_invalid"}`
	_, gw := newCashfreeTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(vendorBody))
	})

	_, err := gw.CreateOrder(context.Background(), 18.0, domain.CustomerDetails{})
	require.Error(t, err)

	var gwErr *domain.GatewayError
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, http.StatusBadRequest, gwErr.StatusCode)
	assert.Equal(t, vendorBody, string(gwErr.Body))
}

func TestCashfreeGetStatus(t *testing.T) {
	tests := []struct {
		name     string
		payments string
		want     string
	}{
		{name: "latest_payment", payments: `[{"payment_status":"SUCCESS_X"},{"payment_status":"FAILED"}]`, want: "SUCCESS_X"},
		{name: "paid", payments: `[{"payment_status":"PAID"}]`, want: "PAID"},
		{name: "no_payments_yet", payments: `[]`, want: "PENDING"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, gw := newCashfreeTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, "/orders/order_123/payments", r.URL.Path)
				w.Write([]byte(tt.payments))
			})

			status, err := gw.GetStatus(context.Background(), "order_123")
			require.NoError(t, err)
			assert.Equal(t, tt.want, status)
		})
	}
}

func TestCashfreeCreateSessionDispatch(t *testing.T) {
	tests := []struct {
		name       string
		response   string
		wantAction string
	}{
		{
			name:       "qr_channel",
			response:   `{"data":{"payload":{"qrcode":"upi://qr-data"}}}`,
			wantAction: domain.SessionActionQRCode,
		},
		{
			name:       "redirect_url",
			response:   `{"data":{"url":"https://payments.cashfree.com/x"}}`,
			wantAction: domain.SessionActionRedirect,
		},
		{
			name:       "deeplink",
			response:   `{"data":{"payload":{"default":"upi://pay?pa=x"}}}`,
			wantAction: domain.SessionActionDeepLink,
		},
		{
			name:       "inline_fallback",
			response:   `{"cf_payment_id":123}`,
			wantAction: domain.SessionActionInline,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, gw := newCashfreeTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, "/orders/sessions", r.URL.Path)
				w.Write([]byte(tt.response))
			})

			session, err := gw.CreateSession(context.Background(), domain.SessionRequest{
				PaymentSessionID: "session_abc",
				Method:           domain.PaymentMethodUPI,
				Channel:          "qrcode",
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantAction, session.Action)
			assert.JSONEq(t, tt.response, string(session.Raw))
		})
	}
}

func TestMapRazorpayStatus(t *testing.T) {
	assert.Equal(t, domain.GatewayStatusPaid, mapRazorpayStatus("paid"))
	assert.Equal(t, domain.GatewayStatusPending, mapRazorpayStatus("created"))
	assert.Equal(t, domain.GatewayStatusPending, mapRazorpayStatus("attempted"))
	// Unknown vendor strings pass through for the resolver to flag.
	assert.Equal(t, "voided", mapRazorpayStatus("voided"))
}

func TestMapStripeStatus(t *testing.T) {
	assert.Equal(t, domain.GatewayStatusPaid, mapStripeStatus("succeeded"))
	assert.Equal(t, domain.GatewayStatusFailed, mapStripeStatus("canceled"))
	assert.Equal(t, domain.GatewayStatusPending, mapStripeStatus("processing"))
	assert.Equal(t, domain.GatewayStatusPending, mapStripeStatus("requires_action"))
	assert.Equal(t, "mystery", mapStripeStatus("mystery"))
}
