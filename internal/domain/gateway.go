package domain

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
)

// --- Payment Gateway Entities ---

type CustomerDetails struct {
	CustomerID    string `json:"customerId"`
	CustomerName  string `json:"customerName,omitempty"`
	CustomerEmail string `json:"customerEmail,omitempty"`
	CustomerPhone string `json:"customerPhone"`
}

// GatewayOrder is the provider-issued handle for one payment attempt.
type GatewayOrder struct {
	OrderID          string          `json:"orderId"`
	PaymentSessionID string          `json:"paymentSessionId"`
	Amount           float64         `json:"amount"`
	Currency         string          `json:"currency"`
	Raw              json.RawMessage `json:"raw,omitempty"`
}

// Session actions, dispatched by the client on the session result.
const (
	SessionActionRedirect = "redirect" // hosted page, follow URL
	SessionActionQRCode   = "qrcode"   // render QR payload
	SessionActionDeepLink = "deeplink" // app deep-link set
	SessionActionInline   = "inline"   // confirm in place with Raw payload
)

// GatewaySession is the result of creating a payment session. The shape
// varies by method and channel; Raw carries the untouched provider payload.
type GatewaySession struct {
	Action   string          `json:"action"`
	URL      string          `json:"url,omitempty"`
	QRCode   string          `json:"qrcode,omitempty"`
	DeepLink string          `json:"deeplink,omitempty"`
	Raw      json.RawMessage `json:"raw,omitempty"`
}

// SessionRequest describes one payment-session creation, dispatched by
// method and channel tag (e.g. upi/collect vs upi/qrcode).
type SessionRequest struct {
	PaymentSessionID string            `json:"paymentSessionId"`
	Method           PaymentMethod     `json:"paymentMethod"`
	Channel          string            `json:"channel,omitempty"`
	Details          map[string]string `json:"paymentDetails,omitempty"`
}

// GatewayError carries a provider error response verbatim so the UI can
// display the vendor payload unmodified.
type GatewayError struct {
	StatusCode int
	Body       []byte
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway error (status %d): %s", e.StatusCode, string(e.Body))
}

// PaymentGateway is the capability interface every provider implements.
// Providers are pluggable strategies selected by configuration.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount float64, customer CustomerDetails) (*GatewayOrder, error)
	CreateSession(ctx context.Context, req SessionRequest) (*GatewaySession, error)
	GetStatus(ctx context.Context, orderID string) (string, error)
}
