package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"checkout-backend/internal/domain"

	"github.com/goccy/go-json"
)

// RazorpayGateway talks to the Razorpay orders API. Payment capture happens
// in the client SDK against the order id, so CreateSession is an inline
// confirmation rather than a redirect.
type RazorpayGateway struct {
	baseURL    string
	keyID      string
	keySecret  string
	httpClient *http.Client
}

func NewRazorpayGateway(baseURL, keyID, keySecret string, timeout time.Duration) *RazorpayGateway {
	return &RazorpayGateway{
		baseURL:   baseURL,
		keyID:     keyID,
		keySecret: keySecret,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type razorpayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

func (g *RazorpayGateway) CreateOrder(ctx context.Context, amount float64, customer domain.CustomerDetails) (*domain.GatewayOrder, error) {
	payload := map[string]interface{}{
		// Razorpay amounts are in paise.
		"amount":   int64(math.Round(amount * 100)),
		"currency": "INR",
		"receipt":  fmt.Sprintf("rcpt_%d", time.Now().UnixMilli()),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal razorpay payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/orders", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to build razorpay request: %w", err)
	}
	req.SetBasicAuth(g.keyID, g.keySecret)
	req.Header.Set("Content-Type", "application/json")

	body, err := g.do(req)
	if err != nil {
		return nil, err
	}

	var order razorpayOrder
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, fmt.Errorf("failed to decode razorpay order response: %w", err)
	}

	return &domain.GatewayOrder{
		OrderID: order.ID,
		// The client SDK takes the order id directly.
		PaymentSessionID: order.ID,
		Amount:           amount,
		Currency:         order.Currency,
		Raw:              body,
	}, nil
}

func (g *RazorpayGateway) CreateSession(ctx context.Context, req domain.SessionRequest) (*domain.GatewaySession, error) {
	raw, err := json.Marshal(map[string]string{
		"key":      g.keyID,
		"order_id": req.PaymentSessionID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal razorpay session payload: %w", err)
	}
	return &domain.GatewaySession{
		Action: domain.SessionActionInline,
		Raw:    raw,
	}, nil
}

func (g *RazorpayGateway) GetStatus(ctx context.Context, orderID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/orders/"+orderID, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build razorpay status request: %w", err)
	}
	req.SetBasicAuth(g.keyID, g.keySecret)

	body, err := g.do(req)
	if err != nil {
		return "", err
	}

	var order razorpayOrder
	if err := json.Unmarshal(body, &order); err != nil {
		return "", fmt.Errorf("failed to decode razorpay order response: %w", err)
	}
	return mapRazorpayStatus(order.Status), nil
}

// Razorpay order statuses are created → attempted → paid.
func mapRazorpayStatus(status string) string {
	switch status {
	case "paid":
		return domain.GatewayStatusPaid
	case "created", "attempted":
		return domain.GatewayStatusPending
	}
	return status
}

func (g *RazorpayGateway) do(req *http.Request) ([]byte, error) {
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("razorpay request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read razorpay response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &domain.GatewayError{StatusCode: resp.StatusCode, Body: body}
	}
	return body, nil
}
