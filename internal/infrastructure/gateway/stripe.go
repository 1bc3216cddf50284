package gateway

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"checkout-backend/internal/domain"

	"github.com/goccy/go-json"
)

// StripeGateway talks to the Stripe PaymentIntents API. Confirmation happens
// client-side against the intent's client secret.
type StripeGateway struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

func NewStripeGateway(baseURL, secretKey string, timeout time.Duration) *StripeGateway {
	return &StripeGateway{
		baseURL:   baseURL,
		secretKey: secretKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type stripePaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

func (g *StripeGateway) CreateOrder(ctx context.Context, amount float64, customer domain.CustomerDetails) (*domain.GatewayOrder, error) {
	form := url.Values{}
	// Stripe amounts are in the currency's minor unit.
	form.Set("amount", strconv.FormatInt(int64(math.Round(amount*100)), 10))
	form.Set("currency", "inr")
	form.Set("automatic_payment_methods[enabled]", "true")
	if customer.CustomerEmail != "" {
		form.Set("receipt_email", customer.CustomerEmail)
	}

	body, err := g.post(ctx, g.baseURL+"/payment_intents", form)
	if err != nil {
		return nil, err
	}

	var intent stripePaymentIntent
	if err := json.Unmarshal(body, &intent); err != nil {
		return nil, fmt.Errorf("failed to decode stripe intent response: %w", err)
	}

	return &domain.GatewayOrder{
		OrderID:          intent.ID,
		PaymentSessionID: intent.ClientSecret,
		Amount:           amount,
		Currency:         strings.ToUpper(intent.Currency),
		Raw:              body,
	}, nil
}

func (g *StripeGateway) CreateSession(ctx context.Context, req domain.SessionRequest) (*domain.GatewaySession, error) {
	raw, err := json.Marshal(map[string]string{
		"client_secret": req.PaymentSessionID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal stripe session payload: %w", err)
	}
	return &domain.GatewaySession{
		Action: domain.SessionActionInline,
		Raw:    raw,
	}, nil
}

func (g *StripeGateway) GetStatus(ctx context.Context, orderID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/payment_intents/"+orderID, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build stripe status request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.secretKey)

	body, err := g.do(req)
	if err != nil {
		return "", err
	}

	var intent stripePaymentIntent
	if err := json.Unmarshal(body, &intent); err != nil {
		return "", fmt.Errorf("failed to decode stripe intent response: %w", err)
	}
	return mapStripeStatus(intent.Status), nil
}

func mapStripeStatus(status string) string {
	switch status {
	case "succeeded":
		return domain.GatewayStatusPaid
	case "canceled":
		return domain.GatewayStatusFailed
	case "processing", "requires_payment_method", "requires_confirmation", "requires_action", "requires_capture":
		return domain.GatewayStatusPending
	}
	return status
}

func (g *StripeGateway) post(ctx context.Context, endpoint string, form url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build stripe request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return g.do(req)
}

func (g *StripeGateway) do(req *http.Request) ([]byte, error) {
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stripe request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read stripe response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &domain.GatewayError{StatusCode: resp.StatusCode, Body: body}
	}
	return body, nil
}
