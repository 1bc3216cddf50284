package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"checkout-backend/internal/domain"

	"github.com/goccy/go-json"
)

// CashfreeGateway talks to the Cashfree PG API (sandbox or production,
// depending on the configured base URL).
type CashfreeGateway struct {
	baseURL    string
	appID      string
	secretKey  string
	apiVersion string
	returnURL  string
	httpClient *http.Client
}

func NewCashfreeGateway(baseURL, appID, secretKey, apiVersion, frontendURL string, timeout time.Duration) *CashfreeGateway {
	return &CashfreeGateway{
		baseURL:    baseURL,
		appID:      appID,
		secretKey:  secretKey,
		apiVersion: apiVersion,
		// {order_id} is a Cashfree template placeholder, substituted by the
		// gateway on redirect-back.
		returnURL: frontendURL + "/payment-result?order_id={order_id}",
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type cashfreeOrderResponse struct {
	OrderID          string `json:"order_id"`
	PaymentSessionID string `json:"payment_session_id"`
	OrderCurrency    string `json:"order_currency"`
}

func (g *CashfreeGateway) CreateOrder(ctx context.Context, amount float64, customer domain.CustomerDetails) (*domain.GatewayOrder, error) {
	orderID := fmt.Sprintf("order_%d", time.Now().UnixMilli())
	customerID := customer.CustomerID
	if customerID == "" {
		customerID = fmt.Sprintf("cust_%d", time.Now().UnixMilli())
	}

	payload := map[string]interface{}{
		"order_amount":   amount,
		"order_currency": "INR",
		"order_id":       orderID,
		"customer_details": map[string]string{
			"customer_id":    customerID,
			"customer_phone": customer.CustomerPhone,
		},
		"order_meta": map[string]string{
			"return_url": g.returnURL,
		},
	}

	body, err := g.post(ctx, g.baseURL+"/orders", payload)
	if err != nil {
		return nil, err
	}

	var order cashfreeOrderResponse
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, fmt.Errorf("failed to decode cashfree order response: %w", err)
	}

	return &domain.GatewayOrder{
		OrderID:          order.OrderID,
		PaymentSessionID: order.PaymentSessionID,
		Amount:           amount,
		Currency:         "INR",
		Raw:              body,
	}, nil
}

func (g *CashfreeGateway) CreateSession(ctx context.Context, req domain.SessionRequest) (*domain.GatewaySession, error) {
	details := make(map[string]string, len(req.Details)+1)
	for k, v := range req.Details {
		details[k] = v
	}
	if req.Channel != "" {
		details["channel"] = req.Channel
	}

	payload := map[string]interface{}{
		"payment_session_id": req.PaymentSessionID,
		"payment_method": map[string]interface{}{
			string(req.Method): details,
		},
	}

	body, err := g.post(ctx, g.baseURL+"/orders/sessions", payload)
	if err != nil {
		return nil, err
	}
	return sessionFromCashfreePayload(body), nil
}

// sessionFromCashfreePayload inspects the session response and tags it with
// the action the client should take. Unknown shapes fall back to the raw
// payload with an inline action.
func sessionFromCashfreePayload(body []byte) *domain.GatewaySession {
	var resp struct {
		Data struct {
			URL     string `json:"url"`
			Payload struct {
				QRCode  string `json:"qrcode"`
				Web     string `json:"web"`
				Default string `json:"default"`
			} `json:"payload"`
		} `json:"data"`
	}
	session := &domain.GatewaySession{Action: domain.SessionActionInline, Raw: body}
	if err := json.Unmarshal(body, &resp); err != nil {
		return session
	}

	switch {
	case resp.Data.Payload.QRCode != "":
		session.Action = domain.SessionActionQRCode
		session.QRCode = resp.Data.Payload.QRCode
	case resp.Data.URL != "":
		session.Action = domain.SessionActionRedirect
		session.URL = resp.Data.URL
	case resp.Data.Payload.Web != "":
		session.Action = domain.SessionActionRedirect
		session.URL = resp.Data.Payload.Web
	case resp.Data.Payload.Default != "":
		session.Action = domain.SessionActionDeepLink
		session.DeepLink = resp.Data.Payload.Default
	}
	return session
}

func (g *CashfreeGateway) GetStatus(ctx context.Context, orderID string) (string, error) {
	url := fmt.Sprintf("%s/orders/%s/payments", g.baseURL, orderID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build status request: %w", err)
	}
	g.setHeaders(req)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("cashfree status request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read cashfree status response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &domain.GatewayError{StatusCode: resp.StatusCode, Body: body}
	}

	var payments []struct {
		PaymentStatus string `json:"payment_status"`
	}
	if err := json.Unmarshal(body, &payments); err != nil {
		return "", fmt.Errorf("failed to decode cashfree payments response: %w", err)
	}

	// No payment attempt recorded yet counts as pending.
	if len(payments) == 0 {
		return domain.GatewayStatusPending, nil
	}
	return payments[0].PaymentStatus, nil
}

func (g *CashfreeGateway) post(ctx context.Context, url string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cashfree payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to build cashfree request: %w", err)
	}
	g.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cashfree request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read cashfree response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Vendor payload passes through verbatim for the UI.
		return nil, &domain.GatewayError{StatusCode: resp.StatusCode, Body: body}
	}
	return body, nil
}

func (g *CashfreeGateway) setHeaders(req *http.Request) {
	req.Header.Set("x-client-id", g.appID)
	req.Header.Set("x-client-secret", g.secretKey)
	req.Header.Set("x-api-version", g.apiVersion)
	req.Header.Set("Accept", "application/json")
}
