package usecase

import (
	"context"
	"fmt"

	"checkout-backend/internal/domain"
	"checkout-backend/pkg/logger"
)

// Display statuses for the payment-result view. ResultError is distinct from
// FAILED: it marks an unresolvable status (unknown vendor vocabulary, missing
// order id) and prompts the user to retry the payment step.
const ResultError = "ERROR"

// PaymentResult is what the confirmation display reads.
type PaymentResult struct {
	Status      string             `json:"status"`
	OrderStatus domain.OrderStatus `json:"orderStatus"`
}

// PaymentUsecase drives the order status machine
// (unset → pending → {success, failure}) against the configured gateway and
// writes resolutions back into the checkout session.
type PaymentUsecase struct {
	sessions domain.SessionRepository
	gateway  domain.PaymentGateway
}

func NewPaymentUsecase(sessions domain.SessionRepository, gateway domain.PaymentGateway) *PaymentUsecase {
	return &PaymentUsecase{
		sessions: sessions,
		gateway:  gateway,
	}
}

// CreateOrder starts a payment attempt: it creates the gateway order and
// moves the session order status to pending. The session cart's discounted
// total is authoritative for the charge amount; the request amount is only a
// fallback for sessions without a cart.
func (u *PaymentUsecase) CreateOrder(ctx context.Context, key string, amount float64, customer domain.CustomerDetails) (*domain.GatewayOrder, error) {
	session, err := u.sessions.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	if session.Cart != nil && session.Cart.DiscountedTotal > 0 {
		amount = session.Cart.DiscountedTotal
	}
	if amount <= 0 {
		return nil, fmt.Errorf("order amount must be positive")
	}

	order, err := u.gateway.CreateOrder(ctx, amount, customer)
	if err != nil {
		return nil, err
	}

	if !session.OrderStatus.IsTerminal() {
		session.OrderStatus = domain.OrderStatusPending
		if err := u.sessions.Save(ctx, key, session); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// CreateSession proxies payment-session creation to the gateway. The result
// shape is dispatched by method and channel tag; it passes through untouched.
func (u *PaymentUsecase) CreateSession(ctx context.Context, req domain.SessionRequest) (*domain.GatewaySession, error) {
	if req.PaymentSessionID == "" {
		return nil, fmt.Errorf("payment session id is required")
	}
	if !req.Method.Valid() {
		return nil, fmt.Errorf("unknown payment method %q", req.Method)
	}
	return u.gateway.CreateSession(ctx, req)
}

// ResolveResult queries the gateway for the payment outcome after
// redirect-back and applies it to the session. Terminal statuses are never
// revisited; unrecognized gateway vocabulary yields the ERROR display state
// and leaves the session untouched.
func (u *PaymentUsecase) ResolveResult(ctx context.Context, key, orderID string) (*PaymentResult, error) {
	session, err := u.sessions.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	if orderID == "" {
		return &PaymentResult{Status: ResultError, OrderStatus: session.OrderStatus}, nil
	}

	gatewayStatus, err := u.gateway.GetStatus(ctx, orderID)
	if err != nil {
		return nil, err
	}

	status, ok := domain.OrderStatusFromGateway(gatewayStatus)
	if !ok {
		logger.WithContext(ctx).Warn().
			Str("order_id", orderID).
			Str("gateway_status", gatewayStatus).
			Msg("Unresolvable gateway status")
		return &PaymentResult{Status: ResultError, OrderStatus: session.OrderStatus}, nil
	}

	if !session.OrderStatus.IsTerminal() {
		session.OrderStatus = status
		if status.IsTerminal() {
			session.PaymentCompleted = true
			session.CompleteStep(domain.StepPayment)
		}
		if err := u.sessions.Save(ctx, key, session); err != nil {
			return nil, err
		}
	}

	return &PaymentResult{Status: gatewayStatus, OrderStatus: session.OrderStatus}, nil
}
