package usecase_test

import (
	"context"
	"errors"
	"testing"

	"checkout-backend/internal/domain"
	"checkout-backend/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	createOrderFunc   func(ctx context.Context, amount float64, customer domain.CustomerDetails) (*domain.GatewayOrder, error)
	createSessionFunc func(ctx context.Context, req domain.SessionRequest) (*domain.GatewaySession, error)
	getStatusFunc     func(ctx context.Context, orderID string) (string, error)
}

func (g *fakeGateway) CreateOrder(ctx context.Context, amount float64, customer domain.CustomerDetails) (*domain.GatewayOrder, error) {
	return g.createOrderFunc(ctx, amount, customer)
}

func (g *fakeGateway) CreateSession(ctx context.Context, req domain.SessionRequest) (*domain.GatewaySession, error) {
	return g.createSessionFunc(ctx, req)
}

func (g *fakeGateway) GetStatus(ctx context.Context, orderID string) (string, error) {
	return g.getStatusFunc(ctx, orderID)
}

func statusGateway(status string) *fakeGateway {
	return &fakeGateway{
		getStatusFunc: func(ctx context.Context, orderID string) (string, error) {
			return status, nil
		},
	}
}

func TestCreateOrderUsesCartTotalAndMarksPending(t *testing.T) {
	repo := newFakeSessionRepository()
	checkout := usecase.NewCheckoutUsecase(repo, &fakeCartSource{}, 1)
	_, err := checkout.SetCart(context.Background(), "sess", testCart())
	require.NoError(t, err)

	var charged float64
	gw := &fakeGateway{
		createOrderFunc: func(ctx context.Context, amount float64, customer domain.CustomerDetails) (*domain.GatewayOrder, error) {
			charged = amount
			return &domain.GatewayOrder{OrderID: "order_1", PaymentSessionID: "ps_1", Amount: amount, Currency: "INR"}, nil
		},
	}
	uc := usecase.NewPaymentUsecase(repo, gw)

	// Client-supplied amount is overridden by the session cart total.
	order, err := uc.CreateOrder(context.Background(), "sess", 9999, domain.CustomerDetails{CustomerPhone: "9999999999"})
	require.NoError(t, err)
	assert.Equal(t, "order_1", order.OrderID)
	assert.Equal(t, 18.0, charged)

	session, err := repo.Get(context.Background(), "sess")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, session.OrderStatus)
}

func TestCreateOrderRejectsNonPositiveAmount(t *testing.T) {
	repo := newFakeSessionRepository()
	uc := usecase.NewPaymentUsecase(repo, &fakeGateway{})

	_, err := uc.CreateOrder(context.Background(), "sess", 0, domain.CustomerDetails{})
	assert.Error(t, err)
}

func TestCreateSessionValidation(t *testing.T) {
	uc := usecase.NewPaymentUsecase(newFakeSessionRepository(), &fakeGateway{
		createSessionFunc: func(ctx context.Context, req domain.SessionRequest) (*domain.GatewaySession, error) {
			return &domain.GatewaySession{Action: domain.SessionActionRedirect, URL: "https://pay.example/x"}, nil
		},
	})
	ctx := context.Background()

	_, err := uc.CreateSession(ctx, domain.SessionRequest{Method: domain.PaymentMethodUPI})
	assert.Error(t, err)

	_, err = uc.CreateSession(ctx, domain.SessionRequest{PaymentSessionID: "ps_1", Method: "cheque"})
	assert.Error(t, err)

	result, err := uc.CreateSession(ctx, domain.SessionRequest{PaymentSessionID: "ps_1", Method: domain.PaymentMethodUPI, Channel: "collect"})
	require.NoError(t, err)
	assert.Equal(t, domain.SessionActionRedirect, result.Action)
}

func TestResolveResultMapping(t *testing.T) {
	tests := []struct {
		name            string
		gatewayStatus   string
		wantStatus      string
		wantOrderStatus domain.OrderStatus
		wantCompleted   bool
		wantStepDone    bool
	}{
		{
			name:            "paid",
			gatewayStatus:   "PAID",
			wantStatus:      "PAID",
			wantOrderStatus: domain.OrderStatusSuccess,
			wantCompleted:   true,
			wantStepDone:    true,
		},
		{
			name:            "failed",
			gatewayStatus:   "FAILED",
			wantStatus:      "FAILED",
			wantOrderStatus: domain.OrderStatusFailure,
			wantCompleted:   true,
			wantStepDone:    true,
		},
		{
			name:            "pending",
			gatewayStatus:   "PENDING",
			wantStatus:      "PENDING",
			wantOrderStatus: domain.OrderStatusPending,
			wantCompleted:   false,
			wantStepDone:    false,
		},
		{
			name:            "unknown_vocabulary",
			gatewayStatus:   "USER_DROPPED",
			wantStatus:      usecase.ResultError,
			wantOrderStatus: domain.OrderStatusPending,
			wantCompleted:   false,
			wantStepDone:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeSessionRepository()
			checkout := usecase.NewCheckoutUsecase(repo, &fakeCartSource{}, 1)
			_, err := checkout.ChoosePaymentMethod(context.Background(), "sess", domain.PaymentMethodUPI)
			require.NoError(t, err)
			// A payment attempt is underway.
			session, err := repo.Get(context.Background(), "sess")
			require.NoError(t, err)
			session.OrderStatus = domain.OrderStatusPending
			require.NoError(t, repo.Save(context.Background(), "sess", session))

			uc := usecase.NewPaymentUsecase(repo, statusGateway(tt.gatewayStatus))

			result, err := uc.ResolveResult(context.Background(), "sess", "order_1")
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, result.Status)
			assert.Equal(t, tt.wantOrderStatus, result.OrderStatus)

			session, err = repo.Get(context.Background(), "sess")
			require.NoError(t, err)
			assert.Equal(t, tt.wantOrderStatus, session.OrderStatus)
			assert.Equal(t, tt.wantCompleted, session.PaymentCompleted)
			if tt.wantStepDone {
				assert.Contains(t, session.CompletedSteps, domain.StepPayment)
			} else {
				assert.NotContains(t, session.CompletedSteps, domain.StepPayment)
			}
		})
	}
}

func TestResolveResultMissingOrderID(t *testing.T) {
	uc := usecase.NewPaymentUsecase(newFakeSessionRepository(), statusGateway("PAID"))

	result, err := uc.ResolveResult(context.Background(), "sess", "")
	require.NoError(t, err)
	assert.Equal(t, usecase.ResultError, result.Status)
}

func TestResolveResultTerminalStatusNotRevisited(t *testing.T) {
	repo := newFakeSessionRepository()
	session := domain.NewCheckoutSession()
	session.OrderStatus = domain.OrderStatusSuccess
	session.PaymentCompleted = true
	session.CompleteStep(domain.StepPayment)
	require.NoError(t, repo.Save(context.Background(), "sess", session))

	uc := usecase.NewPaymentUsecase(repo, statusGateway("FAILED"))

	result, err := uc.ResolveResult(context.Background(), "sess", "order_1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusSuccess, result.OrderStatus)

	stored, err := repo.Get(context.Background(), "sess")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusSuccess, stored.OrderStatus)
}

func TestResolveResultGatewayErrorPropagates(t *testing.T) {
	gw := &fakeGateway{
		getStatusFunc: func(ctx context.Context, orderID string) (string, error) {
			return "", errors.New("gateway unreachable")
		},
	}
	uc := usecase.NewPaymentUsecase(newFakeSessionRepository(), gw)

	_, err := uc.ResolveResult(context.Background(), "sess", "order_1")
	assert.Error(t, err)
}
