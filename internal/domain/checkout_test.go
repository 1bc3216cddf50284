package domain_test

import (
	"testing"

	"checkout-backend/internal/domain"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteStepIdempotentAndSorted(t *testing.T) {
	s := domain.NewCheckoutSession()
	assert.Equal(t, []int{1}, s.CompletedSteps)

	s.CompleteStep(3)
	s.CompleteStep(2)
	assert.Equal(t, []int{1, 2, 3}, s.CompletedSteps)

	s.CompleteStep(2)
	assert.Equal(t, []int{1, 2, 3}, s.CompletedSteps)
}

func TestCanNavigate(t *testing.T) {
	tests := []struct {
		name      string
		completed []int
		current   int
		target    int
		want      bool
	}{
		{name: "forward_blocked", completed: []int{1, 2}, current: 2, target: 3, want: false},
		{name: "forward_after_completion", completed: []int{1, 2, 3}, current: 2, target: 3, want: true},
		{name: "backward_always_allowed", completed: []int{1}, current: 3, target: 1, want: true},
		{name: "current_step", completed: []int{1}, current: 2, target: 2, want: true},
		{name: "jump_past_gate", completed: []int{1}, current: 1, target: 4, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := domain.NewCheckoutSession()
			s.CompletedSteps = tt.completed
			assert.Equal(t, tt.want, s.CanNavigate(tt.current, tt.target))
		})
	}
}

func TestMaxNavigableStepIncludesCurrent(t *testing.T) {
	s := domain.NewCheckoutSession()
	// Completed only {1}, but the UI may already render step 2 (e.g. after a
	// reload on the delivery page); step 2 stays reachable.
	assert.Equal(t, 2, s.MaxNavigableStep(2))
	assert.Equal(t, 1, s.MaxNavigableStep(1))
}

func TestOrderStatusFromGateway(t *testing.T) {
	tests := []struct {
		gateway string
		want    domain.OrderStatus
		ok      bool
	}{
		{gateway: "PAID", want: domain.OrderStatusSuccess, ok: true},
		{gateway: "PENDING", want: domain.OrderStatusPending, ok: true},
		{gateway: "FAILED", want: domain.OrderStatusFailure, ok: true},
		{gateway: "USER_DROPPED", want: domain.OrderStatusUnset, ok: false},
		{gateway: "", want: domain.OrderStatusUnset, ok: false},
		{gateway: "paid", want: domain.OrderStatusUnset, ok: false},
	}

	for _, tt := range tests {
		t.Run("status_"+tt.gateway, func(t *testing.T) {
			got, ok := domain.OrderStatusFromGateway(tt.gateway)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
			if !tt.ok {
				// Unrecognized vocabulary must never resolve to success.
				assert.NotEqual(t, domain.OrderStatusSuccess, got)
			}
		})
	}
}

func TestOrderStatusIsTerminal(t *testing.T) {
	assert.True(t, domain.OrderStatusSuccess.IsTerminal())
	assert.True(t, domain.OrderStatusFailure.IsTerminal())
	assert.False(t, domain.OrderStatusPending.IsTerminal())
	assert.False(t, domain.OrderStatusUnset.IsTerminal())
}

func TestPaymentMethodValid(t *testing.T) {
	assert.True(t, domain.PaymentMethodCard.Valid())
	assert.True(t, domain.PaymentMethodCOD.Valid())
	assert.False(t, domain.PaymentMethod("cheque").Valid())
	assert.False(t, domain.PaymentMethodNone.Valid())
}

func TestSessionReset(t *testing.T) {
	s := domain.NewCheckoutSession()
	s.Cart = &domain.Cart{ID: 1}
	s.Address = &domain.Address{FirstName: "Asha"}
	s.PaymentMethod = domain.PaymentMethodUPI
	s.OrderStatus = domain.OrderStatusSuccess
	s.CompleteStep(2)
	s.CompleteStep(3)
	s.PaymentCompleted = true

	s.Reset()

	assert.Nil(t, s.Cart)
	assert.Nil(t, s.Address)
	assert.Equal(t, domain.PaymentMethodNone, s.PaymentMethod)
	assert.Equal(t, domain.OrderStatusUnset, s.OrderStatus)
	assert.Equal(t, []int{domain.StepCart}, s.CompletedSteps)
	assert.False(t, s.PaymentCompleted)
}

func TestSessionSerializationRoundTrip(t *testing.T) {
	s := domain.NewCheckoutSession()
	s.Cart = &domain.Cart{
		ID:     5,
		UserID: 9,
		Products: []domain.LineItem{
			{ID: 1, Title: "Lamp", Price: 49.5, Quantity: 2, DiscountPercentage: 12.5, Thumbnail: "lamp.png"},
		},
	}
	s.Cart.Recompute()
	s.Address = &domain.Address{
		FirstName: "Asha", LastName: "Rao", StreetAddress: "12 MG Road",
		City: "Bengaluru", State: "KA", PostalCode: "560001",
		Country: "IN", PhoneNumber: "9999999999",
	}
	s.PaymentMethod = domain.PaymentMethodCard
	s.OrderStatus = domain.OrderStatusPending
	s.CompleteStep(2)
	s.PaymentCompleted = false

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var restored domain.CheckoutSession
	require.NoError(t, json.Unmarshal(data, &restored))

	assert.Equal(t, *s, restored)
}
