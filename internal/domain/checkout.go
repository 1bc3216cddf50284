package domain

import "context"

// Checkout steps. Cart is always implicitly completed.
const (
	StepCart         = 1
	StepDelivery     = 2
	StepPayment      = 3
	StepConfirmation = 4
)

type PaymentMethod string

const (
	PaymentMethodNone         PaymentMethod = ""
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodUPI          PaymentMethod = "upi"
	PaymentMethodCOD          PaymentMethod = "cod"
	PaymentMethodBankTransfer PaymentMethod = "banktransfer"
)

var PaymentMethods = []PaymentMethod{
	PaymentMethodCard,
	PaymentMethodUPI,
	PaymentMethodCOD,
	PaymentMethodBankTransfer,
}

func (m PaymentMethod) Valid() bool {
	for _, known := range PaymentMethods {
		if m == known {
			return true
		}
	}
	return false
}

type OrderStatus string

const (
	OrderStatusUnset   OrderStatus = ""
	OrderStatusPending OrderStatus = "pending"
	OrderStatusSuccess OrderStatus = "success"
	OrderStatusFailure OrderStatus = "failure"
)

// IsTerminal reports whether the status admits no further transition.
// Pending is not terminal: an order may stay pending indefinitely when no
// gateway signal ever arrives, which is valid and non-erroring.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusSuccess || s == OrderStatusFailure
}

// Gateway status vocabulary, normalized across providers.
const (
	GatewayStatusPaid    = "PAID"
	GatewayStatusPending = "PENDING"
	GatewayStatusFailed  = "FAILED"
)

// OrderStatusFromGateway maps a gateway status string onto the order status
// machine. Unrecognized strings report ok=false so callers surface an explicit
// error display state instead of silently treating them as success.
func OrderStatusFromGateway(status string) (OrderStatus, bool) {
	switch status {
	case GatewayStatusPaid:
		return OrderStatusSuccess, true
	case GatewayStatusPending:
		return OrderStatusPending, true
	case GatewayStatusFailed:
		return OrderStatusFailure, true
	}
	return OrderStatusUnset, false
}

type Address struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	StreetAddress string `json:"streetAddress"`
	Apartment     string `json:"apartment"`
	City          string `json:"city"`
	State         string `json:"state"`
	PostalCode    string `json:"postalCode"`
	Country       string `json:"country"`
	PhoneNumber   string `json:"phoneNumber"`
}

// Complete reports whether every required shipping field is present.
// Apartment is optional; there is no cross-field validation.
func (a *Address) Complete() bool {
	return a.FirstName != "" && a.LastName != "" && a.StreetAddress != "" &&
		a.City != "" && a.State != "" && a.PostalCode != "" &&
		a.Country != "" && a.PhoneNumber != ""
}

// --- Checkout Session ---

// CheckoutSession is the aggregate root for one browser session's checkout
// flow. It is mutated exclusively through the checkout usecase so every change
// triggers recomputation and persistence.
type CheckoutSession struct {
	Cart             *Cart         `json:"cartData"`
	Address          *Address      `json:"address"`
	PaymentMethod    PaymentMethod `json:"paymentMethod"`
	OrderStatus      OrderStatus   `json:"orderStatus"`
	CompletedSteps   []int         `json:"completedSteps"`
	PaymentCompleted bool          `json:"paymentCompleted"`
}

// NewCheckoutSession returns an empty session with the cart step completed.
func NewCheckoutSession() *CheckoutSession {
	return &CheckoutSession{
		CompletedSteps: []int{StepCart},
	}
}

// CompleteStep records a step as completed, keeping the set sorted ascending.
// Idempotent.
func (s *CheckoutSession) CompleteStep(step int) {
	for _, done := range s.CompletedSteps {
		if done == step {
			return
		}
	}
	insertAt := len(s.CompletedSteps)
	for i, done := range s.CompletedSteps {
		if step < done {
			insertAt = i
			break
		}
	}
	s.CompletedSteps = append(s.CompletedSteps, 0)
	copy(s.CompletedSteps[insertAt+1:], s.CompletedSteps[insertAt:])
	s.CompletedSteps[insertAt] = step
}

// MaxNavigableStep returns the highest step reachable from the current one:
// max(completedSteps ∪ {current}).
func (s *CheckoutSession) MaxNavigableStep(current int) int {
	max := current
	for _, done := range s.CompletedSteps {
		if done > max {
			max = done
		}
	}
	return max
}

// CanNavigate reports whether the user may move from the current step to the
// target step. Backward navigation and already-completed steps are always
// allowed; forward jumps past the gate are denied.
func (s *CheckoutSession) CanNavigate(current, target int) bool {
	return target <= s.MaxNavigableStep(current)
}

// Reset clears the whole session back to its initial state, including the
// completed-step set and the payment flag. A returning shopper starts the
// flow over from the cart.
func (s *CheckoutSession) Reset() {
	s.Cart = nil
	s.Address = nil
	s.PaymentMethod = PaymentMethodNone
	s.OrderStatus = OrderStatusUnset
	s.CompletedSteps = []int{StepCart}
	s.PaymentCompleted = false
}

// --- Context Keys ---

type ctxKey string

// SessionContextKey carries the checkout session ID through request contexts.
const SessionContextKey ctxKey = "checkoutSessionID"

// --- Interfaces ---

// SessionRepository persists checkout sessions by key. Get must return a
// fresh empty session for missing or corrupt entries, never an error for
// those cases.
type SessionRepository interface {
	Get(ctx context.Context, key string) (*CheckoutSession, error)
	Save(ctx context.Context, key string, session *CheckoutSession) error
	Delete(ctx context.Context, key string) error
}

// CartSource fetches the initial cart for a user from the upstream catalog.
type CartSource interface {
	FetchCart(ctx context.Context, userID int64) (*Cart, error)
}
