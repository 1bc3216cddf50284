package usecase

import (
	"context"

	"checkout-backend/internal/domain"
	"checkout-backend/pkg/logger"
)

// CheckoutUsecase is the single source of truth for a checkout session. Every
// mutator is a total function: absent carts and unknown item IDs degrade to
// no-ops, and each mutation is persisted synchronously before returning.
type CheckoutUsecase struct {
	sessions   domain.SessionRepository
	cartSource domain.CartSource
	cartUserID int64
}

func NewCheckoutUsecase(sessions domain.SessionRepository, cartSource domain.CartSource, cartUserID int64) *CheckoutUsecase {
	return &CheckoutUsecase{
		sessions:   sessions,
		cartSource: cartSource,
		cartUserID: cartUserID,
	}
}

// GetSession returns the current session snapshot.
func (u *CheckoutUsecase) GetSession(ctx context.Context, key string) (*domain.CheckoutSession, error) {
	return u.sessions.Get(ctx, key)
}

// LoadCart returns the session cart, fetching it from the cart source when
// the session holds none yet. An upstream failure yields an empty cart, not
// an error: the flow degrades to an empty-cart display.
func (u *CheckoutUsecase) LoadCart(ctx context.Context, key string) (*domain.Cart, error) {
	session, err := u.sessions.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if session.Cart != nil {
		return session.Cart, nil
	}

	cart, fetchErr := u.cartSource.FetchCart(ctx, u.cartUserID)
	if fetchErr != nil {
		logger.WithContext(ctx).Warn().Err(fetchErr).Msg("Cart source unavailable, serving empty cart")
		return &domain.Cart{UserID: u.cartUserID}, nil
	}

	session.Cart = cart
	if err := u.sessions.Save(ctx, key, session); err != nil {
		return nil, err
	}
	return cart, nil
}

// SetCart replaces the session cart wholesale.
func (u *CheckoutUsecase) SetCart(ctx context.Context, key string, cart *domain.Cart) (*domain.CheckoutSession, error) {
	return u.mutate(ctx, key, func(s *domain.CheckoutSession) {
		if cart != nil {
			cart.Recompute()
		}
		s.Cart = cart
	})
}

// UpdateQuantity sets a line item quantity (clamped to a minimum of 1) and
// recomputes the cart aggregates. No-op when the cart or item is absent.
func (u *CheckoutUsecase) UpdateQuantity(ctx context.Context, key string, itemID int64, quantity int) (*domain.CheckoutSession, error) {
	return u.mutate(ctx, key, func(s *domain.CheckoutSession) {
		s.Cart.UpdateQuantity(itemID, quantity)
	})
}

// RemoveLineItem deletes a line item and recomputes the cart aggregates.
// No-op when the cart or item is absent.
func (u *CheckoutUsecase) RemoveLineItem(ctx context.Context, key string, itemID int64) (*domain.CheckoutSession, error) {
	return u.mutate(ctx, key, func(s *domain.CheckoutSession) {
		s.Cart.RemoveLineItem(itemID)
	})
}

// SubmitAddress stores the shipping address and records the delivery step as
// completed.
func (u *CheckoutUsecase) SubmitAddress(ctx context.Context, key string, address domain.Address) (*domain.CheckoutSession, error) {
	return u.mutate(ctx, key, func(s *domain.CheckoutSession) {
		s.Address = &address
		s.CompleteStep(domain.StepDelivery)
	})
}

// ChoosePaymentMethod stores the selected method. Cash on delivery needs no
// gateway round-trip: the payment attempt starts immediately and the payment
// step completes.
func (u *CheckoutUsecase) ChoosePaymentMethod(ctx context.Context, key string, method domain.PaymentMethod) (*domain.CheckoutSession, error) {
	return u.mutate(ctx, key, func(s *domain.CheckoutSession) {
		s.PaymentMethod = method
		if method == domain.PaymentMethodCOD {
			if !s.OrderStatus.IsTerminal() {
				s.OrderStatus = domain.OrderStatusPending
			}
			s.CompleteStep(domain.StepPayment)
		}
	})
}

// SetPaymentCompleted flips the payment-completion flag.
func (u *CheckoutUsecase) SetPaymentCompleted(ctx context.Context, key string, completed bool) (*domain.CheckoutSession, error) {
	return u.mutate(ctx, key, func(s *domain.CheckoutSession) {
		s.PaymentCompleted = completed
	})
}

// StepVerdict reports whether navigation from the current step to the target
// step is allowed. A denied navigation is a no-op verdict, never an error.
func (u *CheckoutUsecase) StepVerdict(ctx context.Context, key string, current, target int) (allowed bool, maxStep int, err error) {
	session, err := u.sessions.Get(ctx, key)
	if err != nil {
		return false, 0, err
	}
	maxStep = session.MaxNavigableStep(current)
	return target <= maxStep, maxStep, nil
}

// Reset clears the whole session back to its initial empty state: the
// "continue shopping" action after a completed or abandoned flow.
func (u *CheckoutUsecase) Reset(ctx context.Context, key string) (*domain.CheckoutSession, error) {
	return u.mutate(ctx, key, func(s *domain.CheckoutSession) {
		s.Reset()
	})
}

// mutate applies fn to the current session and persists the result. This is
// the single write path: no caller mutates session fields directly.
func (u *CheckoutUsecase) mutate(ctx context.Context, key string, fn func(*domain.CheckoutSession)) (*domain.CheckoutSession, error) {
	session, err := u.sessions.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	fn(session)
	if err := u.sessions.Save(ctx, key, session); err != nil {
		return nil, err
	}
	return session, nil
}
