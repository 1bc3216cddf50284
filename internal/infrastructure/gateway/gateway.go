package gateway

import (
	"fmt"

	"checkout-backend/config"
	"checkout-backend/internal/domain"
)

// New selects the configured provider strategy. The callers only see the
// domain.PaymentGateway capability interface.
func New(cfg *config.Config) (domain.PaymentGateway, error) {
	switch cfg.PaymentProvider {
	case "cashfree":
		return NewCashfreeGateway(
			cfg.CashfreeAPIURL,
			cfg.CashfreeAppID,
			cfg.CashfreeSecretKey,
			cfg.CashfreeAPIVersion,
			cfg.FrontendURL,
			cfg.GatewayTimeout,
		), nil
	case "razorpay":
		return NewRazorpayGateway(
			cfg.RazorpayAPIURL,
			cfg.RazorpayKeyID,
			cfg.RazorpayKeySecret,
			cfg.GatewayTimeout,
		), nil
	case "stripe":
		return NewStripeGateway(
			cfg.StripeAPIURL,
			cfg.StripeSecretKey,
			cfg.GatewayTimeout,
		), nil
	}
	return nil, fmt.Errorf("unknown payment provider: %s", cfg.PaymentProvider)
}
