package payment

import (
	"fmt"

	"github.com/iliyamo/learning-platform/internal/config"
)

// FromConfig returns the gateway named by cfg.Gateway.
func FromConfig(cfg config.PaymentConfig) (Gateway, error) {
	switch cfg.Gateway {
	case "stripe":
		return NewStripeGateway(StripeConfig{
			SecretKey:  cfg.StripeKey,
			SuccessURL: cfg.SuccessURL,
			CancelURL:  cfg.CancelURL,
			Currency:   cfg.Currency,
		}), nil
	case "stub", "":
		return NewStubGateway(cfg.StubCheckout), nil
	default:
		return nil, fmt.Errorf("unknown payment gateway %q", cfg.Gateway)
	}
}
