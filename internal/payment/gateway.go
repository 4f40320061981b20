// Package payment opens and inspects externally hosted checkout sessions
// for card payments.
package payment

import (
	"context"
	"errors"
)

// ErrGateway wraps every failure talking to the payment provider.
// Handlers translate it into an HTTP 502 response.
var ErrGateway = errors.New("payment gateway error")

// Values reported by the provider for a settled checkout.
const (
	StatusPaid     = "paid"
	StatusComplete = "complete"
)

// Checkout describes what is being bought.
type Checkout struct {
	PaymentRef string // idempotency key for the provider
	CourseID   uint64
	Title      string
	Price      uint32 // whole currency units
	Email      string
}

// Session is a freshly opened checkout session.
type Session struct {
	ID          string `json:"id"`
	CheckoutURL string `json:"checkout_url"`
}

// SessionStatus is the provider's view of a checkout session.
type SessionStatus struct {
	ID            string `json:"id"`
	PaymentStatus string `json:"payment_status"`
	Status        string `json:"status"`
}

// Confirmed reports whether the session has been paid and completed.
func (s SessionStatus) Confirmed() bool {
	return s.PaymentStatus == StatusPaid && s.Status == StatusComplete
}

// Gateway is the boundary to the external payment provider.
type Gateway interface {
	OpenSession(ctx context.Context, c Checkout) (*Session, error)
	GetSession(ctx context.Context, id string) (*SessionStatus, error)
}
