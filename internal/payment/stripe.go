package payment

import (
	"context"
	"fmt"
	"strconv"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// StripeConfig holds the Stripe checkout settings.
type StripeConfig struct {
	SecretKey  string
	SuccessURL string
	CancelURL  string
	Currency   string
}

// StripeGateway opens Stripe Checkout sessions in payment mode with a
// single inline-priced line item per course.
type StripeGateway struct {
	api *client.API
	cfg StripeConfig
}

// NewStripeGateway builds a gateway bound to the given secret key.
func NewStripeGateway(cfg StripeConfig) *StripeGateway {
	if cfg.Currency == "" {
		cfg.Currency = "usd"
	}
	sc := &client.API{}
	sc.Init(cfg.SecretKey, nil)
	return &StripeGateway{api: sc, cfg: cfg}
}

// OpenSession creates a checkout session priced at the course price.
// Stripe amounts are in the smallest currency unit.
func (g *StripeGateway) OpenSession(ctx context.Context, c Checkout) (*Session, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(g.cfg.SuccessURL),
		CancelURL:  stripe.String(g.cfg.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(g.cfg.Currency),
					UnitAmount: stripe.Int64(int64(c.Price) * 100),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(c.Title),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	if c.Email != "" {
		params.CustomerEmail = stripe.String(c.Email)
	}
	params.Context = ctx
	params.AddMetadata("course_id", strconv.FormatUint(c.CourseID, 10))
	if c.PaymentRef != "" {
		params.SetIdempotencyKey(c.PaymentRef)
	}

	s, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("%w: open session: %v", ErrGateway, err)
	}
	return &Session{ID: s.ID, CheckoutURL: s.URL}, nil
}

// GetSession retrieves the current status of a checkout session.
func (g *StripeGateway) GetSession(ctx context.Context, id string) (*SessionStatus, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	s, err := g.api.CheckoutSessions.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("%w: get session %s: %v", ErrGateway, id, err)
	}
	return &SessionStatus{
		ID:            s.ID,
		PaymentStatus: string(s.PaymentStatus),
		Status:        string(s.Status),
	}, nil
}
