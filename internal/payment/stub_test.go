package payment

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/iliyamo/learning-platform/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStatusConfirmed(t *testing.T) {
	assert.True(t, SessionStatus{PaymentStatus: "paid", Status: "complete"}.Confirmed())
	assert.False(t, SessionStatus{PaymentStatus: "paid", Status: "open"}.Confirmed())
	assert.False(t, SessionStatus{PaymentStatus: "unpaid", Status: "complete"}.Confirmed())
}

func TestStubGatewayLifecycle(t *testing.T) {
	ctx := context.Background()
	g := NewStubGateway("https://pay.example/checkout")

	s, err := g.OpenSession(ctx, Checkout{CourseID: 1, Title: "Go", Price: 1000})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(s.ID, "stub_"))
	assert.Equal(t, "https://pay.example/checkout/"+s.ID, s.CheckoutURL)

	st, err := g.GetSession(ctx, s.ID)
	require.NoError(t, err)
	assert.False(t, st.Confirmed())

	require.True(t, g.MarkPaid(s.ID))
	st, err = g.GetSession(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, st.Confirmed())

	assert.False(t, g.MarkPaid("stub_missing"))
}

func TestStubGatewayForeignStubSessionIsOpen(t *testing.T) {
	// a fresh gateway, as in another process, has never seen this id
	st, err := NewStubGateway("").GetSession(context.Background(), "stub_0123abcd")
	require.NoError(t, err)
	assert.Equal(t, "stub_0123abcd", st.ID)
	assert.False(t, st.Confirmed())
}

func TestStubGatewayErrors(t *testing.T) {
	ctx := context.Background()
	g := NewStubGateway("")

	_, err := g.GetSession(ctx, "nope")
	assert.ErrorIs(t, err, ErrGateway)

	g.FailWith(errors.New("connection refused"))
	_, err = g.OpenSession(ctx, Checkout{})
	assert.ErrorIs(t, err, ErrGateway)

	g.FailWith(nil)
	_, err = g.OpenSession(ctx, Checkout{})
	assert.NoError(t, err)
}

func TestFromConfig(t *testing.T) {
	g, err := FromConfig(config.PaymentConfig{Gateway: "stub", StubCheckout: "http://x/checkout"})
	require.NoError(t, err)
	assert.IsType(t, &StubGateway{}, g)

	g, err = FromConfig(config.PaymentConfig{Gateway: "stripe", StripeKey: "sk_test_123"})
	require.NoError(t, err)
	assert.IsType(t, &StripeGateway{}, g)

	_, err = FromConfig(config.PaymentConfig{Gateway: "paypal"})
	assert.Error(t, err)
}
