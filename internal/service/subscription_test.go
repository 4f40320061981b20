package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/learning-platform/internal/access"
	"github.com/iliyamo/learning-platform/internal/model"
	"github.com/iliyamo/learning-platform/internal/service/servicetest"
)

func newSubscriptionFixture(t *testing.T) (*SubscriptionService, *servicetest.Subscriptions, uint64) {
	t.Helper()
	courses := servicetest.NewCourses()
	c := &model.Course{Title: "Go"}
	require.NoError(t, courses.Create(context.Background(), c))
	subs := servicetest.NewSubscriptions()
	return NewSubscriptionService(subs, courses), subs, c.ID
}

func reason(err error) string {
	var d *access.Denied
	if errors.As(err, &d) {
		return d.Reason
	}
	return ""
}

func TestSubscribeTwiceIsRejected(t *testing.T) {
	svc, _, course := newSubscriptionFixture(t)
	ctx := context.Background()

	sub, err := svc.Create(ctx, alice, 0, course)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, sub.UserID)

	_, err = svc.Create(ctx, alice, alice.ID, course)
	assert.ErrorIs(t, err, access.ErrDenied)
	assert.Equal(t, access.ReasonAlreadySubscribed, reason(err))
}

func TestSubscribeRaceCaughtByUniqueIndex(t *testing.T) {
	svc, subs, course := newSubscriptionFixture(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, alice, 0, course)
	require.NoError(t, err)

	subs.SkipExists = true
	_, err = svc.Create(ctx, alice, 0, course)
	assert.Equal(t, access.ReasonAlreadySubscribed, reason(err))
}

func TestSubscribeOnBehalfOfAnotherUser(t *testing.T) {
	svc, subs, course := newSubscriptionFixture(t)

	_, err := svc.Create(context.Background(), alice, bob.ID, course)
	assert.ErrorIs(t, err, access.ErrDenied)
	assert.Equal(t, access.ReasonForeignSubscriber, reason(err))
	assert.Zero(t, subs.Len())
}

func TestSubscribeValidation(t *testing.T) {
	svc, _, _ := newSubscriptionFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, alice, 0, 0)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Create(ctx, alice, 0, 123)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Create(ctx, staff, 0, 1)
	assert.ErrorIs(t, err, access.ErrDenied)
}

func TestSubscriptionListAndDestroy(t *testing.T) {
	svc, _, course := newSubscriptionFixture(t)
	ctx := context.Background()
	sub, err := svc.Create(ctx, alice, 0, course)
	require.NoError(t, err)

	mine, err := svc.List(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
	theirs, err := svc.List(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, theirs)

	assert.ErrorIs(t, svc.Destroy(ctx, bob, sub.ID), access.ErrDenied)
	require.NoError(t, svc.Destroy(ctx, alice, sub.ID))
	assert.ErrorIs(t, svc.Destroy(ctx, alice, sub.ID), ErrNotFound)
}
