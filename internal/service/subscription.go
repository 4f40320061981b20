package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/iliyamo/learning-platform/internal/access"
	"github.com/iliyamo/learning-platform/internal/model"
	"github.com/iliyamo/learning-platform/internal/repository"
)

// SubscriptionStore is the persistence contract for subscriptions.
type SubscriptionStore interface {
	Create(ctx context.Context, s *model.Subscription) error
	Get(ctx context.Context, id uint64) (*model.Subscription, error)
	Exists(ctx context.Context, userID, courseID uint64) (bool, error)
	ListByUser(ctx context.Context, userID uint64) ([]*model.Subscription, error)
	Delete(ctx context.Context, id uint64) error
}

type SubscriptionService struct {
	store   SubscriptionStore
	courses CourseLookup
}

func NewSubscriptionService(store SubscriptionStore, courses CourseLookup) *SubscriptionService {
	return &SubscriptionService{store: store, courses: courses}
}

// Create subscribes userID to courseID on behalf of a.  A zero userID
// means the actor.  The duplicate check runs before the on-behalf check,
// and a concurrent duplicate caught by the unique index is reported the
// same way.
func (s *SubscriptionService) Create(ctx context.Context, a access.Actor, userID, courseID uint64) (*model.Subscription, error) {
	if courseID == 0 {
		return nil, invalid("course", "course not specified")
	}
	if userID == 0 {
		userID = a.ID
	}
	if _, err := s.courses.Get(ctx, courseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, invalid("course", "course does not exist")
		}
		return nil, err
	}
	exists, err := s.store.Exists(ctx, a.ID, courseID)
	if err != nil {
		return nil, fmt.Errorf("check subscription: %w", err)
	}
	if err := access.Subscribe(a, userID, exists); err != nil {
		return nil, err
	}

	sub := &model.Subscription{UserID: userID, CourseID: courseID}
	if err := s.store.Create(ctx, sub); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, &access.Denied{Reason: access.ReasonAlreadySubscribed}
		}
		return nil, err
	}
	return sub, nil
}

// List returns the actor's own subscriptions.
func (s *SubscriptionService) List(ctx context.Context, a access.Actor) ([]*model.Subscription, error) {
	subs, err := s.store.ListByUser(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	if subs == nil {
		subs = []*model.Subscription{}
	}
	return subs, nil
}

// Destroy removes one of the actor's subscriptions.
func (s *SubscriptionService) Destroy(ctx context.Context, a access.Actor, id uint64) error {
	sub, err := s.store.Get(ctx, id)
	if err != nil {
		return storeErr("subscription", id, err)
	}
	if err := access.Unsubscribe(a, sub.UserID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return storeErr("subscription", id, err)
	}
	return nil
}
