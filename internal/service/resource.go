package service

import (
	"context"

	"github.com/iliyamo/learning-platform/internal/access"
	"github.com/iliyamo/learning-platform/internal/model"
	"github.com/iliyamo/learning-platform/internal/repository"
)

// Page size bounds for list operations.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Store is the persistence contract a Resource needs.
type Store[T any] interface {
	Create(ctx context.Context, item *T) error
	Get(ctx context.Context, id uint64) (*T, error)
	List(ctx context.Context, q repository.ListQuery) ([]*T, int, error)
	Update(ctx context.Context, item *T) error
	Delete(ctx context.Context, id uint64) error
}

// Policy authorizes operations on a resource.  Allow receives nil as
// item for List.  Scope restricts what List may return.
type Policy[T any] struct {
	Allow func(a access.Actor, act access.Action, item *T) error
	Scope func(a access.Actor) access.Scope
}

// Hooks run around the store calls.  Before hooks may reject the write;
// after hooks run once the write succeeded and cannot fail it.
type Hooks[T any] struct {
	BeforeCreate func(ctx context.Context, a access.Actor, item *T) error
	AfterCreate  func(ctx context.Context, a access.Actor, item *T)
	BeforeUpdate func(ctx context.Context, a access.Actor, item *T) error
	AfterUpdate  func(ctx context.Context, a access.Actor, item *T)
}

// ListParams is a list request as the API receives it.
type ListParams struct {
	Page     int // 1-based
	PageSize int
	OrderBy  string
	CourseID uint64
	Method   model.PaymentMethod
}

// Normalize clamps the page window to its allowed range.
func (p ListParams) Normalize() ListParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Resource is a CRUD endpoint assembled from a store, a policy and hooks.
type Resource[T any] struct {
	store  Store[T]
	policy Policy[T]
	hooks  Hooks[T]
	name   string
}

// NewResource wires a Resource.  name is used in error messages.
func NewResource[T any](name string, store Store[T], policy Policy[T], hooks Hooks[T]) *Resource[T] {
	if policy.Scope == nil {
		policy.Scope = func(access.Actor) access.Scope { return access.Scope{} }
	}
	return &Resource[T]{store: store, policy: policy, hooks: hooks, name: name}
}

// List returns one page of items visible to a and the total count.
func (r *Resource[T]) List(ctx context.Context, a access.Actor, p ListParams) ([]*T, int, error) {
	if err := r.policy.Allow(a, access.List, nil); err != nil {
		return nil, 0, err
	}
	p = p.Normalize()
	return r.store.List(ctx, repository.ListQuery{
		Scope:    r.policy.Scope(a),
		CourseID: p.CourseID,
		Method:   p.Method,
		OrderBy:  p.OrderBy,
		Limit:    p.PageSize,
		Offset:   (p.Page - 1) * p.PageSize,
	})
}

func (r *Resource[T]) Retrieve(ctx context.Context, a access.Actor, id uint64) (*T, error) {
	item, err := r.store.Get(ctx, id)
	if err != nil {
		return nil, storeErr(r.name, id, err)
	}
	if err := r.policy.Allow(a, access.Retrieve, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (r *Resource[T]) Create(ctx context.Context, a access.Actor, item *T) error {
	if err := r.policy.Allow(a, access.Create, item); err != nil {
		return err
	}
	if r.hooks.BeforeCreate != nil {
		if err := r.hooks.BeforeCreate(ctx, a, item); err != nil {
			return err
		}
	}
	if err := r.store.Create(ctx, item); err != nil {
		return err
	}
	if r.hooks.AfterCreate != nil {
		r.hooks.AfterCreate(ctx, a, item)
	}
	return nil
}

// Update loads the item, authorizes against its stored state, applies the
// caller's changes and writes it back.
func (r *Resource[T]) Update(ctx context.Context, a access.Actor, id uint64, apply func(*T) error) (*T, error) {
	item, err := r.store.Get(ctx, id)
	if err != nil {
		return nil, storeErr(r.name, id, err)
	}
	if err := r.policy.Allow(a, access.Update, item); err != nil {
		return nil, err
	}
	if err := apply(item); err != nil {
		return nil, err
	}
	if r.hooks.BeforeUpdate != nil {
		if err := r.hooks.BeforeUpdate(ctx, a, item); err != nil {
			return nil, err
		}
	}
	if err := r.store.Update(ctx, item); err != nil {
		return nil, storeErr(r.name, id, err)
	}
	if r.hooks.AfterUpdate != nil {
		r.hooks.AfterUpdate(ctx, a, item)
	}
	return item, nil
}

func (r *Resource[T]) Destroy(ctx context.Context, a access.Actor, id uint64) error {
	item, err := r.store.Get(ctx, id)
	if err != nil {
		return storeErr(r.name, id, err)
	}
	if err := r.policy.Allow(a, access.Destroy, item); err != nil {
		return err
	}
	if err := r.store.Delete(ctx, id); err != nil {
		return storeErr(r.name, id, err)
	}
	return nil
}
