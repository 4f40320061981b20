package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/iliyamo/learning-platform/internal/access"
	"github.com/iliyamo/learning-platform/internal/model"
	"github.com/iliyamo/learning-platform/internal/payment"
	"github.com/iliyamo/learning-platform/internal/repository"
)

// PaymentStore is the persistence contract for payments.
type PaymentStore interface {
	Store[model.Payment]
	MarkSuccessful(ctx context.Context, id uint64) error
	ListPending(ctx context.Context, since time.Time, limit int) ([]*model.Payment, error)
}

// PaymentInput is a payment create request.
type PaymentInput struct {
	CourseID uint64
	Method   model.PaymentMethod
}

// CreatedPayment is a new payment plus, for card payments, the hosted
// checkout link the client should redirect to.
type CreatedPayment struct {
	*model.Payment
	CheckoutURL string `json:"checkout_url,omitempty"`
}

// PaymentService runs the payment lifecycle: create, open a checkout
// session for card payments and reconcile sessions with the gateway.
type PaymentService struct {
	*Resource[model.Payment]
	store   PaymentStore
	courses CourseLookup
	gateway payment.Gateway
	timeout time.Duration
	log     zerolog.Logger

	// Now stamps payment_date.  Tests replace it.
	Now func() time.Time
}

func NewPaymentService(store PaymentStore, courses CourseLookup, gw payment.Gateway, timeout time.Duration, log zerolog.Logger) *PaymentService {
	policy := Policy[model.Payment]{
		Allow: func(a access.Actor, act access.Action, p *model.Payment) error {
			var user *uint64
			if p != nil {
				user = p.UserID
			}
			return access.Payment(a, act, user)
		},
		Scope: access.PaymentScope,
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &PaymentService{
		Resource: NewResource("payment", store, policy, Hooks[model.Payment]{}),
		store:    store,
		courses:  courses,
		gateway:  gw,
		timeout:  timeout,
		log:      log.With().Str("component", "payments").Logger(),
		Now:      time.Now,
	}
}

// Create records a payment by a for a course.  For card payments the
// checkout session is opened first, so a gateway failure leaves no row
// behind.
func (s *PaymentService) Create(ctx context.Context, a access.Actor, in PaymentInput) (*CreatedPayment, error) {
	if in.CourseID == 0 {
		return nil, invalid("course", "course not specified")
	}
	if in.Method != model.PaymentCash && in.Method != model.PaymentCard {
		return nil, invalid("payment_method", "payment_method must be one of: cash card")
	}
	user := a.ID
	if err := access.Payment(a, access.Create, &user); err != nil {
		return nil, err
	}
	course, err := s.courses.Get(ctx, in.CourseID)
	if err != nil {
		return nil, storeErr("course", in.CourseID, err)
	}

	p := &model.Payment{
		UserID:        &user,
		CourseID:      course.ID,
		PaymentDate:   s.Now().UTC().Truncate(time.Second),
		PaymentMethod: in.Method,
	}
	out := &CreatedPayment{Payment: p}

	if in.Method == model.PaymentCard {
		gctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		sess, err := s.gateway.OpenSession(gctx, payment.Checkout{
			PaymentRef: uuid.NewString(),
			CourseID:   course.ID,
			Title:      course.Title,
			Price:      course.Price,
			Email:      a.Email,
		})
		if err != nil {
			if !errors.Is(err, payment.ErrGateway) {
				err = fmt.Errorf("%w: %v", payment.ErrGateway, err)
			}
			return nil, err
		}
		p.Session = &sess.ID
		out.CheckoutURL = sess.CheckoutURL
	}

	if err := s.store.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrForeignKey) {
			return nil, fmt.Errorf("course %d: %w", in.CourseID, ErrNotFound)
		}
		return nil, err
	}
	s.log.Info().
		Uint64("payment_id", p.ID).
		Uint64("user_id", user).
		Str("method", string(p.PaymentMethod)).
		Msg("payment created")
	return out, nil
}

// Retrieve authorizes the read first and then reconciles a pending card
// payment with the gateway.  A gateway outage does not fail the read; the
// stored state is returned.
func (s *PaymentService) Retrieve(ctx context.Context, a access.Actor, id uint64) (*model.Payment, error) {
	p, err := s.Resource.Retrieve(ctx, a, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.reconcile(ctx, p); err != nil {
		if !errors.Is(err, payment.ErrGateway) {
			return nil, err
		}
		s.log.Warn().Err(err).Uint64("payment_id", p.ID).Msg("session poll failed")
	}
	return p, nil
}

// reconcile polls the gateway for a pending payment and persists a
// confirmed result.  It reports whether the payment flipped to successful.
func (s *PaymentService) reconcile(ctx context.Context, p *model.Payment) (bool, error) {
	if p.Session == nil || p.IsSuccessful {
		return false, nil
	}
	gctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	st, err := s.gateway.GetSession(gctx, *p.Session)
	if err != nil {
		if !errors.Is(err, payment.ErrGateway) {
			err = fmt.Errorf("%w: %v", payment.ErrGateway, err)
		}
		return false, err
	}
	if !st.Confirmed() {
		return false, nil
	}
	if err := s.store.MarkSuccessful(ctx, p.ID); err != nil {
		return false, fmt.Errorf("mark payment %d successful: %w", p.ID, err)
	}
	p.IsSuccessful = true
	s.log.Info().Uint64("payment_id", p.ID).Str("session", *p.Session).Msg("payment confirmed")
	return true, nil
}

// ReconcilePending polls every pending card payment created within
// lookback, at most limit of them.  It returns how many were confirmed;
// individual failures are joined into the error and do not stop the
// sweep.
func (s *PaymentService) ReconcilePending(ctx context.Context, lookback time.Duration, limit int) (int, error) {
	pending, err := s.store.ListPending(ctx, s.Now().Add(-lookback), limit)
	if err != nil {
		return 0, fmt.Errorf("list pending payments: %w", err)
	}
	var (
		confirmed int
		errs      []error
	)
	for _, p := range pending {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		ok, err := s.reconcile(ctx, p)
		if err != nil {
			errs = append(errs, fmt.Errorf("payment %d: %w", p.ID, err))
			continue
		}
		if ok {
			confirmed++
		}
	}
	return confirmed, errors.Join(errs...)
}
