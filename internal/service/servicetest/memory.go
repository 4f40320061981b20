// Package servicetest provides in-memory stores, a recording notifier and
// a call-counting gateway for exercising services without MySQL.
package servicetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/learning-platform/internal/model"
	"github.com/iliyamo/learning-platform/internal/notify"
	"github.com/iliyamo/learning-platform/internal/payment"
	"github.com/iliyamo/learning-platform/internal/repository"
)

// MemStore is an in-memory Store keyed by id.  The accessor funcs let one
// implementation serve every entity.
type MemStore[T any] struct {
	mu     sync.Mutex
	items  map[uint64]*T
	next   uint64
	id     func(*T) *uint64
	owner  func(*T) *uint64
	course func(*T) uint64
}

func NewMemStore[T any](id func(*T) *uint64, owner func(*T) *uint64, course func(*T) uint64) *MemStore[T] {
	return &MemStore[T]{items: map[uint64]*T{}, id: id, owner: owner, course: course}
}

func (m *MemStore[T]) Create(_ context.Context, item *T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	*m.id(item) = m.next
	cp := *item
	m.items[m.next] = &cp
	return nil
}

func (m *MemStore[T]) Get(_ context.Context, id uint64) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *it
	return &cp, nil
}

func (m *MemStore[T]) List(_ context.Context, q repository.ListQuery) ([]*T, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]uint64, 0, len(m.items))
	for id := range m.items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var all []*T
	for _, id := range ids {
		it := m.items[id]
		if !q.Scope.Matches(m.owner(it)) {
			continue
		}
		if q.CourseID != 0 && m.course(it) != q.CourseID {
			continue
		}
		cp := *it
		all = append(all, &cp)
	}
	total := len(all)
	if q.Limit > 0 {
		if q.Offset >= len(all) {
			return nil, total, nil
		}
		end := q.Offset + q.Limit
		if end > len(all) {
			end = len(all)
		}
		all = all[q.Offset:end]
	}
	return all, total, nil
}

func (m *MemStore[T]) Update(_ context.Context, item *T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := *m.id(item)
	if _, ok := m.items[id]; !ok {
		return repository.ErrNotFound
	}
	cp := *item
	m.items[id] = &cp
	return nil
}

func (m *MemStore[T]) Delete(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

// Len reports how many items are stored.
func (m *MemStore[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

func NewCourses() *MemStore[model.Course] {
	return NewMemStore(
		func(c *model.Course) *uint64 { return &c.ID },
		func(c *model.Course) *uint64 { return c.OwnerID },
		func(c *model.Course) uint64 { return c.ID },
	)
}

func NewLessons() *MemStore[model.Lesson] {
	return NewMemStore(
		func(l *model.Lesson) *uint64 { return &l.ID },
		func(l *model.Lesson) *uint64 { return l.OwnerID },
		func(l *model.Lesson) uint64 { return l.CourseID },
	)
}

// LessonIndex answers TitlesByCourse from a lesson store.
type LessonIndex struct{ Lessons *MemStore[model.Lesson] }

func (x LessonIndex) TitlesByCourse(_ context.Context, ids []uint64) (map[uint64][]model.LessonTitle, error) {
	want := map[uint64]bool{}
	for _, id := range ids {
		want[id] = true
	}
	out := map[uint64][]model.LessonTitle{}
	all, _, _ := x.Lessons.List(context.Background(), repository.ListQuery{})
	for _, l := range all {
		if want[l.CourseID] {
			out[l.CourseID] = append(out[l.CourseID], model.LessonTitle{Title: l.Title})
		}
	}
	return out, nil
}

// Subscriptions is an in-memory subscription store that enforces the
// (user, course) uniqueness the database index provides.
type Subscriptions struct {
	mu   sync.Mutex
	rows map[uint64]*model.Subscription
	next uint64
	// SkipExists hides rows from Exists to simulate a concurrent insert
	SkipExists bool
}

func NewSubscriptions() *Subscriptions { return &Subscriptions{rows: map[uint64]*model.Subscription{}} }

// Len reports how many subscriptions are stored.
func (m *Subscriptions) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

func (m *Subscriptions) Create(_ context.Context, s *model.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.UserID == s.UserID && r.CourseID == s.CourseID {
			return repository.ErrDuplicate
		}
	}
	m.next++
	s.ID = m.next
	s.CreatedAt = time.Now()
	cp := *s
	m.rows[s.ID] = &cp
	return nil
}

func (m *Subscriptions) Get(_ context.Context, id uint64) (*model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *Subscriptions) Exists(_ context.Context, userID, courseID uint64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SkipExists {
		return false, nil
	}
	for _, r := range m.rows {
		if r.UserID == userID && r.CourseID == courseID {
			return true, nil
		}
	}
	return false, nil
}

func (m *Subscriptions) ListByUser(_ context.Context, userID uint64) ([]*model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Subscription
	for _, r := range m.rows {
		if r.UserID == userID {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Subscriptions) SubscribedCourses(_ context.Context, userID uint64, ids []uint64) (map[uint64]bool, error) {
	subs, _ := m.ListByUser(context.Background(), userID)
	out := map[uint64]bool{}
	for _, s := range subs {
		out[s.CourseID] = true
	}
	return out, nil
}

func (m *Subscriptions) Delete(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

// Payments is an in-memory payment store.
type Payments struct {
	*MemStore[model.Payment]
}

func NewPayments() *Payments {
	return &Payments{NewMemStore(
		func(p *model.Payment) *uint64 { return &p.ID },
		func(p *model.Payment) *uint64 { return p.UserID },
		func(p *model.Payment) uint64 { return p.CourseID },
	)}
}

func (m *Payments) MarkSuccessful(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.IsSuccessful = true
	return nil
}

func (m *Payments) ListPending(_ context.Context, since time.Time, limit int) ([]*model.Payment, error) {
	all, _, _ := m.List(context.Background(), repository.ListQuery{})
	var out []*model.Payment
	for _, p := range all {
		if p.Session != nil && !p.IsSuccessful && !p.PaymentDate.Before(since) {
			out = append(out, p)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// Notifier captures every change handed to it.
type Notifier struct {
	mu      sync.Mutex
	changes []notify.Change
}

// Changes returns a copy of what was recorded so far.
func (r *Notifier) Changes() []notify.Change {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Change(nil), r.changes...)
}

func (r *Notifier) Notify(_ context.Context, ch notify.Change) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, ch)
}

// Gateway counts GetSession calls on top of the stub gateway.
type Gateway struct {
	*payment.StubGateway
	mu    sync.Mutex
	polls int
}

// NewGateway wraps a fresh stub gateway.
func NewGateway(baseURL string) *Gateway {
	return &Gateway{StubGateway: payment.NewStubGateway(baseURL)}
}

// Polls reports how many times GetSession was called.
func (g *Gateway) Polls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.polls
}

func (g *Gateway) GetSession(ctx context.Context, id string) (*payment.SessionStatus, error) {
	g.mu.Lock()
	g.polls++
	g.mu.Unlock()
	return g.StubGateway.GetSession(ctx, id)
}
