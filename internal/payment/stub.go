package payment

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

const stubPrefix = "stub_"

// StubGateway is an in-memory provider for development and tests.  Session
// ids carry the "stub_" prefix; sessions stay open until MarkPaid is
// called.
type StubGateway struct {
	BaseURL string

	mu       sync.Mutex
	sessions map[string]*SessionStatus
	fail     error
}

func NewStubGateway(baseURL string) *StubGateway {
	if baseURL == "" {
		baseURL = "http://localhost/checkout"
	}
	return &StubGateway{BaseURL: baseURL, sessions: make(map[string]*SessionStatus)}
}

// FailWith makes every subsequent call return err wrapped in ErrGateway.
// Passing nil restores normal behaviour.
func (s *StubGateway) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = err
}

func (s *StubGateway) OpenSession(ctx context.Context, c Checkout) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, s.fail)
	}
	id := stubPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
	s.sessions[id] = &SessionStatus{ID: id, PaymentStatus: "unpaid", Status: "open"}
	return &Session{ID: id, CheckoutURL: s.BaseURL + "/" + id}, nil
}

func (s *StubGateway) GetSession(ctx context.Context, id string) (*SessionStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, s.fail)
	}
	st, ok := s.sessions[id]
	if !ok {
		if !strings.HasPrefix(id, stubPrefix) {
			return nil, fmt.Errorf("%w: unknown session %s", ErrGateway, id)
		}
		// sessions do not survive a restart; a stub id we never saw in
		// this process is still open
		return &SessionStatus{ID: id, PaymentStatus: "unpaid", Status: "open"}, nil
	}
	out := *st
	return &out, nil
}

// MarkPaid settles a session as paid and complete.
func (s *StubGateway) MarkPaid(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.sessions[id]
	if !ok {
		return false
	}
	st.PaymentStatus = StatusPaid
	st.Status = StatusComplete
	return true
}
