package test

import (
	"context"
	"sync"

	"github.com/merchsys/storefront/internal/domain/model"
	"github.com/merchsys/storefront/internal/usecase"
)

// GatewayStub mimics the payment processor client.
type GatewayStub struct {
	InitializeFn func(context.Context, string, int64, string, map[string]string) (*usecase.GatewayInit, error)
	VerifyFn     func(context.Context, string) (*usecase.GatewayVerification, error)

	mu          sync.Mutex
	VerifyCalls int
}

// Initialize delegates to the provided function or returns a default intent.
func (s *GatewayStub) Initialize(ctx context.Context, email string, amount int64, reference string, metadata map[string]string) (*usecase.GatewayInit, error) {
	if s.InitializeFn != nil {
		return s.InitializeFn(ctx, email, amount, reference, metadata)
	}
	return &usecase.GatewayInit{
		AuthorizationURL: "https://checkout.example/" + reference,
		AccessCode:       "ac_" + reference,
		Reference:        reference,
	}, nil
}

// Verify delegates to the provided function or reports success.
func (s *GatewayStub) Verify(ctx context.Context, reference string) (*usecase.GatewayVerification, error) {
	s.mu.Lock()
	s.VerifyCalls++
	s.mu.Unlock()
	if s.VerifyFn != nil {
		return s.VerifyFn(ctx, reference)
	}
	return &usecase.GatewayVerification{Status: usecase.GatewayStatusSuccess, GatewayResponse: "Approved"}, nil
}

// DispatcherStub records enqueued notifications.
type DispatcherStub struct {
	mu       sync.Mutex
	Enqueued []model.JobKind
	Bodies   []any
	Reject   bool
}

// Enqueue records the kind and payload and reports the configured outcome.
func (s *DispatcherStub) Enqueue(ctx context.Context, tenantID int64, kind model.JobKind, payload any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Reject {
		return false
	}
	s.Enqueued = append(s.Enqueued, kind)
	s.Bodies = append(s.Bodies, payload)
	return true
}

// Payloads returns a copy of the recorded payloads.
func (s *DispatcherStub) Payloads() []any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]any, len(s.Bodies))
	copy(out, s.Bodies)
	return out
}

// Kinds returns a copy of the recorded kinds.
func (s *DispatcherStub) Kinds() []model.JobKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.JobKind, len(s.Enqueued))
	copy(out, s.Enqueued)
	return out
}

// PublisherStub records published order events.
type PublisherStub struct {
	mu     sync.Mutex
	Events []string
}

// PublishOrderEvent records the reference/status pair.
func (s *PublisherStub) PublishOrderEvent(ctx context.Context, tenantID int64, orderRef string, status model.OrderStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Events = append(s.Events, orderRef+":"+string(status))
}

// Published returns a copy of recorded events.
func (s *PublisherStub) Published() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.Events))
	copy(out, s.Events)
	return out
}

// CacheStub is an in-memory payment status cache.
type CacheStub struct {
	mu     sync.Mutex
	Values map[string]model.PaymentStatus
}

// NewCacheStub constructs an empty cache stub.
func NewCacheStub() *CacheStub {
	return &CacheStub{Values: make(map[string]model.PaymentStatus)}
}

// PaymentStatus reads a cached status.
func (s *CacheStub) PaymentStatus(ctx context.Context, reference string) (model.PaymentStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.Values[reference]
	return v, ok
}

// SetPaymentStatus stores a status.
func (s *CacheStub) SetPaymentStatus(ctx context.Context, reference string, status model.PaymentStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Values[reference] = status
}

// MailerStub records sent mail and can simulate transport failures.
type MailerStub struct {
	mu   sync.Mutex
	Sent []string
	Err  error
}

// Send records the recipient or fails with the configured error.
func (s *MailerStub) Send(ctx context.Context, to, subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Sent = append(s.Sent, to)
	return nil
}

// SentTo returns a copy of recorded recipients.
func (s *MailerStub) SentTo() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.Sent))
	copy(out, s.Sent)
	return out
}
