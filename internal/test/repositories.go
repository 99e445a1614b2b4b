package test

import (
	"context"
	"sync"
	"time"

	domainErrors "github.com/merchsys/storefront/internal/domain/errors"
	"github.com/merchsys/storefront/internal/domain/model"
	"github.com/merchsys/storefront/internal/domain/repository"
)

// OrderRepositoryStub stores orders in-memory for tests.
type OrderRepositoryStub struct {
	mu       sync.Mutex
	Orders   map[int64]*model.Order
	Payments map[string]*model.Payment
	Next     int64
	Err      error
}

// NewOrderRepositoryStub constructs stub repository with initialized maps.
func NewOrderRepositoryStub() *OrderRepositoryStub {
	return &OrderRepositoryStub{
		Orders:   make(map[int64]*model.Order),
		Payments: make(map[string]*model.Payment),
		Next:     1,
	}
}

// CreateWithPayment persists order and payment together.
func (s *OrderRepositoryStub) CreateWithPayment(ctx context.Context, order repository.NewOrder, payment repository.NewPayment) (*model.Order, *model.Payment, error) {
	if s.Err != nil {
		return nil, nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := make([]model.OrderLine, 0, len(order.Lines))
	for _, l := range order.Lines {
		lines = append(lines, model.OrderLine{
			ProductID:   l.ProductID,
			VariantID:   l.VariantID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
		})
	}
	o := &model.Order{
		ID:         s.Next,
		TenantID:   order.TenantID,
		CustomerID: order.CustomerID,
		Reference:  order.Reference,
		Status:     model.OrderStatusPending,
		Totals:     order.Totals,
		Address:    order.Address,
		Lines:      lines,
		Timeline:   []model.TimelineEntry{{Status: model.OrderStatusPending, Actor: "system", CreatedAt: time.Now()}},
		CreatedAt:  time.Now(),
	}
	p := &model.Payment{
		ID:        s.Next,
		TenantID:  order.TenantID,
		OrderID:   s.Next,
		Provider:  payment.Provider,
		Reference: payment.Reference,
		Status:    model.PaymentStatusInitialized,
		Amount:    payment.Amount,
		Metadata:  payment.Metadata,
		CreatedAt: time.Now(),
	}
	s.Orders[o.ID] = o
	s.Payments[p.Reference] = p
	s.Next++
	return o, p, nil
}

// GetByID returns the stored order or ErrNotFound.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, tenantID, orderID int64) (*model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.Orders[orderID]
	if !ok || o.TenantID != tenantID {
		return nil, domainErrors.ErrNotFound
	}
	return o, nil
}

// GetByReference scans stored orders by reference.
func (s *OrderRepositoryStub) GetByReference(ctx context.Context, tenantID int64, reference string) (*model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.Orders {
		if o.TenantID == tenantID && o.Reference == reference {
			return o, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// UpdateStatus applies the transition and appends a timeline entry.
func (s *OrderRepositoryStub) UpdateStatus(ctx context.Context, tenantID, orderID int64, update repository.StatusUpdate) (*model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.Orders[orderID]
	if !ok || o.TenantID != tenantID {
		return nil, domainErrors.ErrNotFound
	}
	o.Status = update.Status
	if update.TrackingNumber != "" {
		o.TrackingNumber = update.TrackingNumber
	}
	o.Timeline = append(o.Timeline, model.TimelineEntry{
		Status:    update.Status,
		Note:      update.Note,
		Actor:     update.Actor,
		CreatedAt: time.Now(),
	})
	return o, nil
}

// PaymentRepositoryStub simulates the finalize state machine in-memory.
type PaymentRepositoryStub struct {
	mu       sync.Mutex
	Payments map[string]*model.Payment
	Orders   map[string]*model.Order
	Err      error
	// FinalizeErr, when set, fails Finalize without touching state.
	FinalizeErr error
	// FinalizeCalls counts non-failing Finalize invocations.
	FinalizeCalls int
}

// NewPaymentRepositoryStub constructs stub repository with initialized maps.
func NewPaymentRepositoryStub() *PaymentRepositoryStub {
	return &PaymentRepositoryStub{
		Payments: make(map[string]*model.Payment),
		Orders:   make(map[string]*model.Order),
	}
}

// Seed registers a payment with its order under the payment reference.
func (s *PaymentRepositoryStub) Seed(payment *model.Payment, order *model.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Payments[payment.Reference] = payment
	s.Orders[payment.Reference] = order
}

// GetByReference returns the stored payment or ErrNotFound.
func (s *PaymentRepositoryStub) GetByReference(ctx context.Context, reference string) (*model.Payment, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.Payments[reference]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return p, nil
}

// Finalize mirrors the production semantics: success once, idempotent after.
func (s *PaymentRepositoryStub) Finalize(ctx context.Context, reference string, meta model.FinalizeMeta) (*model.FinalizeResult, error) {
	if s.FinalizeErr != nil {
		return nil, s.FinalizeErr
	}
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.Payments[reference]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	order := s.Orders[reference]
	if p.Status == model.PaymentStatusSuccess {
		return &model.FinalizeResult{Payment: p, Order: order, Idempotent: true}, nil
	}
	if p.Status != model.PaymentStatusInitialized {
		return nil, domainErrors.ErrInvalidTransition
	}
	// Matches the guarded order update: only a pending order becomes paid.
	if order != nil && order.Status != model.OrderStatusPending {
		return nil, domainErrors.ErrInvalidTransition
	}
	s.FinalizeCalls++
	now := time.Now()
	p.Status = model.PaymentStatusSuccess
	if meta.PaidAt != nil {
		p.VerifiedAt = meta.PaidAt
	} else {
		p.VerifiedAt = &now
	}
	if order != nil {
		order.Status = model.OrderStatusPaid
		order.Timeline = append(order.Timeline, model.TimelineEntry{
			Status: model.OrderStatusPaid, Actor: "system", CreatedAt: now,
		})
	}
	return &model.FinalizeResult{Payment: p, Order: order, Idempotent: false}, nil
}

// CartRepositoryStub stores carts keyed by identity.
type CartRepositoryStub struct {
	mu    sync.Mutex
	Carts map[model.CartIdentity]*model.Cart
	Next  int64
	Err   error
}

// NewCartRepositoryStub constructs stub repository with initialized maps.
func NewCartRepositoryStub() *CartRepositoryStub {
	return &CartRepositoryStub{Carts: make(map[model.CartIdentity]*model.Cart), Next: 1}
}

// Get returns the identity's cart, creating an empty one when absent.
func (s *CartRepositoryStub) Get(ctx context.Context, tenantID int64, identity model.CartIdentity) (*model.Cart, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, ok := s.Carts[identity]
	if !ok {
		cart = &model.Cart{ID: s.Next, TenantID: tenantID, CustomerID: identity.CustomerID, SessionID: identity.SessionID}
		s.Carts[identity] = cart
		s.Next++
	}
	return cart, nil
}

// PutLine upserts one line; quantity 0 removes it.
func (s *CartRepositoryStub) PutLine(ctx context.Context, tenantID int64, identity model.CartIdentity, line model.CartLine) (*model.Cart, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	cart, err := s.Get(ctx, tenantID, identity)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, l := range cart.Lines {
		if l.VariantID == line.VariantID {
			if line.Quantity == 0 {
				cart.Lines = append(cart.Lines[:i], cart.Lines[i+1:]...)
			} else {
				cart.Lines[i].Quantity = line.Quantity
			}
			return cart, nil
		}
	}
	if line.Quantity > 0 {
		cart.Lines = append(cart.Lines, line)
	}
	return cart, nil
}

// CatalogRepositoryStub serves variants from a map.
type CatalogRepositoryStub struct {
	mu       sync.Mutex
	Variants map[int64]*model.Variant
	// Watchers maps a variant id to the wishlist recipient emails.
	Watchers map[int64][]string
	Err      error
}

// NewCatalogRepositoryStub constructs stub repository with initialized maps.
func NewCatalogRepositoryStub() *CatalogRepositoryStub {
	return &CatalogRepositoryStub{
		Variants: make(map[int64]*model.Variant),
		Watchers: make(map[int64][]string),
	}
}

// FindVariant returns the stored variant or ErrNotFound.
func (s *CatalogRepositoryStub) FindVariant(ctx context.Context, tenantID, productID, variantID int64) (*model.Variant, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.Variants[variantID]
	if !ok || v.TenantID != tenantID {
		return nil, domainErrors.ErrNotFound
	}
	return v, nil
}

// AdjustStock applies the delta, refusing to go below zero.
func (s *CatalogRepositoryStub) AdjustStock(ctx context.Context, tenantID, variantID int64, delta int, actor, note string) (*model.Variant, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.Variants[variantID]
	if !ok || v.TenantID != tenantID {
		return nil, domainErrors.ErrNotFound
	}
	if v.Stock+delta < 0 {
		return nil, domainErrors.ErrStockConflict
	}
	v.Stock += delta
	return v, nil
}

// WishlistWatchers returns the configured recipient emails for the variant.
func (s *CatalogRepositoryStub) WishlistWatchers(ctx context.Context, tenantID, variantID int64) ([]string, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Watchers[variantID], nil
}

// DirectoryRepositoryStub serves contacts and addresses from maps.
type DirectoryRepositoryStub struct {
	Contacts  map[int64]*model.Contact
	Addresses map[int64]*model.Address
	Err       error
}

// NewDirectoryRepositoryStub constructs stub repository with initialized maps.
func NewDirectoryRepositoryStub() *DirectoryRepositoryStub {
	return &DirectoryRepositoryStub{
		Contacts:  make(map[int64]*model.Contact),
		Addresses: make(map[int64]*model.Address),
	}
}

// FindContact returns the customer's contact or ErrNotFound.
func (s *DirectoryRepositoryStub) FindContact(ctx context.Context, tenantID, customerID int64) (*model.Contact, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	c, ok := s.Contacts[customerID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return c, nil
}

// FindAddress returns the saved address or ErrNotFound.
func (s *DirectoryRepositoryStub) FindAddress(ctx context.Context, tenantID, customerID, addressID int64) (*model.Address, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	a, ok := s.Addresses[addressID]
	if !ok || a.CustomerID != customerID {
		return nil, domainErrors.ErrNotFound
	}
	return a, nil
}

// JobRepositoryStub is an in-memory notification queue.
type JobRepositoryStub struct {
	mu   sync.Mutex
	Jobs []*model.NotificationJob
	Next int64
	Err  error
}

// NewJobRepositoryStub constructs an empty queue stub.
func NewJobRepositoryStub() *JobRepositoryStub {
	return &JobRepositoryStub{Next: 1}
}

// Enqueue appends a queued job.
func (s *JobRepositoryStub) Enqueue(ctx context.Context, tenantID int64, kind model.JobKind, payload []byte, maxAttempts int) (*model.NotificationJob, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	job := &model.NotificationJob{
		ID:            s.Next,
		TenantID:      tenantID,
		Kind:          kind,
		Status:        model.JobStatusQueued,
		Payload:       payload,
		MaxAttempts:   maxAttempts,
		NextAttemptAt: time.Now(),
		CreatedAt:     time.Now(),
	}
	s.Jobs = append(s.Jobs, job)
	s.Next++
	return job, nil
}

// Snapshot returns a copy of the stored job at index i.
func (s *JobRepositoryStub) Snapshot(i int) model.NotificationJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.Jobs[i]
}

// ClaimBatch marks due queued jobs processing and returns them.
func (s *JobRepositoryStub) ClaimBatch(ctx context.Context, limit int) ([]model.NotificationJob, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	claimed := make([]model.NotificationJob, 0, limit)
	now := time.Now()
	for _, job := range s.Jobs {
		if len(claimed) >= limit {
			break
		}
		if job.Status != model.JobStatusQueued || job.NextAttemptAt.After(now) {
			continue
		}
		job.Status = model.JobStatusProcessing
		job.Attempts++
		claimed = append(claimed, *job)
	}
	return claimed, nil
}

// MarkDelivered finishes a job.
func (s *JobRepositoryStub) MarkDelivered(ctx context.Context, jobID int64) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, job := range s.Jobs {
		if job.ID == jobID {
			job.Status = model.JobStatusDelivered
			return nil
		}
	}
	return domainErrors.ErrNotFound
}

// MarkFailed requeues a job or buries it when attempts are exhausted.
func (s *JobRepositoryStub) MarkFailed(ctx context.Context, jobID int64, nextAttempt time.Time) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, job := range s.Jobs {
		if job.ID == jobID {
			if job.Attempts >= job.MaxAttempts {
				job.Status = model.JobStatusFailed
			} else {
				job.Status = model.JobStatusQueued
				job.NextAttemptAt = nextAttempt
			}
			return nil
		}
	}
	return domainErrors.ErrNotFound
}
