package repository

import (
	"context"

	"github.com/merchsys/storefront/internal/domain/model"
)

// NewOrder carries everything persisted atomically at checkout initiation.
type NewOrder struct {
	TenantID   int64
	CustomerID int64
	CartID     int64
	Reference  string
	Totals     model.OrderTotals
	Address    model.ShippingAddress
	Lines      []model.CartLine
}

// NewPayment is created in the same atomic unit as its order.
type NewPayment struct {
	Provider  string
	Reference string
	Amount    int64
	Metadata  map[string]string
}

// StatusUpdate describes an admin-driven order status transition.
type StatusUpdate struct {
	Status         model.OrderStatus
	TrackingNumber string
	Note           string
	Actor          string
}

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	// CreateWithPayment persists order (pending, one timeline entry) and
	// payment (initialized) as a single all-or-nothing unit.
	CreateWithPayment(ctx context.Context, order NewOrder, payment NewPayment) (*model.Order, *model.Payment, error)
	GetByID(ctx context.Context, tenantID, orderID int64) (*model.Order, error)
	GetByReference(ctx context.Context, tenantID int64, reference string) (*model.Order, error)
	// UpdateStatus applies an already-validated transition and appends a
	// timeline entry inside one transaction.
	UpdateStatus(ctx context.Context, tenantID, orderID int64, update StatusUpdate) (*model.Order, error)
}
