package model

import "time"

// OrderStatus describes order fulfillment lifecycle.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusPaid       OrderStatus = "paid"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// orderTransitions is the allowed-transition table. A same-status update is
// always permitted as an idempotent no-op and is not listed here.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusPaid, OrderStatusShipped, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusPaid:       {OrderStatusProcessing, OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to OrderStatus) bool {
	if from == to {
		return true
	}
	for _, allowed := range orderTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// OrderLine is an immutable snapshot of a purchased cart line.
type OrderLine struct {
	ID          int64
	ProductID   int64
	VariantID   int64
	ProductName string
	Quantity    int
	UnitPrice   int64
}

// TimelineEntry is one append-only status event on an order.
type TimelineEntry struct {
	ID        int64
	Status    OrderStatus
	Note      string
	Actor     string
	CreatedAt time.Time
}

// OrderTotals is the monetary breakdown in integer minor currency units.
type OrderTotals struct {
	Subtotal int64
	Shipping int64
	Total    int64
}

// ShippingAddress is the address snapshot captured at checkout.
type ShippingAddress struct {
	FullName string
	Line1    string
	Line2    string
	City     string
	Country  string
	Phone    string
}

// Order describes a tenant-scoped customer order. Created once at checkout
// initiation and mutated only through the allowed-transition table.
type Order struct {
	ID             int64
	TenantID       int64
	CustomerID     int64
	Reference      string
	Status         OrderStatus
	Totals         OrderTotals
	Address        ShippingAddress
	TrackingNumber string
	Lines          []OrderLine
	Timeline       []TimelineEntry
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
