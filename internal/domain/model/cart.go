package model

import "time"

// CartLine is one mutable cart position with a denormalized name and a unit
// price snapshot taken when the line was added.
type CartLine struct {
	ID          int64
	ProductID   int64
	VariantID   int64
	ProductName string
	Quantity    int
	UnitPrice   int64
}

// Cart is keyed by either an authenticated customer id or an anonymous
// session id; the two identities are mutually exclusive. Lines are emptied,
// not deleted, when the cart's order is successfully paid.
type Cart struct {
	ID         int64
	TenantID   int64
	CustomerID int64
	SessionID  string
	Lines      []CartLine
	UpdatedAt  time.Time
}

// CartIdentity resolves which cart a request operates on.
type CartIdentity struct {
	CustomerID int64
	SessionID  string
}
