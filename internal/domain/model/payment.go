package model

import "time"

// PaymentStatus describes payment settlement lifecycle.
type PaymentStatus string

const (
	PaymentStatusInitialized PaymentStatus = "initialized"
	PaymentStatusSuccess     PaymentStatus = "success"
	PaymentStatusFailed      PaymentStatus = "failed"
	PaymentStatusRefunded    PaymentStatus = "refunded"
)

// Payment is keyed by a gateway-issued reference because webhook and callback
// paths receive only that reference. One-to-one with an Order.
type Payment struct {
	ID         int64
	TenantID   int64
	OrderID    int64
	Provider   string
	Reference  string
	Status     PaymentStatus
	Amount     int64
	VerifiedAt *time.Time
	Metadata   map[string]string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// FinalizeSource identifies which trigger path invoked finalize.
type FinalizeSource string

const (
	FinalizeSourceWebhook  FinalizeSource = "webhook"
	FinalizeSourceCallback FinalizeSource = "callback"
	FinalizeSourcePoll     FinalizeSource = "poll"
)

// FinalizeMeta is merged into payment metadata when a confirmation lands.
type FinalizeMeta struct {
	Source          FinalizeSource
	GatewayResponse string
	PaidAt          *time.Time
}

// FinalizeResult reports the outcome of a finalize invocation. Idempotent is
// true when the payment had already been confirmed and nothing was mutated.
type FinalizeResult struct {
	Payment    *Payment
	Order      *Order
	Idempotent bool
}
