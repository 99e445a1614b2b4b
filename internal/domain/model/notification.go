package model

import "time"

// JobKind identifies the transactional mail a notification job carries.
type JobKind string

const (
	JobKindOrderStatus   JobKind = "order_status"
	JobKindOTP           JobKind = "otp"
	JobKindWishlistStock JobKind = "wishlist_stock"
)

// JobStatus describes the delivery lifecycle of a queued notification.
type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusDelivered  JobStatus = "delivered"
	JobStatusFailed     JobStatus = "failed"
)

// NotificationJob is one durable queue entry. Payload is the JSON-encoded
// kind-specific document.
type NotificationJob struct {
	ID            int64
	TenantID      int64
	Kind          JobKind
	Payload       []byte
	Status        JobStatus
	Attempts      int
	MaxAttempts   int
	NextAttemptAt time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OrderStatusPayload notifies a customer about an order status change.
type OrderStatusPayload struct {
	Email          string `json:"email"`
	FirstName      string `json:"first_name"`
	OrderReference string `json:"order_reference"`
	Status         string `json:"status"`
	TrackingNumber string `json:"tracking_number,omitempty"`
	Note           string `json:"note,omitempty"`
}

// OTPPayload carries a purpose-tagged one-time code.
type OTPPayload struct {
	Email     string    `json:"email"`
	Code      string    `json:"code"`
	Purpose   string    `json:"purpose"`
	ExpiresAt time.Time `json:"expires_at"`
}

// WishlistStockPayload alerts a customer about stock movement on a watched
// variant.
type WishlistStockPayload struct {
	Email       string `json:"email"`
	ProductName string `json:"product_name"`
	VariantID   int64  `json:"variant_id"`
	Stock       int    `json:"stock"`
}
