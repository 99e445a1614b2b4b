package dto

import "time"

// TimelineEntryResponse is one order status event.
type TimelineEntryResponse struct {
	Status    string    `json:"status"`
	Note      string    `json:"note,omitempty"`
	Actor     string    `json:"actor"`
	CreatedAt time.Time `json:"created_at"`
}

// OrderLineResponse is one immutable order line.
type OrderLineResponse struct {
	ProductID   int64  `json:"product_id"`
	VariantID   int64  `json:"variant_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
}

// OrderResponse is one full order view.
type OrderResponse struct {
	ID             int64                   `json:"id"`
	Reference      string                  `json:"reference"`
	Status         string                  `json:"status"`
	Subtotal       int64                   `json:"subtotal"`
	Shipping       int64                   `json:"shipping"`
	Total          int64                   `json:"total"`
	TrackingNumber string                  `json:"tracking_number,omitempty"`
	Lines          []OrderLineResponse     `json:"lines"`
	Timeline       []TimelineEntryResponse `json:"timeline"`
	CreatedAt      time.Time               `json:"created_at"`
}

// UpdateOrderStatusRequest is the admin transition payload.
type UpdateOrderStatusRequest struct {
	Status         string `json:"status" binding:"required"`
	TrackingNumber string `json:"tracking_number"`
	Note           string `json:"note"`
}
