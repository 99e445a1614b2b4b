package dto

import "time"

// AddressPayload is an inline shipping address supplied at checkout.
type AddressPayload struct {
	FullName string `json:"full_name"`
	Line1    string `json:"line1"`
	Line2    string `json:"line2"`
	City     string `json:"city"`
	Country  string `json:"country"`
	Phone    string `json:"phone"`
}

// CheckoutRequest initiates the checkout pipeline for the caller's cart.
type CheckoutRequest struct {
	Email     string          `json:"email" binding:"required,email"`
	AddressID int64           `json:"address_id"`
	Address   *AddressPayload `json:"address"`
}

// CheckoutResponse carries what the client needs to complete payment.
type CheckoutResponse struct {
	OrderReference   string `json:"order_reference"`
	PaymentReference string `json:"payment_reference"`
	AuthorizationURL string `json:"authorization_url"`
	Subtotal         int64  `json:"subtotal"`
	Shipping         int64  `json:"shipping"`
	Total            int64  `json:"total"`
}

// PaymentStatusResponse is the poll path answer.
type PaymentStatusResponse struct {
	Reference  string     `json:"reference"`
	Status     string     `json:"status"`
	Amount     int64      `json:"amount"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
}
