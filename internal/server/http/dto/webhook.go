package dto

import "time"

// WebhookEvent is the envelope the payment processor pushes.
type WebhookEvent struct {
	Event string           `json:"event"`
	Data  WebhookEventData `json:"data"`
}

// WebhookEventData is the transaction payload within a webhook event.
type WebhookEventData struct {
	Reference       string     `json:"reference"`
	GatewayResponse string     `json:"gateway_response"`
	PaidAt          *time.Time `json:"paid_at"`
}
