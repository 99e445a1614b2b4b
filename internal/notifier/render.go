package notifier

import (
	"encoding/json"
	"fmt"

	"github.com/merchsys/storefront/internal/domain/model"
)

// renderJob turns a queued job into recipient, subject and body.
func renderJob(job model.NotificationJob) (to, subject, body string, err error) {
	switch job.Kind {
	case model.JobKindOrderStatus:
		var p model.OrderStatusPayload
		if err = json.Unmarshal(job.Payload, &p); err != nil {
			return "", "", "", err
		}
		subject = fmt.Sprintf("Order %s is now %s", p.OrderReference, p.Status)
		body = fmt.Sprintf("Hi %s,\n\nYour order %s is now %s.", p.FirstName, p.OrderReference, p.Status)
		if p.TrackingNumber != "" {
			body += "\nTracking number: " + p.TrackingNumber
		}
		if p.Note != "" {
			body += "\n\n" + p.Note
		}
		return p.Email, subject, body, nil

	case model.JobKindOTP:
		var p model.OTPPayload
		if err = json.Unmarshal(job.Payload, &p); err != nil {
			return "", "", "", err
		}
		subject = fmt.Sprintf("Your %s code", p.Purpose)
		body = fmt.Sprintf("Your one-time code is %s. It expires at %s.", p.Code, p.ExpiresAt.Format("15:04 MST"))
		return p.Email, subject, body, nil

	case model.JobKindWishlistStock:
		var p model.WishlistStockPayload
		if err = json.Unmarshal(job.Payload, &p); err != nil {
			return "", "", "", err
		}
		subject = fmt.Sprintf("%s is back in stock", p.ProductName)
		body = fmt.Sprintf("%s you wishlisted is available again (%d in stock).", p.ProductName, p.Stock)
		return p.Email, subject, body, nil

	default:
		return "", "", "", fmt.Errorf("unknown job kind %q", job.Kind)
	}
}
