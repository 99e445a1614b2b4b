package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/merchsys/storefront/internal/domain/errors"
	"github.com/merchsys/storefront/internal/domain/model"
	"github.com/merchsys/storefront/internal/server/http/dto"
)

const signatureHeader = "X-Paystack-Signature"

// WebhookHandler receives server-to-server payment confirmations. It is the
// authoritative confirmation trigger and must answer so the gateway retries
// only when a retry can help: 200 acknowledges everything that is settled or
// permanently unactionable, 5xx asks for redelivery.
type WebhookHandler struct {
	facade   CheckoutAPI
	verifier WebhookVerifier
	logger   *slog.Logger
}

// NewWebhookHandler constructs WebhookHandler.
func NewWebhookHandler(facade CheckoutAPI, verifier WebhookVerifier, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{facade: facade, verifier: verifier, logger: logger}
}

// Receive handles POST /api/webhooks/paystack.
func (h *WebhookHandler) Receive(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	if !h.verifier.VerifyWebhookSignature(body, c.GetHeader(signatureHeader)) {
		h.logger.Warn("webhook signature rejected")
		c.Status(http.StatusUnauthorized)
		return
	}

	var event dto.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	if event.Event != "charge.success" {
		// Unhandled event kinds are acknowledged so the gateway stops
		// redelivering them.
		c.Status(http.StatusOK)
		return
	}
	if event.Data.Reference == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	result, err := h.facade.FinalizePayment(c.Request.Context(), event.Data.Reference, model.FinalizeMeta{
		Source:          model.FinalizeSourceWebhook,
		GatewayResponse: event.Data.GatewayResponse,
		PaidAt:          event.Data.PaidAt,
	})
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrNotFound),
			errors.Is(err, domainErrors.ErrInvalidTransition),
			errors.Is(err, domainErrors.ErrStockConflict):
			// Redelivery cannot change the outcome for these.
			h.logger.Warn("webhook finalize not actionable",
				slog.String("reference", event.Data.Reference),
				slog.String("error", err.Error()),
			)
			c.Status(http.StatusOK)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	if result.Idempotent {
		h.logger.Info("webhook redelivery acknowledged", slog.String("reference", event.Data.Reference))
	}
	c.Status(http.StatusOK)
}
