package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/merchsys/storefront/internal/domain/errors"
	"github.com/merchsys/storefront/internal/domain/model"
	"github.com/merchsys/storefront/internal/server/http/dto"
	"github.com/merchsys/storefront/internal/usecase"
)

// CheckoutHandler manages checkout initiation and the payment confirmation
// triggers reachable from the browser.
type CheckoutHandler struct {
	facade             CheckoutAPI
	successRedirectURL string
	failureRedirectURL string
}

// NewCheckoutHandler constructs CheckoutHandler.
func NewCheckoutHandler(facade CheckoutAPI, successRedirectURL, failureRedirectURL string) *CheckoutHandler {
	return &CheckoutHandler{
		facade:             facade,
		successRedirectURL: successRedirectURL,
		failureRedirectURL: failureRedirectURL,
	}
}

// Initialize handles POST /api/checkout.
func (h *CheckoutHandler) Initialize(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	in := usecase.CheckoutInput{
		TenantID:  CurrentTenantID(c),
		Email:     req.Email,
		AddressID: req.AddressID,
	}
	identity := CurrentIdentity(c)
	in.CustomerID = identity.CustomerID
	in.SessionID = identity.SessionID
	if req.Address != nil {
		in.Address = &model.ShippingAddress{
			FullName: req.Address.FullName,
			Line1:    req.Address.Line1,
			Line2:    req.Address.Line2,
			City:     req.Address.City,
			Country:  req.Address.Country,
			Phone:    req.Address.Phone,
		}
	}

	result, err := h.facade.InitializeCheckout(c.Request.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrEmptyCart):
			c.Status(http.StatusUnprocessableEntity)
		case errors.Is(err, domainErrors.ErrValidation):
			c.Status(http.StatusBadRequest)
		case errors.Is(err, domainErrors.ErrGatewayUnavailable), errors.Is(err, domainErrors.ErrGateway):
			c.Status(http.StatusBadGateway)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusCreated, dto.CheckoutResponse{
		OrderReference:   result.OrderReference,
		PaymentReference: result.PaymentReference,
		AuthorizationURL: result.AuthorizationURL,
		Subtotal:         result.Totals.Subtotal,
		Shipping:         result.Totals.Shipping,
		Total:            result.Totals.Total,
	})
}

// Status handles GET /api/checkout/payments/:reference.
func (h *CheckoutHandler) Status(c *gin.Context) {
	reference := c.Param("reference")
	if reference == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	payment, err := h.facade.PaymentStatus(c.Request.Context(), reference)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, dto.PaymentStatusResponse{
		Reference:  payment.Reference,
		Status:     string(payment.Status),
		Amount:     payment.Amount,
		VerifiedAt: payment.VerifiedAt,
	})
}

// Callback handles GET /api/checkout/callback. The gateway redirects the
// shopper's browser here after payment; the outcome is always a redirect,
// never an API status, because a human is on the other end.
func (h *CheckoutHandler) Callback(c *gin.Context) {
	reference := c.Query("reference")
	if reference == "" {
		reference = c.Query("trxref")
	}
	if reference == "" {
		c.Redirect(http.StatusFound, h.failureRedirectURL)
		return
	}

	_, err := h.facade.ConfirmFromCallback(c.Request.Context(), reference)
	if err != nil {
		c.Redirect(http.StatusFound, h.failureRedirectURL)
		return
	}
	c.Redirect(http.StatusFound, h.successURL(reference))
}

// successURL appends the reference to the configured success page,
// preserving any query string the page already carries.
func (h *CheckoutHandler) successURL(reference string) string {
	u, err := url.Parse(h.successRedirectURL)
	if err != nil {
		return h.successRedirectURL
	}
	q := u.Query()
	q.Set("reference", reference)
	u.RawQuery = q.Encode()
	return u.String()
}
