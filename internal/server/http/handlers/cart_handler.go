package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/merchsys/storefront/internal/domain/errors"
	"github.com/merchsys/storefront/internal/domain/model"
	"github.com/merchsys/storefront/internal/server/http/dto"
	"github.com/merchsys/storefront/internal/usecase"
)

// CartHandler manages the shopper's cart endpoints.
type CartHandler struct {
	facade      CartAPI
	shippingFee int64
}

// NewCartHandler constructs CartHandler.
func NewCartHandler(facade CartAPI, shippingFee int64) *CartHandler {
	return &CartHandler{facade: facade, shippingFee: shippingFee}
}

// Show handles GET /api/cart.
func (h *CartHandler) Show(c *gin.Context) {
	cart, err := h.facade.Cart(c.Request.Context(), CurrentTenantID(c), CurrentIdentity(c))
	if err != nil {
		if errors.Is(err, domainErrors.ErrValidation) {
			c.Status(http.StatusBadRequest)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, h.toCartResponse(cart))
}

// PutLine handles PUT /api/cart/items.
func (h *CartHandler) PutLine(c *gin.Context) {
	var req dto.CartPutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	if req.Quantity < 0 {
		c.Status(http.StatusBadRequest)
		return
	}

	cart, err := h.facade.PutCartLine(c.Request.Context(), CurrentTenantID(c), CurrentIdentity(c), req.ProductID, req.VariantID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrValidation):
			c.Status(http.StatusBadRequest)
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}
	c.JSON(http.StatusOK, h.toCartResponse(cart))
}

func (h *CartHandler) toCartResponse(cart *model.Cart) dto.CartResponse {
	lines := make([]dto.CartLineResponse, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		lines = append(lines, dto.CartLineResponse{
			ProductID:   l.ProductID,
			VariantID:   l.VariantID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
		})
	}
	totals := usecase.ComputeTotals(cart.Lines, h.shippingFee)
	return dto.CartResponse{
		Lines:    lines,
		Subtotal: totals.Subtotal,
		Shipping: totals.Shipping,
		Total:    totals.Total,
	}
}
