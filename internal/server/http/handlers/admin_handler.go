package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/merchsys/storefront/internal/domain/errors"
	"github.com/merchsys/storefront/internal/domain/model"
	pkgAuth "github.com/merchsys/storefront/internal/pkg/auth"
	"github.com/merchsys/storefront/internal/server/http/dto"
)

// CredentialVerifier checks the configured back-office password.
type CredentialVerifier interface {
	Verify(password string) bool
}

// AdminHandler manages back-office endpoints.
type AdminHandler struct {
	facade   AdminAPI
	verifier CredentialVerifier
	tokens   pkgAuth.Strategy
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(facade AdminAPI, verifier CredentialVerifier, tokens pkgAuth.Strategy) *AdminHandler {
	return &AdminHandler{facade: facade, verifier: verifier, tokens: tokens}
}

// Login handles POST /api/admin/login.
func (h *AdminHandler) Login(c *gin.Context) {
	var req dto.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	if !h.verifier.Verify(req.Password) {
		c.Status(http.StatusUnauthorized)
		return
	}

	token, err := h.tokens.IssueToken(pkgAuth.PrincipalAdmin, 1)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, dto.TokenResponse{Token: token})
}

// Order handles GET /api/admin/orders/:id.
func (h *AdminHandler) Order(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	order, err := h.facade.Order(c.Request.Context(), CurrentTenantID(c), orderID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

// UpdateOrderStatus handles PATCH /api/admin/orders/:id/status.
func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	var req dto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	order, err := h.facade.UpdateOrderStatus(c.Request.Context(), CurrentTenantID(c), orderID,
		model.OrderStatus(req.Status), req.TrackingNumber, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		case errors.Is(err, domainErrors.ErrInvalidTransition):
			c.Status(http.StatusConflict)
		case errors.Is(err, domainErrors.ErrValidation):
			c.Status(http.StatusUnprocessableEntity)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

// AdjustInventory handles POST /api/admin/inventory/adjust.
func (h *AdminHandler) AdjustInventory(c *gin.Context) {
	var req dto.InventoryAdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	variant, err := h.facade.AdjustInventory(c.Request.Context(), CurrentTenantID(c), req.VariantID, req.Delta, "admin", req.Note)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrValidation):
			c.Status(http.StatusBadRequest)
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		case errors.Is(err, domainErrors.ErrStockConflict):
			c.Status(http.StatusConflict)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}
	c.JSON(http.StatusOK, dto.VariantResponse{
		ID:        variant.ID,
		ProductID: variant.ProductID,
		Name:      variant.Name,
		Price:     variant.Price,
		Stock:     variant.Stock,
	})
}
