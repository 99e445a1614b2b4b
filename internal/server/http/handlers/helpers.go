package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/merchsys/storefront/internal/domain/model"
	"github.com/merchsys/storefront/internal/server/http/dto"
	"github.com/merchsys/storefront/internal/server/http/middleware"
)

// CurrentTenantID extracts the store identifier resolved by middleware.
func CurrentTenantID(c *gin.Context) int64 {
	val, ok := c.Get(middleware.TenantIDContextKey)
	if !ok {
		return 0
	}
	id, _ := val.(int64)
	return id
}

// CurrentIdentity extracts the shopper identity resolved by middleware.
// Exactly one of the two fields is set for an authenticated request.
func CurrentIdentity(c *gin.Context) model.CartIdentity {
	identity := model.CartIdentity{}
	if val, ok := c.Get(middleware.CustomerIDContextKey); ok {
		identity.CustomerID, _ = val.(int64)
	}
	if val, ok := c.Get(middleware.SessionIDContextKey); ok {
		identity.SessionID, _ = val.(string)
	}
	return identity
}

func toOrderResponse(order *model.Order) dto.OrderResponse {
	lines := make([]dto.OrderLineResponse, 0, len(order.Lines))
	for _, l := range order.Lines {
		lines = append(lines, dto.OrderLineResponse{
			ProductID:   l.ProductID,
			VariantID:   l.VariantID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
		})
	}
	timeline := make([]dto.TimelineEntryResponse, 0, len(order.Timeline))
	for _, e := range order.Timeline {
		timeline = append(timeline, dto.TimelineEntryResponse{
			Status:    string(e.Status),
			Note:      e.Note,
			Actor:     e.Actor,
			CreatedAt: e.CreatedAt,
		})
	}
	return dto.OrderResponse{
		ID:             order.ID,
		Reference:      order.Reference,
		Status:         string(order.Status),
		Subtotal:       order.Totals.Subtotal,
		Shipping:       order.Totals.Shipping,
		Total:          order.Totals.Total,
		TrackingNumber: order.TrackingNumber,
		Lines:          lines,
		Timeline:       timeline,
		CreatedAt:      order.CreatedAt,
	}
}
