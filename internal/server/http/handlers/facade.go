package handlers

import (
	"context"

	"github.com/merchsys/storefront/internal/domain/model"
	"github.com/merchsys/storefront/internal/usecase"
)

// CheckoutAPI describes the checkout pipeline operations exposed via HTTP.
type CheckoutAPI interface {
	InitializeCheckout(ctx context.Context, in usecase.CheckoutInput) (*usecase.CheckoutResult, error)
	FinalizePayment(ctx context.Context, reference string, meta model.FinalizeMeta) (*model.FinalizeResult, error)
	ConfirmFromCallback(ctx context.Context, reference string) (*model.FinalizeResult, error)
	PaymentStatus(ctx context.Context, reference string) (*model.Payment, error)
}

// CartAPI provides cart read/write operations.
type CartAPI interface {
	Cart(ctx context.Context, tenantID int64, identity model.CartIdentity) (*model.Cart, error)
	PutCartLine(ctx context.Context, tenantID int64, identity model.CartIdentity, productID, variantID int64, quantity int) (*model.Cart, error)
}

// AdminAPI provides back-office order and inventory operations.
type AdminAPI interface {
	Order(ctx context.Context, tenantID, orderID int64) (*model.Order, error)
	UpdateOrderStatus(ctx context.Context, tenantID, orderID int64, status model.OrderStatus, tracking, note string) (*model.Order, error)
	AdjustInventory(ctx context.Context, tenantID, variantID int64, delta int, actor, note string) (*model.Variant, error)
}

// StorefrontFacade aggregates the full set of operations used across handlers.
type StorefrontFacade interface {
	CheckoutAPI
	CartAPI
	AdminAPI
}

// WebhookVerifier authenticates raw webhook deliveries.
type WebhookVerifier interface {
	VerifyWebhookSignature(body []byte, signature string) bool
}
