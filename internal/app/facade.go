package app

import (
	"context"

	"github.com/merchsys/storefront/internal/domain/model"
	"github.com/merchsys/storefront/internal/usecase"
)

// CheckoutFacade aggregates application use cases behind a single surface
// consumed by the HTTP layer.
type CheckoutFacade struct {
	checkout  *usecase.CheckoutUseCase
	carts     *usecase.CartUseCase
	inventory *usecase.InventoryUseCase
}

// NewCheckoutFacade constructs the facade.
func NewCheckoutFacade(checkout *usecase.CheckoutUseCase, carts *usecase.CartUseCase, inventory *usecase.InventoryUseCase) *CheckoutFacade {
	return &CheckoutFacade{checkout: checkout, carts: carts, inventory: inventory}
}

func (f *CheckoutFacade) InitializeCheckout(ctx context.Context, in usecase.CheckoutInput) (*usecase.CheckoutResult, error) {
	return f.checkout.InitializeCheckout(ctx, in)
}

func (f *CheckoutFacade) FinalizePayment(ctx context.Context, reference string, meta model.FinalizeMeta) (*model.FinalizeResult, error) {
	return f.checkout.FinalizeSuccessfulPayment(ctx, reference, meta)
}

func (f *CheckoutFacade) ConfirmFromCallback(ctx context.Context, reference string) (*model.FinalizeResult, error) {
	return f.checkout.ConfirmFromCallback(ctx, reference)
}

func (f *CheckoutFacade) PaymentStatus(ctx context.Context, reference string) (*model.Payment, error) {
	return f.checkout.PaymentStatus(ctx, reference)
}

func (f *CheckoutFacade) Order(ctx context.Context, tenantID, orderID int64) (*model.Order, error) {
	return f.checkout.Order(ctx, tenantID, orderID)
}

func (f *CheckoutFacade) UpdateOrderStatus(ctx context.Context, tenantID, orderID int64, status model.OrderStatus, tracking, note string) (*model.Order, error) {
	return f.checkout.UpdateOrderStatus(ctx, tenantID, orderID, status, tracking, note)
}

func (f *CheckoutFacade) Cart(ctx context.Context, tenantID int64, identity model.CartIdentity) (*model.Cart, error) {
	return f.carts.Cart(ctx, tenantID, identity)
}

func (f *CheckoutFacade) PutCartLine(ctx context.Context, tenantID int64, identity model.CartIdentity, productID, variantID int64, quantity int) (*model.Cart, error) {
	return f.carts.PutLine(ctx, tenantID, identity, productID, variantID, quantity)
}

func (f *CheckoutFacade) AdjustInventory(ctx context.Context, tenantID, variantID int64, delta int, actor, note string) (*model.Variant, error) {
	return f.inventory.Adjust(ctx, tenantID, variantID, delta, actor, note)
}
