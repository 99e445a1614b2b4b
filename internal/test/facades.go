package test

import (
	"context"

	"github.com/merchsys/storefront/internal/domain/model"
	"github.com/merchsys/storefront/internal/usecase"
)

// CheckoutFacadeStub provides controllable behaviour for checkout endpoints.
type CheckoutFacadeStub struct {
	InitializeFn func(context.Context, usecase.CheckoutInput) (*usecase.CheckoutResult, error)
	FinalizeFn   func(context.Context, string, model.FinalizeMeta) (*model.FinalizeResult, error)
	CallbackFn   func(context.Context, string) (*model.FinalizeResult, error)
	StatusFn     func(context.Context, string) (*model.Payment, error)
}

// InitializeCheckout delegates to the provided function or returns a default result.
func (s CheckoutFacadeStub) InitializeCheckout(ctx context.Context, in usecase.CheckoutInput) (*usecase.CheckoutResult, error) {
	if s.InitializeFn != nil {
		return s.InitializeFn(ctx, in)
	}
	return &usecase.CheckoutResult{
		OrderReference:   "ORD-1",
		PaymentReference: "PAY-1",
		AuthorizationURL: "https://checkout.example/pay",
		Totals:           model.OrderTotals{Subtotal: 1000, Shipping: 100, Total: 1100},
	}, nil
}

// FinalizePayment delegates to the provided function or reports a fresh finalize.
func (s CheckoutFacadeStub) FinalizePayment(ctx context.Context, reference string, meta model.FinalizeMeta) (*model.FinalizeResult, error) {
	if s.FinalizeFn != nil {
		return s.FinalizeFn(ctx, reference, meta)
	}
	return &model.FinalizeResult{
		Payment: &model.Payment{Reference: reference, Status: model.PaymentStatusSuccess},
		Order:   &model.Order{Reference: "ORD-1", Status: model.OrderStatusPaid},
	}, nil
}

// ConfirmFromCallback delegates to the provided function or succeeds.
func (s CheckoutFacadeStub) ConfirmFromCallback(ctx context.Context, reference string) (*model.FinalizeResult, error) {
	if s.CallbackFn != nil {
		return s.CallbackFn(ctx, reference)
	}
	return s.FinalizePayment(ctx, reference, model.FinalizeMeta{Source: model.FinalizeSourceCallback})
}

// PaymentStatus delegates to the provided function or returns a success payment.
func (s CheckoutFacadeStub) PaymentStatus(ctx context.Context, reference string) (*model.Payment, error) {
	if s.StatusFn != nil {
		return s.StatusFn(ctx, reference)
	}
	return &model.Payment{Reference: reference, Status: model.PaymentStatusSuccess, Amount: 1100}, nil
}

// CartFacadeStub simulates cart operations.
type CartFacadeStub struct {
	CartFn    func(context.Context, int64, model.CartIdentity) (*model.Cart, error)
	PutLineFn func(context.Context, int64, model.CartIdentity, int64, int64, int) (*model.Cart, error)
}

// Cart returns the configured cart or an empty one.
func (s CartFacadeStub) Cart(ctx context.Context, tenantID int64, identity model.CartIdentity) (*model.Cart, error) {
	if s.CartFn != nil {
		return s.CartFn(ctx, tenantID, identity)
	}
	return &model.Cart{TenantID: tenantID, CustomerID: identity.CustomerID, SessionID: identity.SessionID}, nil
}

// PutCartLine delegates to the provided function or echoes a one-line cart.
func (s CartFacadeStub) PutCartLine(ctx context.Context, tenantID int64, identity model.CartIdentity, productID, variantID int64, quantity int) (*model.Cart, error) {
	if s.PutLineFn != nil {
		return s.PutLineFn(ctx, tenantID, identity, productID, variantID, quantity)
	}
	return &model.Cart{
		TenantID:   tenantID,
		CustomerID: identity.CustomerID,
		SessionID:  identity.SessionID,
		Lines:      []model.CartLine{{ProductID: productID, VariantID: variantID, Quantity: quantity, UnitPrice: 500}},
	}, nil
}

// AdminFacadeStub simulates back-office operations.
type AdminFacadeStub struct {
	OrderFn        func(context.Context, int64, int64) (*model.Order, error)
	UpdateStatusFn func(context.Context, int64, int64, model.OrderStatus, string, string) (*model.Order, error)
	AdjustFn       func(context.Context, int64, int64, int, string, string) (*model.Variant, error)
}

// Order returns the configured order or a minimal pending one.
func (s AdminFacadeStub) Order(ctx context.Context, tenantID, orderID int64) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, tenantID, orderID)
	}
	return &model.Order{ID: orderID, TenantID: tenantID, Reference: "ORD-1", Status: model.OrderStatusPending}, nil
}

// UpdateOrderStatus delegates to the provided function or applies the status blindly.
func (s AdminFacadeStub) UpdateOrderStatus(ctx context.Context, tenantID, orderID int64, status model.OrderStatus, tracking, note string) (*model.Order, error) {
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, tenantID, orderID, status, tracking, note)
	}
	return &model.Order{ID: orderID, TenantID: tenantID, Status: status, TrackingNumber: tracking}, nil
}

// AdjustInventory delegates to the provided function or echoes the delta.
func (s AdminFacadeStub) AdjustInventory(ctx context.Context, tenantID, variantID int64, delta int, actor, note string) (*model.Variant, error) {
	if s.AdjustFn != nil {
		return s.AdjustFn(ctx, tenantID, variantID, delta, actor, note)
	}
	return &model.Variant{ID: variantID, TenantID: tenantID, Stock: delta}, nil
}

// StorefrontFacadeStub aggregates all facade stubs for router-level tests.
type StorefrontFacadeStub struct {
	CheckoutFacadeStub
	CartFacadeStub
	AdminFacadeStub
}
