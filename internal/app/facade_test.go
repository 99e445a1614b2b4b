package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	domainErrors "github.com/merchsys/storefront/internal/domain/errors"
	"github.com/merchsys/storefront/internal/domain/model"
	testhelpers "github.com/merchsys/storefront/internal/test"
	"github.com/merchsys/storefront/internal/usecase"
)

type facadeFixture struct {
	orders   *testhelpers.OrderRepositoryStub
	payments *testhelpers.PaymentRepositoryStub
	carts    *testhelpers.CartRepositoryStub
	catalog  *testhelpers.CatalogRepositoryStub
	facade   *CheckoutFacade
}

func newFacadeFixture() *facadeFixture {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	f := &facadeFixture{
		orders:   testhelpers.NewOrderRepositoryStub(),
		payments: testhelpers.NewPaymentRepositoryStub(),
		carts:    testhelpers.NewCartRepositoryStub(),
		catalog:  testhelpers.NewCatalogRepositoryStub(),
	}

	checkout := usecase.NewCheckoutUseCase(
		f.orders, f.payments, f.carts, testhelpers.NewDirectoryRepositoryStub(),
		&testhelpers.GatewayStub{}, &testhelpers.DispatcherStub{}, &testhelpers.PublisherStub{}, testhelpers.NewCacheStub(),
		"paystack", 250, logger,
	)
	cartUC := usecase.NewCartUseCase(f.carts, f.catalog)
	inventoryUC := usecase.NewInventoryUseCase(f.catalog, &testhelpers.DispatcherStub{}, logger)

	f.facade = NewCheckoutFacade(checkout, cartUC, inventoryUC)
	return f
}

func TestCheckoutFacadeCartFlow(t *testing.T) {
	f := newFacadeFixture()
	f.catalog.Variants[10] = &model.Variant{ID: 10, ProductID: 1, TenantID: 1, Name: "Tee / M", Price: 1500, Stock: 5}
	identity := model.CartIdentity{SessionID: testhelpers.RandomASCIIString(16, 16)}

	cart, err := f.facade.PutCartLine(context.Background(), 1, identity, 1, 10, 2)
	if err != nil {
		t.Fatalf("put cart line returned error: %v", err)
	}
	if len(cart.Lines) != 1 || cart.Lines[0].UnitPrice != 1500 {
		t.Fatalf("unexpected cart: %+v", cart)
	}

	cart, err = f.facade.Cart(context.Background(), 1, identity)
	if err != nil {
		t.Fatalf("cart returned error: %v", err)
	}
	if len(cart.Lines) != 1 {
		t.Fatalf("expected one line, got %+v", cart)
	}
}

func TestCheckoutFacadeCheckoutFlow(t *testing.T) {
	f := newFacadeFixture()
	identity := model.CartIdentity{SessionID: "s1"}
	cart, _ := f.carts.Get(context.Background(), 1, identity)
	cart.Lines = []model.CartLine{{ProductID: 1, VariantID: 10, ProductName: "Tee", Quantity: 2, UnitPrice: 1500}}

	result, err := f.facade.InitializeCheckout(context.Background(), usecase.CheckoutInput{
		TenantID:  1,
		SessionID: "s1",
		Email:     "ada@example.com",
		Address:   &model.ShippingAddress{FullName: "Ada Obi", Line1: "5 Marina Rd", City: "Lagos", Country: "NG"},
	})
	if err != nil {
		t.Fatalf("initialize checkout returned error: %v", err)
	}
	if result.AuthorizationURL == "" || result.Totals.Total != 3250 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestCheckoutFacadePayments(t *testing.T) {
	f := newFacadeFixture()
	order := &model.Order{ID: 9, TenantID: 1, Reference: "PS-1", Status: model.OrderStatusPending}
	payment := &model.Payment{ID: 5, TenantID: 1, OrderID: 9, Reference: "PS-1", Status: model.PaymentStatusInitialized, Amount: 3250}
	f.payments.Seed(payment, order)

	result, err := f.facade.FinalizePayment(context.Background(), "PS-1", model.FinalizeMeta{Source: model.FinalizeSourceWebhook})
	if err != nil {
		t.Fatalf("finalize returned error: %v", err)
	}
	if result.Idempotent {
		t.Fatal("first finalize must not be idempotent")
	}

	stored, err := f.facade.PaymentStatus(context.Background(), "PS-1")
	if err != nil {
		t.Fatalf("payment status returned error: %v", err)
	}
	if stored.Reference != "PS-1" || stored.Status != model.PaymentStatusSuccess {
		t.Fatalf("unexpected payment: %+v", stored)
	}

	replay, err := f.facade.ConfirmFromCallback(context.Background(), "PS-1")
	if err != nil {
		t.Fatalf("callback confirm returned error: %v", err)
	}
	if !replay.Idempotent {
		t.Fatal("expected idempotent replay after webhook settled the payment")
	}
}

func TestCheckoutFacadeOrders(t *testing.T) {
	f := newFacadeFixture()
	f.orders.Orders[9] = &model.Order{ID: 9, TenantID: 1, Reference: "PS-1", Status: model.OrderStatusPaid}

	order, err := f.facade.Order(context.Background(), 1, 9)
	if err != nil {
		t.Fatalf("order returned error: %v", err)
	}
	if order.Reference != "PS-1" {
		t.Fatalf("unexpected order: %+v", order)
	}

	updated, err := f.facade.UpdateOrderStatus(context.Background(), 1, 9, model.OrderStatusProcessing, "", "Packing.")
	if err != nil {
		t.Fatalf("update status returned error: %v", err)
	}
	if updated.Status != model.OrderStatusProcessing {
		t.Fatalf("unexpected status: %+v", updated)
	}

	if _, err := f.facade.Order(context.Background(), 1, 404); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCheckoutFacadeInventory(t *testing.T) {
	f := newFacadeFixture()
	f.catalog.Variants[10] = &model.Variant{ID: 10, ProductID: 1, TenantID: 1, Name: "Tee / M", Price: 1500, Stock: 2}

	variant, err := f.facade.AdjustInventory(context.Background(), 1, 10, 3, "admin", "Restock.")
	if err != nil {
		t.Fatalf("adjust returned error: %v", err)
	}
	if variant.Stock != 5 {
		t.Fatalf("unexpected stock: %+v", variant)
	}

	if _, err := f.facade.AdjustInventory(context.Background(), 1, 10, -10, "admin", ""); !errors.Is(err, domainErrors.ErrStockConflict) {
		t.Fatalf("expected stock conflict, got %v", err)
	}
}
