package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/merchsys/storefront/internal/config"
	"github.com/merchsys/storefront/internal/domain/repository"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	newCheckoutUseCase,
	NewCartUseCase,
	newInventoryUseCase,
)

type checkoutParams struct {
	fx.In

	Orders    repository.OrderRepository
	Payments  repository.PaymentRepository
	Carts     repository.CartRepository
	Directory repository.DirectoryRepository
	Gateway   Gateway
	Notifier  Dispatcher
	Events    EventPublisher
	Cache     StatusCache
	Config    *config.Config
	Logger    *slog.Logger
}

func newCheckoutUseCase(p checkoutParams) *CheckoutUseCase {
	return NewCheckoutUseCase(
		p.Orders, p.Payments, p.Carts, p.Directory,
		p.Gateway, p.Notifier, p.Events, p.Cache,
		p.Config.PaymentProvider, p.Config.ShippingFee,
		p.Logger,
	)
}

type inventoryParams struct {
	fx.In

	Catalog  repository.CatalogRepository
	Notifier Dispatcher
	Logger   *slog.Logger
}

func newInventoryUseCase(p inventoryParams) *InventoryUseCase {
	return NewInventoryUseCase(p.Catalog, p.Notifier, p.Logger)
}
