package di

import (
	"go.uber.org/fx"

	"github.com/merchsys/storefront/internal/adapter/cache"
	"github.com/merchsys/storefront/internal/adapter/events"
	"github.com/merchsys/storefront/internal/adapter/paystack"
	"github.com/merchsys/storefront/internal/app"
	"github.com/merchsys/storefront/internal/config"
	"github.com/merchsys/storefront/internal/logger"
	"github.com/merchsys/storefront/internal/notifier"
	pkgAuth "github.com/merchsys/storefront/internal/pkg/auth"
	"github.com/merchsys/storefront/internal/server/http/handlers"
	"github.com/merchsys/storefront/internal/server/http/router"
	"github.com/merchsys/storefront/internal/storage/postgres"
	"github.com/merchsys/storefront/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		pkgAuth.Module,
		postgres.Module,
		paystack.Module,
		cache.Module,
		events.Module,
		notifier.Module,
		usecase.Module,
		fx.Provide(func(f *app.CheckoutFacade) handlers.StorefrontFacade { return f }),
		fx.Provide(func(c *paystack.Client) handlers.WebhookVerifier { return c }),
		fx.Provide(func(v *pkgAuth.AdminVerifier) handlers.CredentialVerifier { return v }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
