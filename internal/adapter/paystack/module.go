package paystack

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/merchsys/storefront/internal/config"
	"github.com/merchsys/storefront/internal/usecase"
)

// Module exposes the gateway client to the fx graph.
var Module = fx.Options(
	fx.Provide(newClient),
	fx.Provide(func(c *Client) usecase.Gateway { return c }),
)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (*Client, error) {
	return NewClient(
		p.Config.PaystackBaseURL,
		p.Config.PaystackSecretKey,
		p.Config.WebhookSecret,
		p.Config.GatewayTimeout,
		p.Logger,
	)
}
