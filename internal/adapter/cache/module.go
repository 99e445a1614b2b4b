package cache

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/merchsys/storefront/internal/config"
	"github.com/merchsys/storefront/internal/usecase"
)

// Module wires the payment status cache, falling back to a no-op
// implementation when redis is not configured.
var Module = fx.Options(
	fx.Provide(newStatusCache),
)

type cacheParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

func newStatusCache(p cacheParams) usecase.StatusCache {
	if p.Config.RedisAddr == "" {
		return NopCache{}
	}

	c := NewRedisCache(p.Config.RedisAddr, p.Logger)
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return c.Close()
		},
	})
	return c
}
