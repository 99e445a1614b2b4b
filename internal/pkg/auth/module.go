package auth

import (
	"go.uber.org/fx"

	"github.com/merchsys/storefront/internal/config"
)

// Module provides authentication primitives via fx.
var Module = fx.Options(
	fx.Provide(newTokenStrategy),
	fx.Provide(newAdminVerifier),
)

type strategyParams struct {
	fx.In

	Config *config.Config
}

func newTokenStrategy(p strategyParams) Strategy {
	return NewHMACStrategy(p.Config.SessionSecret, Options{})
}

func newAdminVerifier(p strategyParams) *AdminVerifier {
	return NewAdminVerifier(p.Config.AdminPasswordHash)
}
