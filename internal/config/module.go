package config

import "go.uber.org/fx"

// Module provides the parsed service configuration to fx graphs.
var Module = fx.Provide(Load)
