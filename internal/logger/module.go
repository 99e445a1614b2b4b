package logger

import "go.uber.org/fx"

// Module provides the JSON logger for dependency injection.
var Module = fx.Provide(New)
