package events

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/merchsys/storefront/internal/config"
	"github.com/merchsys/storefront/internal/usecase"
)

// Module wires the order event publisher, falling back to a no-op when no
// Kafka brokers are configured.
var Module = fx.Options(
	fx.Provide(newPublisher),
)

type producerParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

func newPublisher(p producerParams) usecase.EventPublisher {
	if len(p.Config.KafkaBrokers) == 0 {
		return NopPublisher{}
	}

	producer := NewProducer(p.Config.KafkaBrokers, p.Config.KafkaTopic, p.Logger)
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return producer.Close()
		},
	})
	return producer
}
