package notifier

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/merchsys/storefront/internal/config"
	"github.com/merchsys/storefront/internal/usecase"
)

// Module provides the dispatcher enqueue service and the mail transport.
var Module = fx.Options(
	fx.Provide(NewService),
	fx.Provide(func(s *Service) usecase.Dispatcher { return s }),
	fx.Provide(newMailer),
)

func newMailer(cfg *config.Config, logger *slog.Logger) Mailer {
	if cfg.SMTPAddr == "" || cfg.SMTPFrom == "" {
		return NewLogMailer(logger)
	}
	return NewSMTPMailer(cfg.SMTPAddr, cfg.SMTPFrom)
}
