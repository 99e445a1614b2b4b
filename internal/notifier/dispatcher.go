package notifier

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/merchsys/storefront/internal/domain/model"
	"github.com/merchsys/storefront/internal/domain/repository"
)

// Retry budgets per job kind. A missed shipping notice is not self-service
// recoverable, so order status jobs get a bigger budget than OTP and stock
// alerts, which the user can re-trigger.
var maxAttemptsByKind = map[model.JobKind]int{
	model.JobKindOrderStatus:   8,
	model.JobKindOTP:           3,
	model.JobKindWishlistStock: 3,
}

const defaultMaxAttempts = 3

// Service enqueues notification jobs into the durable queue. Enqueue is
// fire-and-forget for the caller and never returns an error.
type Service struct {
	jobs   repository.JobRepository
	logger *slog.Logger
}

// NewService constructs the dispatcher enqueue side.
func NewService(jobs repository.JobRepository, logger *slog.Logger) *Service {
	return &Service{jobs: jobs, logger: logger}
}

// Enqueue serializes the payload and stores the job. Failure is reported via
// the boolean only; the producing business transaction is never rolled back
// by a notification problem.
func (s *Service) Enqueue(ctx context.Context, tenantID int64, kind model.JobKind, payload any) bool {
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("marshal notification payload failed",
			slog.String("kind", string(kind)),
			slog.String("error", err.Error()),
		)
		return false
	}

	maxAttempts, ok := maxAttemptsByKind[kind]
	if !ok {
		maxAttempts = defaultMaxAttempts
	}

	if _, err := s.jobs.Enqueue(ctx, tenantID, kind, data, maxAttempts); err != nil {
		s.logger.Error("enqueue notification failed",
			slog.String("kind", string(kind)),
			slog.String("error", err.Error()),
		)
		return false
	}
	return true
}
