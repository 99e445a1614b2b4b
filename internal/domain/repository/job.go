package repository

import (
	"context"
	"time"

	"github.com/merchsys/storefront/internal/domain/model"
)

// JobRepository is the durable queue behind the notification dispatcher.
type JobRepository interface {
	Enqueue(ctx context.Context, tenantID int64, kind model.JobKind, payload []byte, maxAttempts int) (*model.NotificationJob, error)
	// ClaimBatch atomically selects up to limit due jobs and marks them
	// processing so concurrent consumers never claim the same job twice.
	ClaimBatch(ctx context.Context, limit int) ([]model.NotificationJob, error)
	MarkDelivered(ctx context.Context, jobID int64) error
	// MarkFailed schedules a retry at nextAttempt, or buries the job once
	// its attempt budget is exhausted.
	MarkFailed(ctx context.Context, jobID int64, nextAttempt time.Time) error
}
