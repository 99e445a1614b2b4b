package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/merchsys/storefront/internal/domain/model"
)

type jobRepository struct {
	storage *Storage
}

func (r *jobRepository) Enqueue(ctx context.Context, tenantID int64, kind model.JobKind, payload []byte, maxAttempts int) (*model.NotificationJob, error) {
	const query = `INSERT INTO notification_jobs (tenant_id, kind, payload, max_attempts)
                   VALUES ($1,$2,$3,$4)
                   RETURNING id, status, attempts, next_attempt_at, created_at, updated_at`
	job := &model.NotificationJob{
		TenantID:    tenantID,
		Kind:        kind,
		Payload:     payload,
		MaxAttempts: maxAttempts,
	}
	err := r.storage.pool.QueryRow(ctx, query, tenantID, kind, payload, maxAttempts).
		Scan(&job.ID, &job.Status, &job.Attempts, &job.NextAttemptAt, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return job, nil
}

func (r *jobRepository) ClaimBatch(ctx context.Context, limit int) ([]model.NotificationJob, error) {
	// A claim that never reached MarkDelivered or MarkFailed (the worker
	// died mid-flight) leaves the row in 'processing'. Rows whose claim is
	// older than the lease become claimable again, so a restart resumes
	// delivery instead of stranding them.
	const selectQuery = `SELECT id, tenant_id, kind, payload, status, attempts, max_attempts, next_attempt_at, created_at, updated_at
                         FROM notification_jobs
                         WHERE (status='queued' AND next_attempt_at <= NOW())
                            OR (status='processing' AND updated_at <= NOW() - INTERVAL '5 minutes')
                         ORDER BY next_attempt_at
                         LIMIT $1
                         FOR UPDATE SKIP LOCKED`

	var jobs []model.NotificationJob
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectQuery, limit)
		if err != nil {
			return err
		}

		// Drain the cursor before issuing the claim updates; pgx runs one
		// statement at a time per connection.
		var claimed []model.NotificationJob
		for rows.Next() {
			var j model.NotificationJob
			if err := rows.Scan(&j.ID, &j.TenantID, &j.Kind, &j.Payload, &j.Status, &j.Attempts, &j.MaxAttempts, &j.NextAttemptAt, &j.CreatedAt, &j.UpdatedAt); err != nil {
				rows.Close()
				return err
			}
			claimed = append(claimed, j)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		for i := range claimed {
			if _, err := tx.Exec(ctx, `UPDATE notification_jobs SET status='processing', attempts=attempts+1, updated_at=NOW() WHERE id=$1`, claimed[i].ID); err != nil {
				return err
			}
			claimed[i].Status = model.JobStatusProcessing
			claimed[i].Attempts++
		}
		jobs = claimed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *jobRepository) MarkDelivered(ctx context.Context, jobID int64) error {
	const query = `UPDATE notification_jobs SET status='delivered', updated_at=NOW() WHERE id=$1`
	_, err := r.storage.pool.Exec(ctx, query, jobID)
	return err
}

func (r *jobRepository) MarkFailed(ctx context.Context, jobID int64, nextAttempt time.Time) error {
	const query = `UPDATE notification_jobs
                   SET status=CASE WHEN attempts >= max_attempts THEN 'failed' ELSE 'queued' END,
                       next_attempt_at=$2,
                       updated_at=NOW()
                   WHERE id=$1`
	_, err := r.storage.pool.Exec(ctx, query, jobID, nextAttempt)
	return err
}
