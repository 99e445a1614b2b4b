package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmockv3 "github.com/pashagolub/pgxmock/v3"

	"github.com/merchsys/storefront/internal/domain/model"
)

var jobCols = []string{"id", "tenant_id", "kind", "payload", "status", "attempts", "max_attempts", "next_attempt_at", "created_at", "updated_at"}

func TestJobRepositoryEnqueue(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &jobRepository{storage: storage}

	now := time.Now()
	payload := []byte(`{"email":"ada@example.com"}`)
	mock.ExpectQuery("INSERT INTO notification_jobs").
		WithArgs(int64(1), model.JobKindOrderStatus, payload, 8).
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "status", "attempts", "next_attempt_at", "created_at", "updated_at"}).
			AddRow(int64(12), model.JobStatusQueued, 0, now, now, now))

	job, err := repo.Enqueue(context.Background(), 1, model.JobKindOrderStatus, payload, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.ID != 12 || job.Status != model.JobStatusQueued || job.MaxAttempts != 8 {
		t.Fatalf("unexpected job: %+v", job)
	}

	mock.ExpectQuery("INSERT INTO notification_jobs").
		WithArgs(int64(1), model.JobKindOTP, payload, 3).
		WillReturnError(errors.New("insert"))
	if _, err := repo.Enqueue(context.Background(), 1, model.JobKindOTP, payload, 3); err == nil {
		t.Fatal("expected error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestJobRepositoryClaimBatch(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &jobRepository{storage: storage}

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, tenant_id, kind, payload, status, attempts, max_attempts, next_attempt_at").
		WithArgs(5).
		WillReturnRows(pgxmockv3.NewRows(jobCols).
			AddRow(int64(12), int64(1), model.JobKindOrderStatus, []byte(`{}`), model.JobStatusQueued, 0, 8, now, now, now).
			AddRow(int64(13), int64(1), model.JobKindOTP, []byte(`{}`), model.JobStatusQueued, 2, 3, now, now, now))
	mock.ExpectExec("UPDATE notification_jobs").
		WithArgs(int64(12)).WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE notification_jobs").
		WithArgs(int64(13)).WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	jobs, err := repo.ClaimBatch(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("unexpected batch: %+v", jobs)
	}
	for _, job := range jobs {
		if job.Status != model.JobStatusProcessing {
			t.Fatalf("claimed job not processing: %+v", job)
		}
	}
	if jobs[0].Attempts != 1 || jobs[1].Attempts != 3 {
		t.Fatalf("attempts not incremented: %+v", jobs)
	}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, tenant_id, kind, payload, status, attempts, max_attempts, next_attempt_at").
		WithArgs(5).WillReturnError(errors.New("query"))
	mock.ExpectRollback()
	if _, err := repo.ClaimBatch(context.Background(), 5); err == nil {
		t.Fatal("expected error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestJobRepositoryClaimBatchReclaimsStaleClaims(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &jobRepository{storage: storage}

	// A job stuck in processing past the lease is selected again and
	// claimed like any queued job.
	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("status='processing' AND updated_at").
		WithArgs(5).
		WillReturnRows(pgxmockv3.NewRows(jobCols).
			AddRow(int64(14), int64(1), model.JobKindOrderStatus, []byte(`{}`), model.JobStatusProcessing, 1, 8, now.Add(-time.Hour), now.Add(-time.Hour), now.Add(-time.Hour)))
	mock.ExpectExec("UPDATE notification_jobs").
		WithArgs(int64(14)).WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	jobs, err := repo.ClaimBatch(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 1 || jobs[0].ID != 14 {
		t.Fatalf("stale claim not reclaimed: %+v", jobs)
	}
	if jobs[0].Status != model.JobStatusProcessing || jobs[0].Attempts != 2 {
		t.Fatalf("reclaim must count as another attempt: %+v", jobs[0])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestJobRepositoryMarks(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &jobRepository{storage: storage}

	mock.ExpectExec("UPDATE notification_jobs").
		WithArgs(int64(12)).WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	if err := repo.MarkDelivered(context.Background(), 12); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	next := time.Now().Add(30 * time.Second)
	mock.ExpectExec("UPDATE notification_jobs").
		WithArgs(int64(13), next).WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	if err := repo.MarkFailed(context.Background(), 13, next); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}
