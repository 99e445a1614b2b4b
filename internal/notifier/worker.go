package notifier

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/merchsys/storefront/internal/domain/model"
	"github.com/merchsys/storefront/internal/domain/repository"
)

const (
	retryBaseDelay = 30 * time.Second
	retryMaxDelay  = 30 * time.Minute
)

// Worker drains the notification queue with a polling dispatcher and a
// worker pool, retrying failed deliveries with exponential backoff.
type Worker struct {
	jobRepo      repository.JobRepository
	mailer       Mailer
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.NotificationJob
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewWorker constructs the queue consumer.
func NewWorker(jobs repository.JobRepository, mailer Mailer, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *Worker {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &Worker{
		jobRepo:      jobs,
		mailer:       mailer,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.NotificationJob, batchSize*workers),
	}
}

// Start launches background processing.
func (w *Worker) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	for i := 0; i < w.workers; i++ {
		w.wg.Add(1)
		go w.worker(runCtx)
	}

	w.wg.Add(1)
	go w.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (w *Worker) Stop() {
	w.mu.Lock()
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	w.mu.Unlock()

	w.wg.Wait()
}

func (w *Worker) dispatch(ctx context.Context) {
	defer w.wg.Done()
	defer close(w.jobs)
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.claimAndDispatch(ctx)
		}
	}
}

func (w *Worker) claimAndDispatch(ctx context.Context) {
	batch, err := w.jobRepo.ClaimBatch(ctx, w.batchSize)
	if err != nil {
		w.logger.Error("claim notification batch failed", slog.String("error", err.Error()))
		return
	}
	for _, job := range batch {
		select {
		case <-ctx.Done():
			return
		case w.jobs <- job:
		}
	}
}

func (w *Worker) worker(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-w.jobs:
			if !ok {
				return
			}
			w.handleJob(ctx, job)
		}
	}
}

func (w *Worker) handleJob(ctx context.Context, job model.NotificationJob) {
	to, subject, body, err := renderJob(job)
	if err != nil {
		// Malformed payloads never become deliverable; burn through the
		// attempt budget with immediate retries so they bury quickly.
		w.logger.Error("render notification failed",
			slog.Int64("job", job.ID),
			slog.String("error", err.Error()),
		)
		if err := w.jobRepo.MarkFailed(ctx, job.ID, time.Now()); err != nil {
			w.logger.Error("mark notification failed errored", slog.Int64("job", job.ID), slog.String("error", err.Error()))
		}
		return
	}

	if err := w.mailer.Send(ctx, to, subject, body); err != nil {
		next := time.Now().Add(backoff(job.Attempts))
		w.logger.Warn("notification delivery failed",
			slog.Int64("job", job.ID),
			slog.String("kind", string(job.Kind)),
			slog.Int("attempt", job.Attempts),
			slog.String("error", err.Error()),
		)
		if err := w.jobRepo.MarkFailed(ctx, job.ID, next); err != nil {
			w.logger.Error("mark notification failed errored", slog.Int64("job", job.ID), slog.String("error", err.Error()))
		}
		return
	}

	if err := w.jobRepo.MarkDelivered(ctx, job.ID); err != nil {
		w.logger.Error("mark notification delivered errored", slog.Int64("job", job.ID), slog.String("error", err.Error()))
	}
}

// backoff doubles the delay per attempt, capped at retryMaxDelay.
func backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := retryBaseDelay << (attempt - 1)
	if delay > retryMaxDelay || delay <= 0 {
		return retryMaxDelay
	}
	return delay
}
