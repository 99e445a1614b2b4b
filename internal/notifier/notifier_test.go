package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/merchsys/storefront/internal/domain/model"
	"github.com/merchsys/storefront/internal/test"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestServiceEnqueueSerializesPayload(t *testing.T) {
	jobs := test.NewJobRepositoryStub()
	svc := NewService(jobs, testLogger())

	ok := svc.Enqueue(context.Background(), 1, model.JobKindOrderStatus, model.OrderStatusPayload{
		Email:          "ada@example.com",
		OrderReference: "ORD-1",
		Status:         "paid",
	})
	if !ok {
		t.Fatalf("enqueue must succeed")
	}
	if len(jobs.Jobs) != 1 {
		t.Fatalf("expected one stored job")
	}
	job := jobs.Jobs[0]
	if job.Kind != model.JobKindOrderStatus {
		t.Fatalf("unexpected kind %s", job.Kind)
	}
	if job.MaxAttempts != 8 {
		t.Fatalf("order status jobs get the bigger retry budget, got %d", job.MaxAttempts)
	}
	var payload model.OrderStatusPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		t.Fatalf("payload not valid JSON: %v", err)
	}
	if payload.OrderReference != "ORD-1" {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestServiceEnqueueOTPBudget(t *testing.T) {
	jobs := test.NewJobRepositoryStub()
	svc := NewService(jobs, testLogger())

	svc.Enqueue(context.Background(), 1, model.JobKindOTP, model.OTPPayload{Email: "a@b.c", Code: "123456", Purpose: "login"})
	if jobs.Jobs[0].MaxAttempts != 3 {
		t.Fatalf("unexpected budget %d", jobs.Jobs[0].MaxAttempts)
	}
}

func TestServiceEnqueueRepositoryFailure(t *testing.T) {
	jobs := test.NewJobRepositoryStub()
	jobs.Err = errors.New("db down")
	svc := NewService(jobs, testLogger())

	if svc.Enqueue(context.Background(), 1, model.JobKindOTP, model.OTPPayload{}) {
		t.Fatalf("enqueue must report failure")
	}
}

func TestRenderOrderStatusJob(t *testing.T) {
	payload, _ := json.Marshal(model.OrderStatusPayload{
		Email:          "ada@example.com",
		FirstName:      "Ada",
		OrderReference: "ORD-1",
		Status:         "shipped",
		TrackingNumber: "TRK99",
	})
	to, subject, body, err := renderJob(model.NotificationJob{Kind: model.JobKindOrderStatus, Payload: payload})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if to != "ada@example.com" {
		t.Fatalf("unexpected recipient %s", to)
	}
	if !strings.Contains(subject, "ORD-1") || !strings.Contains(subject, "shipped") {
		t.Fatalf("unexpected subject %q", subject)
	}
	if !strings.Contains(body, "TRK99") {
		t.Fatalf("tracking number missing from body %q", body)
	}
}

func TestRenderWishlistStockJob(t *testing.T) {
	payload, _ := json.Marshal(model.WishlistStockPayload{Email: "a@b.c", ProductName: "Tee", Stock: 4})
	to, subject, _, err := renderJob(model.NotificationJob{Kind: model.JobKindWishlistStock, Payload: payload})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if to != "a@b.c" || !strings.Contains(subject, "Tee") {
		t.Fatalf("unexpected render %s %q", to, subject)
	}
}

func TestRenderUnknownKind(t *testing.T) {
	if _, _, _, err := renderJob(model.NotificationJob{Kind: "bogus"}); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestBackoffDoublesAndCaps(t *testing.T) {
	if backoff(1) != retryBaseDelay {
		t.Fatalf("unexpected first delay %v", backoff(1))
	}
	if backoff(2) != 2*retryBaseDelay {
		t.Fatalf("unexpected second delay %v", backoff(2))
	}
	if backoff(30) != retryMaxDelay {
		t.Fatalf("late attempts must cap at %v, got %v", retryMaxDelay, backoff(30))
	}
	if backoff(0) != retryBaseDelay {
		t.Fatalf("unexpected zero-attempt delay %v", backoff(0))
	}
}

func TestWorkerDeliversClaimedJobs(t *testing.T) {
	jobs := test.NewJobRepositoryStub()
	mailer := &test.MailerStub{}
	svc := NewService(jobs, testLogger())
	svc.Enqueue(context.Background(), 1, model.JobKindOTP, model.OTPPayload{Email: "a@b.c", Code: "000111", Purpose: "login"})

	w := NewWorker(jobs, mailer, 10*time.Millisecond, 4, 2, testLogger())
	w.Start(context.Background())
	defer w.Stop()

	deadline := time.After(2 * time.Second)
	for {
		if sent := mailer.SentTo(); len(sent) == 1 && sent[0] == "a@b.c" {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("job never delivered")
		case <-time.After(10 * time.Millisecond):
		}
	}

	w.Stop()
	if job := jobs.Snapshot(0); job.Status != model.JobStatusDelivered {
		t.Fatalf("job not marked delivered: %s", job.Status)
	}
}

func TestWorkerRetriesFailedDelivery(t *testing.T) {
	jobs := test.NewJobRepositoryStub()
	mailer := &test.MailerStub{Err: errors.New("smtp refused")}
	svc := NewService(jobs, testLogger())
	svc.Enqueue(context.Background(), 1, model.JobKindOTP, model.OTPPayload{Email: "a@b.c", Code: "000111", Purpose: "login"})

	w := NewWorker(jobs, mailer, 10*time.Millisecond, 4, 1, testLogger())
	w.Start(context.Background())

	deadline := time.After(2 * time.Second)
	for {
		job := jobs.Snapshot(0)
		if job.Status == model.JobStatusQueued && job.Attempts == 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("job not requeued, status %s attempts %d", job.Status, job.Attempts)
		case <-time.After(10 * time.Millisecond):
		}
	}
	w.Stop()

	if next := jobs.Snapshot(0).NextAttemptAt; !next.After(time.Now().Add(retryBaseDelay / 2)) {
		t.Fatalf("retry must be delayed, next attempt %v", next)
	}
}

func TestWorkerBuriesMalformedPayload(t *testing.T) {
	jobs := test.NewJobRepositoryStub()
	if _, err := jobs.Enqueue(context.Background(), 1, model.JobKindOrderStatus, []byte("{not json"), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mailer := &test.MailerStub{}

	w := NewWorker(jobs, mailer, 10*time.Millisecond, 4, 1, testLogger())
	w.Start(context.Background())

	deadline := time.After(2 * time.Second)
	for {
		if jobs.Snapshot(0).Status == model.JobStatusFailed {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("malformed job not buried, status %s", jobs.Snapshot(0).Status)
		case <-time.After(10 * time.Millisecond):
		}
	}
	w.Stop()

	if len(mailer.SentTo()) != 0 {
		t.Fatalf("malformed payload must never reach the mailer")
	}
}
