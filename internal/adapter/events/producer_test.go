package events

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/merchsys/storefront/internal/config"
	"github.com/merchsys/storefront/internal/domain/model"
	testhelpers "github.com/merchsys/storefront/internal/test"
)

func TestNopPublisher(t *testing.T) {
	var p NopPublisher
	p.PublishOrderEvent(context.Background(), 1, "PS-1", model.OrderStatusPaid)
}

func TestNewPublisherFallsBackWithoutBrokers(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	recorder := &testhelpers.LifecycleRecorder{}

	p := newPublisher(producerParams{Lifecycle: recorder, Config: &config.Config{}, Logger: logger})
	if _, ok := p.(NopPublisher); !ok {
		t.Fatalf("expected NopPublisher, got %T", p)
	}
	if len(recorder.Hooks) != 0 {
		t.Fatalf("expected no lifecycle hooks, got %d", len(recorder.Hooks))
	}
}

func TestNewPublisherWiresKafka(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	recorder := &testhelpers.LifecycleRecorder{}
	cfg := &config.Config{KafkaBrokers: []string{"localhost:9092"}, KafkaTopic: "storefront.order-events"}

	p := newPublisher(producerParams{Lifecycle: recorder, Config: cfg, Logger: logger})
	producer, ok := p.(*Producer)
	if !ok {
		t.Fatalf("expected *Producer, got %T", p)
	}
	if len(recorder.Hooks) != 1 {
		t.Fatalf("expected close hook, got %d", len(recorder.Hooks))
	}
	if err := producer.Close(); err != nil {
		t.Fatalf("close returned error: %v", err)
	}
}
