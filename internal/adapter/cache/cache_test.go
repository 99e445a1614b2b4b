package cache

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/merchsys/storefront/internal/config"
	"github.com/merchsys/storefront/internal/domain/model"
	testhelpers "github.com/merchsys/storefront/internal/test"
)

func TestNopCache(t *testing.T) {
	var c NopCache
	c.SetPaymentStatus(context.Background(), "PS-1", model.PaymentStatusSuccess)
	if _, ok := c.PaymentStatus(context.Background(), "PS-1"); ok {
		t.Fatal("nop cache must always miss")
	}
}

func TestNewStatusCacheFallsBackWithoutRedis(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	recorder := &testhelpers.LifecycleRecorder{}

	c := newStatusCache(cacheParams{Lifecycle: recorder, Config: &config.Config{}, Logger: logger})
	if _, ok := c.(NopCache); !ok {
		t.Fatalf("expected NopCache, got %T", c)
	}
	if len(recorder.Hooks) != 0 {
		t.Fatalf("expected no lifecycle hooks, got %d", len(recorder.Hooks))
	}
}

func TestNewStatusCacheWiresRedis(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	recorder := &testhelpers.LifecycleRecorder{}

	c := newStatusCache(cacheParams{Lifecycle: recorder, Config: &config.Config{RedisAddr: "localhost:6379"}, Logger: logger})
	redisCache, ok := c.(*RedisCache)
	if !ok {
		t.Fatalf("expected *RedisCache, got %T", c)
	}
	if len(recorder.Hooks) != 1 {
		t.Fatalf("expected close hook, got %d", len(recorder.Hooks))
	}
	if err := redisCache.Close(); err != nil {
		t.Fatalf("close returned error: %v", err)
	}
}
