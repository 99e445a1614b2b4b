package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/merchsys/storefront/internal/domain/model"
)

const (
	keyPaymentStatus = "payment_status:%s"
	statusTTL        = 5 * time.Minute
)

// RedisCache caches payment status for the poll path. It is a read-side
// optimization only; correctness never depends on a cache hit.
type RedisCache struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisCache connects a status cache to the given address.
func NewRedisCache(addr string, logger *slog.Logger) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		logger: logger,
	}
}

// PaymentStatus returns the cached status for a payment reference.
func (c *RedisCache) PaymentStatus(ctx context.Context, reference string) (model.PaymentStatus, bool) {
	val, err := c.client.Get(ctx, fmt.Sprintf(keyPaymentStatus, reference)).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("payment status cache read failed", slog.String("error", err.Error()))
		}
		return "", false
	}
	return model.PaymentStatus(val), true
}

// SetPaymentStatus stores a payment status with a short TTL.
func (c *RedisCache) SetPaymentStatus(ctx context.Context, reference string, status model.PaymentStatus) {
	key := fmt.Sprintf(keyPaymentStatus, reference)
	if err := c.client.Set(ctx, key, string(status), statusTTL).Err(); err != nil {
		c.logger.Warn("payment status cache write failed", slog.String("error", err.Error()))
	}
}

// Close releases the redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// NopCache satisfies the status cache contract when no redis is configured.
type NopCache struct{}

// PaymentStatus always misses.
func (NopCache) PaymentStatus(context.Context, string) (model.PaymentStatus, bool) { return "", false }

// SetPaymentStatus drops the value.
func (NopCache) SetPaymentStatus(context.Context, string, model.PaymentStatus) {}
