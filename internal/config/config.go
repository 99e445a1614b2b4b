package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress  string
	DatabaseURI string
	RedisAddr   string

	KafkaBrokers []string
	KafkaTopic   string

	PaymentProvider   string
	PaystackBaseURL   string
	PaystackSecretKey string
	WebhookSecret     string
	GatewayTimeout    time.Duration

	ShippingFee        int64
	SuccessRedirectURL string
	FailureRedirectURL string

	SessionSecret     string
	AdminPasswordHash string

	SMTPAddr string
	SMTPFrom string

	NotifyPollInterval time.Duration
	NotifyBatchSize    int
	WorkerPoolSize     int
	ShutdownTimeout    time.Duration
}

const (
	defaultRunAddress         = ":8080"
	defaultKafkaTopic         = "storefront.order-events"
	defaultPaymentProvider    = "paystack"
	defaultPaystackBaseURL    = "https://api.paystack.co"
	defaultGatewayTimeout     = 10 * time.Second
	defaultShippingFee        = int64(2500)
	defaultSuccessRedirect    = "/payment/success"
	defaultFailureRedirect    = "/payment/failed"
	defaultSessionSecret      = "change-me-in-production"
	defaultNotifyPollInterval = 2 * time.Second
	defaultNotifyBatchSize    = 16
	defaultWorkerPoolSize     = 4
	defaultShutdownTimeout    = 10 * time.Second
)

// Load parses configuration from .env, environment variables and flags.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:         getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:        getString(lookup, "DATABASE_URI", ""),
		RedisAddr:          getString(lookup, "REDIS_ADDR", ""),
		KafkaBrokers:       splitCSV(getString(lookup, "KAFKA_BROKERS", "")),
		KafkaTopic:         getString(lookup, "KAFKA_TOPIC", defaultKafkaTopic),
		PaymentProvider:    getString(lookup, "PAYMENT_PROVIDER", defaultPaymentProvider),
		PaystackBaseURL:    getString(lookup, "PAYSTACK_BASE_URL", defaultPaystackBaseURL),
		PaystackSecretKey:  getString(lookup, "PAYSTACK_SECRET_KEY", ""),
		WebhookSecret:      getString(lookup, "PAYSTACK_WEBHOOK_SECRET", ""),
		GatewayTimeout:     getDuration(lookup, "GATEWAY_TIMEOUT", defaultGatewayTimeout),
		ShippingFee:        getInt64(lookup, "SHIPPING_FEE", defaultShippingFee),
		SuccessRedirectURL: getString(lookup, "PAYMENT_SUCCESS_URL", defaultSuccessRedirect),
		FailureRedirectURL: getString(lookup, "PAYMENT_FAILURE_URL", defaultFailureRedirect),
		SessionSecret:      getString(lookup, "SESSION_SECRET", defaultSessionSecret),
		AdminPasswordHash:  getString(lookup, "ADMIN_PASSWORD_HASH", ""),
		SMTPAddr:           getString(lookup, "SMTP_ADDR", ""),
		SMTPFrom:           getString(lookup, "SMTP_FROM", ""),
		NotifyPollInterval: getDuration(lookup, "NOTIFY_POLL_INTERVAL", defaultNotifyPollInterval),
		NotifyBatchSize:    getInt(lookup, "NOTIFY_BATCH_SIZE", defaultNotifyBatchSize),
		WorkerPoolSize:     getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		ShutdownTimeout:    getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("storefront", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		pollIntervalStr    = cfg.NotifyPollInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		brokersStr         = strings.Join(cfg.KafkaBrokers, ",")
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "Redis address for status cache")
	fs.StringVar(&brokersStr, "kafka-brokers", brokersStr, "Comma separated Kafka brokers for order events")
	fs.StringVar(&cfg.PaystackBaseURL, "gateway-url", cfg.PaystackBaseURL, "Payment gateway base URL")
	fs.Int64Var(&cfg.ShippingFee, "shipping-fee", cfg.ShippingFee, "Flat shipping fee in minor currency units")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent notification workers")
	fs.IntVar(&cfg.NotifyBatchSize, "notify-batch", cfg.NotifyBatchSize, "Maximum notification jobs per polling batch")
	fs.StringVar(&pollIntervalStr, "notify-interval", pollIntervalStr, "Interval between notification queue polls")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.NotifyPollInterval, err = time.ParseDuration(pollIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid notify interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	cfg.KafkaBrokers = splitCSV(brokersStr)

	if secretFile, ok := lookup("PAYSTACK_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read gateway secret file: %w", err)
		}
		cfg.PaystackSecretKey = strings.TrimSpace(string(content))
	}

	// Paystack signs webhooks with the account secret key unless a
	// dedicated webhook secret is configured.
	if cfg.WebhookSecret == "" {
		cfg.WebhookSecret = cfg.PaystackSecretKey
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.NotifyBatchSize <= 0 {
		cfg.NotifyBatchSize = defaultNotifyBatchSize
	}

	if cfg.NotifyPollInterval <= 0 {
		cfg.NotifyPollInterval = defaultNotifyPollInterval
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.ShippingFee < 0 {
		return nil, fmt.Errorf("shipping fee must not be negative")
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getInt64(lookup envLookup, key string, def int64) int64 {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
