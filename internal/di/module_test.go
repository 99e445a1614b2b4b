package di

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"go.uber.org/fx"

	"github.com/merchsys/storefront/internal/app"
	"github.com/merchsys/storefront/internal/config"
	"github.com/merchsys/storefront/internal/domain/repository"
	"github.com/merchsys/storefront/internal/storage/postgres"
	"github.com/merchsys/storefront/internal/test"
	"github.com/merchsys/storefront/internal/usecase"
)

func TestModuleComposesGraphWithReplacements(t *testing.T) {
	cfg := &config.Config{
		RunAddress:         ":0",
		DatabaseURI:        "postgres://stub",
		PaymentProvider:    "paystack",
		PaystackBaseURL:    "https://api.paystack.co",
		PaystackSecretKey:  "sk_test_stub",
		WebhookSecret:      "whsec",
		GatewayTimeout:     time.Second,
		ShippingFee:        250,
		SuccessRedirectURL: "/payment/success",
		FailureRedirectURL: "/payment/failed",
		SessionSecret:      "secret",
		NotifyPollInterval: time.Millisecond,
		NotifyBatchSize:    1,
		WorkerPoolSize:     1,
		ShutdownTimeout:    time.Millisecond,
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	var facade *app.CheckoutFacade
	fxApp := fx.New(
		fx.NopLogger,
		fx.Supply(context.Background()),
		Module(
			fx.Replace(cfg),
			fx.Replace(logger),
			fx.Replace(&postgres.Storage{}),
			fx.Replace(repository.OrderRepository(test.NewOrderRepositoryStub())),
			fx.Replace(repository.PaymentRepository(test.NewPaymentRepositoryStub())),
			fx.Replace(repository.CartRepository(test.NewCartRepositoryStub())),
			fx.Replace(repository.CatalogRepository(test.NewCatalogRepositoryStub())),
			fx.Replace(repository.DirectoryRepository(test.NewDirectoryRepositoryStub())),
			fx.Replace(repository.JobRepository(test.NewJobRepositoryStub())),
			fx.Replace(usecase.Gateway(&test.GatewayStub{})),
		),
		fx.Populate(&facade),
	)

	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx app returned error: %v", err)
	}
	t.Cleanup(func() { _ = fxApp.Stop(context.Background()) })
	if facade == nil {
		t.Fatal("expected checkout facade instance")
	}
}
