package usecase

import (
	"context"
	"log/slog"

	domainErrors "github.com/merchsys/storefront/internal/domain/errors"
	"github.com/merchsys/storefront/internal/domain/model"
	"github.com/merchsys/storefront/internal/domain/repository"
)

// InventoryUseCase applies explicit admin stock adjustments. These are not
// guarded by the checkout idempotency mechanism; a race against a concurrent
// finalize resolves last-write-wins at the database level.
type InventoryUseCase struct {
	catalog  repository.CatalogRepository
	notifier Dispatcher
	logger   *slog.Logger
}

// NewInventoryUseCase constructs InventoryUseCase.
func NewInventoryUseCase(catalog repository.CatalogRepository, notifier Dispatcher, logger *slog.Logger) *InventoryUseCase {
	return &InventoryUseCase{catalog: catalog, notifier: notifier, logger: logger}
}

// Adjust applies a signed stock delta with its ledger entry. A restock from
// zero enqueues a wishlist stock alert as a best-effort side channel.
func (u *InventoryUseCase) Adjust(ctx context.Context, tenantID, variantID int64, delta int, actor, note string) (*model.Variant, error) {
	if delta == 0 {
		return nil, domainErrors.ErrValidation
	}

	variant, err := u.catalog.AdjustStock(ctx, tenantID, variantID, delta, actor, note)
	if err != nil {
		return nil, err
	}

	if delta > 0 && variant.Stock == delta {
		u.alertWatchers(ctx, tenantID, variant)
	}

	return variant, nil
}

// alertWatchers fans the restock out to everyone wishlisting the variant,
// one job per resolved recipient. No watchers, no jobs.
func (u *InventoryUseCase) alertWatchers(ctx context.Context, tenantID int64, variant *model.Variant) {
	watchers, err := u.catalog.WishlistWatchers(ctx, tenantID, variant.ID)
	if err != nil {
		u.logger.Warn("wishlist watcher lookup failed",
			slog.Int64("variant", variant.ID),
			slog.String("error", err.Error()),
		)
		return
	}

	for _, email := range watchers {
		enqueued := u.notifier.Enqueue(ctx, tenantID, model.JobKindWishlistStock, model.WishlistStockPayload{
			Email:       email,
			ProductName: variant.Name,
			VariantID:   variant.ID,
			Stock:       variant.Stock,
		})
		if !enqueued {
			u.logger.Warn("restock alert not enqueued", slog.Int64("variant", variant.ID))
		}
	}
}
