package repository

import (
	"context"

	"github.com/merchsys/storefront/internal/domain/model"
)

// CatalogRepository is the slice of the catalog service the pipeline consumes.
type CatalogRepository interface {
	FindVariant(ctx context.Context, tenantID, productID, variantID int64) (*model.Variant, error)
	// AdjustStock applies a signed delta to a variant's stock and writes
	// the ledger entry in the same transaction. A negative adjustment that
	// would take stock below zero fails with ErrStockConflict.
	AdjustStock(ctx context.Context, tenantID, variantID int64, delta int, actor, note string) (*model.Variant, error)
	// WishlistWatchers lists the email addresses of customers watching a
	// variant for restock.
	WishlistWatchers(ctx context.Context, tenantID, variantID int64) ([]string, error)
}

// DirectoryRepository resolves notification recipients.
type DirectoryRepository interface {
	FindContact(ctx context.Context, tenantID, customerID int64) (*model.Contact, error)
	FindAddress(ctx context.Context, tenantID, customerID, addressID int64) (*model.Address, error)
}
