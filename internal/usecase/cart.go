package usecase

import (
	"context"
	"errors"

	domainErrors "github.com/merchsys/storefront/internal/domain/errors"
	"github.com/merchsys/storefront/internal/domain/model"
	"github.com/merchsys/storefront/internal/domain/repository"
)

// CartUseCase manages the mutable cart feeding the checkout pipeline.
type CartUseCase struct {
	carts   repository.CartRepository
	catalog repository.CatalogRepository
}

// NewCartUseCase constructs CartUseCase.
func NewCartUseCase(carts repository.CartRepository, catalog repository.CatalogRepository) *CartUseCase {
	return &CartUseCase{carts: carts, catalog: catalog}
}

// Cart returns the caller's cart, creating an empty one on first access.
func (u *CartUseCase) Cart(ctx context.Context, tenantID int64, identity model.CartIdentity) (*model.Cart, error) {
	if identity.CustomerID == 0 && identity.SessionID == "" {
		return nil, domainErrors.ErrValidation
	}
	return u.carts.Get(ctx, tenantID, identity)
}

// PutLine upserts a cart line, snapshotting the variant's name and current
// price. Quantity 0 removes the line; negative quantities are rejected.
func (u *CartUseCase) PutLine(ctx context.Context, tenantID int64, identity model.CartIdentity, productID, variantID int64, quantity int) (*model.Cart, error) {
	if identity.CustomerID == 0 && identity.SessionID == "" {
		return nil, domainErrors.ErrValidation
	}
	if quantity < 0 {
		return nil, domainErrors.ErrValidation
	}

	variant, err := u.catalog.FindVariant(ctx, tenantID, productID, variantID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.ErrValidation
		}
		return nil, err
	}

	return u.carts.PutLine(ctx, tenantID, identity, model.CartLine{
		ProductID:   productID,
		VariantID:   variantID,
		ProductName: variant.Name,
		Quantity:    quantity,
		UnitPrice:   variant.Price,
	})
}
