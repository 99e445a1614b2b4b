package repository

import (
	"context"

	"github.com/merchsys/storefront/internal/domain/model"
)

// CartRepository describes persistence operations with carts.
type CartRepository interface {
	// Get returns the cart for the identity, creating an empty one when
	// none exists yet.
	Get(ctx context.Context, tenantID int64, identity model.CartIdentity) (*model.Cart, error)
	// PutLine upserts one line; quantity 0 removes the line.
	PutLine(ctx context.Context, tenantID int64, identity model.CartIdentity, line model.CartLine) (*model.Cart, error)
}
