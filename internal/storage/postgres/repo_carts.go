package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/merchsys/storefront/internal/domain/model"
)

type cartRepository struct {
	storage *Storage
}

// ensureCart get-or-creates the cart row for the identity. The unique
// constraint on (tenant_id, customer_id, session_id) makes concurrent first
// access safe.
func (s *Storage) ensureCart(ctx context.Context, q queryer, tenantID int64, identity model.CartIdentity) (*model.Cart, error) {
	const upsert = `INSERT INTO carts (tenant_id, customer_id, session_id)
                    VALUES ($1, $2, $3)
                    ON CONFLICT (tenant_id, customer_id, session_id)
                    DO UPDATE SET updated_at=NOW()
                    RETURNING id, updated_at`
	cart := &model.Cart{TenantID: tenantID, CustomerID: identity.CustomerID, SessionID: identity.SessionID}
	if err := q.QueryRow(ctx, upsert, tenantID, identity.CustomerID, identity.SessionID).Scan(&cart.ID, &cart.UpdatedAt); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *Storage) loadCartLines(ctx context.Context, q queryer, cartID int64) ([]model.CartLine, error) {
	const query = `SELECT id, product_id, variant_id, product_name, quantity, unit_price
                   FROM cart_items WHERE cart_id=$1 ORDER BY id`
	rows, err := q.Query(ctx, query, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []model.CartLine
	for rows.Next() {
		var l model.CartLine
		if err := rows.Scan(&l.ID, &l.ProductID, &l.VariantID, &l.ProductName, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *cartRepository) Get(ctx context.Context, tenantID int64, identity model.CartIdentity) (*model.Cart, error) {
	cart, err := r.storage.ensureCart(ctx, r.storage.pool, tenantID, identity)
	if err != nil {
		return nil, err
	}
	if cart.Lines, err = r.storage.loadCartLines(ctx, r.storage.pool, cart.ID); err != nil {
		return nil, err
	}
	return cart, nil
}

func (r *cartRepository) PutLine(ctx context.Context, tenantID int64, identity model.CartIdentity, line model.CartLine) (*model.Cart, error) {
	var cart *model.Cart
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		c, err := r.storage.ensureCart(ctx, tx, tenantID, identity)
		if err != nil {
			return err
		}

		if line.Quantity == 0 {
			const remove = `DELETE FROM cart_items WHERE cart_id=$1 AND variant_id=$2`
			if _, err := tx.Exec(ctx, remove, c.ID, line.VariantID); err != nil {
				return err
			}
		} else {
			const upsert = `INSERT INTO cart_items (cart_id, product_id, variant_id, product_name, quantity, unit_price)
                            VALUES ($1,$2,$3,$4,$5,$6)
                            ON CONFLICT (cart_id, variant_id)
                            DO UPDATE SET quantity=EXCLUDED.quantity,
                                          product_name=EXCLUDED.product_name,
                                          unit_price=EXCLUDED.unit_price`
			if _, err := tx.Exec(ctx, upsert, c.ID, line.ProductID, line.VariantID, line.ProductName, line.Quantity, line.UnitPrice); err != nil {
				return err
			}
		}

		if c.Lines, err = r.storage.loadCartLines(ctx, tx, c.ID); err != nil {
			return err
		}
		cart = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}
