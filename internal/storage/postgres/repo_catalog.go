package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/merchsys/storefront/internal/domain/errors"
	"github.com/merchsys/storefront/internal/domain/model"
)

type catalogRepository struct {
	storage *Storage
}

func (r *catalogRepository) FindVariant(ctx context.Context, tenantID, productID, variantID int64) (*model.Variant, error) {
	const query = `SELECT id, tenant_id, product_id, name, price, stock
                   FROM product_variants WHERE tenant_id=$1 AND product_id=$2 AND id=$3`
	var v model.Variant
	err := r.storage.pool.QueryRow(ctx, query, tenantID, productID, variantID).
		Scan(&v.ID, &v.TenantID, &v.ProductID, &v.Name, &v.Price, &v.Stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *catalogRepository) AdjustStock(ctx context.Context, tenantID, variantID int64, delta int, actor, note string) (*model.Variant, error) {
	var variant *model.Variant
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const adjust = `UPDATE product_variants
                        SET stock = stock + $3
                        WHERE tenant_id=$1 AND id=$2 AND stock + $3 >= 0
                        RETURNING id, tenant_id, product_id, name, price, stock`
		var v model.Variant
		err := tx.QueryRow(ctx, adjust, tenantID, variantID, delta).
			Scan(&v.ID, &v.TenantID, &v.ProductID, &v.Name, &v.Price, &v.Stock)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return r.classifyAdjustMiss(ctx, tx, tenantID, variantID)
			}
			return err
		}

		const insertLedger = `INSERT INTO inventory_ledger
                              (tenant_id, variant_id, operation, delta, previous_stock, next_stock, actor, note)
                              VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
		_, err = tx.Exec(ctx, insertLedger,
			tenantID, variantID, model.LedgerOpAdminAdjust,
			delta, v.Stock-delta, v.Stock, actor, note,
		)
		if err != nil {
			return err
		}

		variant = &v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return variant, nil
}

func (r *catalogRepository) WishlistWatchers(ctx context.Context, tenantID, variantID int64) ([]string, error) {
	const query = `SELECT c.email FROM wishlists w
                   JOIN customers c ON c.id = w.customer_id AND c.tenant_id = w.tenant_id
                   WHERE w.tenant_id=$1 AND w.variant_id=$2`
	rows, err := r.storage.pool.Query(ctx, query, tenantID, variantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}

// classifyAdjustMiss tells a missing variant apart from an adjustment that
// would take stock negative.
func (r *catalogRepository) classifyAdjustMiss(ctx context.Context, tx pgx.Tx, tenantID, variantID int64) error {
	const exists = `SELECT 1 FROM product_variants WHERE tenant_id=$1 AND id=$2`
	var one int
	err := tx.QueryRow(ctx, exists, tenantID, variantID).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainErrors.ErrNotFound
		}
		return err
	}
	return domainErrors.ErrStockConflict
}

type directoryRepository struct {
	storage *Storage
}

func (r *directoryRepository) FindContact(ctx context.Context, tenantID, customerID int64) (*model.Contact, error) {
	const query = `SELECT email, first_name, last_name FROM customers WHERE tenant_id=$1 AND id=$2`
	var c model.Contact
	err := r.storage.pool.QueryRow(ctx, query, tenantID, customerID).Scan(&c.Email, &c.FirstName, &c.LastName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *directoryRepository) FindAddress(ctx context.Context, tenantID, customerID, addressID int64) (*model.Address, error) {
	const query = `SELECT id, tenant_id, customer_id, full_name, line1, line2, city, country, phone
                   FROM addresses WHERE tenant_id=$1 AND customer_id=$2 AND id=$3`
	var a model.Address
	err := r.storage.pool.QueryRow(ctx, query, tenantID, customerID, addressID).
		Scan(&a.ID, &a.TenantID, &a.CustomerID, &a.FullName, &a.Line1, &a.Line2, &a.City, &a.Country, &a.Phone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}
