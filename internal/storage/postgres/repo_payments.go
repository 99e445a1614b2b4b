package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/merchsys/storefront/internal/domain/errors"
	"github.com/merchsys/storefront/internal/domain/model"
)

type paymentRepository struct {
	storage *Storage
}

// errFinalizeRaced signals that the status compare-and-swap matched zero
// rows: another finalize won between the guard read and our transaction.
var errFinalizeRaced = errors.New("payment finalize raced")

const paymentColumns = `id, tenant_id, order_id, provider, reference, status,
       amount, verified_at, metadata, created_at, updated_at`

func scanPayment(row pgx.Row) (*model.Payment, error) {
	var p model.Payment
	var metadata []byte
	err := row.Scan(
		&p.ID, &p.TenantID, &p.OrderID, &p.Provider, &p.Reference, &p.Status,
		&p.Amount, &p.VerifiedAt, &metadata, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &p.Metadata); err != nil {
			return nil, err
		}
	}
	return &p, nil
}

func (s *Storage) getPaymentByReference(ctx context.Context, q queryer, reference string) (*model.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE reference=$1`
	return scanPayment(q.QueryRow(ctx, query, reference))
}

func (r *paymentRepository) GetByReference(ctx context.Context, reference string) (*model.Payment, error) {
	return r.storage.getPaymentByReference(ctx, r.storage.pool, reference)
}

// Finalize converts a confirmed payment into committed order/stock state.
// The whole mutation runs in one transaction; the status compare-and-swap
// closes the race between concurrent finalize calls for the same reference.
func (r *paymentRepository) Finalize(ctx context.Context, reference string, meta model.FinalizeMeta) (*model.FinalizeResult, error) {
	payment, err := r.storage.getPaymentByReference(ctx, r.storage.pool, reference)
	if err != nil {
		return nil, err
	}

	if payment.Status == model.PaymentStatusSuccess {
		return r.idempotentResult(ctx, payment)
	}
	if payment.Status != model.PaymentStatusInitialized {
		return nil, domainErrors.ErrInvalidTransition
	}

	var result *model.FinalizeResult
	err = r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		updated, err := r.confirmPayment(ctx, tx, reference, meta)
		if err != nil {
			return err
		}

		order, cartID, err := r.markOrderPaid(ctx, tx, updated.OrderID)
		if err != nil {
			return err
		}

		if err := r.decrementStock(ctx, tx, order); err != nil {
			return err
		}

		const clearCart = `DELETE FROM cart_items WHERE cart_id=$1`
		if _, err := tx.Exec(ctx, clearCart, cartID); err != nil {
			return err
		}

		result = &model.FinalizeResult{Payment: updated, Order: order}
		return nil
	})
	if err != nil {
		if errors.Is(err, errFinalizeRaced) {
			return r.racedResult(ctx, reference)
		}
		return nil, err
	}
	return result, nil
}

// confirmPayment performs the initialized -> success compare-and-swap and
// merges finalize metadata without discarding prior keys.
func (r *paymentRepository) confirmPayment(ctx context.Context, tx pgx.Tx, reference string, meta model.FinalizeMeta) (*model.Payment, error) {
	verifiedAt := time.Now().UTC()
	if meta.PaidAt != nil {
		verifiedAt = *meta.PaidAt
	}

	merge := map[string]string{"source": string(meta.Source)}
	if meta.GatewayResponse != "" {
		merge["gateway_response"] = meta.GatewayResponse
	}
	if meta.PaidAt != nil {
		merge["paid_at"] = meta.PaidAt.UTC().Format(time.RFC3339)
	}
	mergeJSON, err := json.Marshal(merge)
	if err != nil {
		return nil, err
	}

	const confirm = `UPDATE payments
                     SET status=$2, verified_at=$3, metadata = metadata || $4::jsonb, updated_at=NOW()
                     WHERE reference=$1 AND status=$5`
	tag, err := tx.Exec(ctx, confirm, reference, model.PaymentStatusSuccess, verifiedAt, mergeJSON, model.PaymentStatusInitialized)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, errFinalizeRaced
	}

	return r.storage.getPaymentByReference(ctx, tx, reference)
}

func (r *paymentRepository) markOrderPaid(ctx context.Context, tx pgx.Tx, orderID int64) (*model.Order, int64, error) {
	// Only a pending order may become paid. A late confirmation for an
	// order an admin already moved (cancelled, most importantly) must not
	// overwrite that status; zero rows aborts the whole transaction and
	// rolls the payment compare-and-swap back.
	const markPaid = `UPDATE orders SET status=$2, updated_at=NOW() WHERE id=$1 AND status=$3`
	tag, err := tx.Exec(ctx, markPaid, orderID, model.OrderStatusPaid, model.OrderStatusPending)
	if err != nil {
		return nil, 0, err
	}
	if tag.RowsAffected() == 0 {
		return nil, 0, domainErrors.ErrInvalidTransition
	}

	const insertEvent = `INSERT INTO order_events (order_id, status, note, actor) VALUES ($1,$2,$3,$4)`
	if _, err := tx.Exec(ctx, insertEvent, orderID, model.OrderStatusPaid, "Payment confirmed.", "system"); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	return r.storage.getOrder(ctx, tx, query, orderID)
}

// decrementStock applies the conditional decrement for every order line and
// writes one ledger row per mutation. Zero affected rows on any line aborts
// the whole transaction with ErrStockConflict.
func (r *paymentRepository) decrementStock(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	const decrement = `UPDATE product_variants
                       SET stock = stock - $3
                       WHERE tenant_id=$1 AND id=$2 AND stock >= $3
                       RETURNING stock`
	const insertLedger = `INSERT INTO inventory_ledger
                          (tenant_id, variant_id, operation, delta, previous_stock, next_stock, actor, note)
                          VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`

	for _, line := range order.Lines {
		var next int
		err := tx.QueryRow(ctx, decrement, order.TenantID, line.VariantID, line.Quantity).Scan(&next)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrStockConflict
			}
			return err
		}

		_, err = tx.Exec(ctx, insertLedger,
			order.TenantID, line.VariantID, model.LedgerOpOrderFinalize,
			-line.Quantity, next+line.Quantity, next, "system", "Checkout finalize for "+order.Reference,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *paymentRepository) idempotentResult(ctx context.Context, payment *model.Payment) (*model.FinalizeResult, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	order, _, err := r.storage.getOrder(ctx, r.storage.pool, query, payment.OrderID)
	if err != nil {
		return nil, err
	}
	return &model.FinalizeResult{Payment: payment, Order: order, Idempotent: true}, nil
}

// racedResult re-reads the payment after losing the compare-and-swap. A
// concurrent winner that confirmed the payment makes this call an idempotent
// replay; anything else is a conflicting transition.
func (r *paymentRepository) racedResult(ctx context.Context, reference string) (*model.FinalizeResult, error) {
	payment, err := r.storage.getPaymentByReference(ctx, r.storage.pool, reference)
	if err != nil {
		return nil, err
	}
	if payment.Status != model.PaymentStatusSuccess {
		return nil, domainErrors.ErrInvalidTransition
	}
	return r.idempotentResult(ctx, payment)
}
