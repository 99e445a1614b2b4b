package repository

import (
	"context"

	"github.com/merchsys/storefront/internal/domain/model"
)

// PaymentRepository describes persistence operations with payments.
type PaymentRepository interface {
	GetByReference(ctx context.Context, reference string) (*model.Payment, error)
	// Finalize performs the paid transition as one atomic unit: a
	// compare-and-swap on payment status, order -> paid with a timeline
	// entry, conditional per-line stock decrements with ledger rows, and
	// clearing of the originating cart. A concurrent or repeated delivery
	// of the same confirmation yields Idempotent=true with no mutation.
	// Insufficient stock aborts the whole unit with ErrStockConflict,
	// leaving the payment initialized.
	Finalize(ctx context.Context, reference string, meta model.FinalizeMeta) (*model.FinalizeResult, error)
}
