package model

import "time"

// LedgerOperation classifies a stock mutation.
type LedgerOperation string

const (
	LedgerOpOrderFinalize LedgerOperation = "order_finalize"
	LedgerOpAdminAdjust   LedgerOperation = "admin_adjust"
)

// LedgerEntry is an immutable audit record of one stock mutation, written
// after the mutation succeeds and never re-read to drive decisions.
type LedgerEntry struct {
	ID            int64
	TenantID      int64
	VariantID     int64
	Operation     LedgerOperation
	Delta         int
	PreviousStock int
	NextStock     int
	Actor         string
	Note          string
	CreatedAt     time.Time
}
