package stock

import "context"

// Ledger owns every stock mutation in the system. AdjustQuantity is the
// single choke point enforcing the quantity >= 0 invariant: order creation,
// cancellation restock and admin corrections all go through it, never
// through direct field writes.
type Ledger interface {
	// GetQuantity returns the available quantity for a variant, or
	// ErrStockNotFound if the variant has no stock entry.
	GetQuantity(ctx context.Context, variantID int64) (int, error)

	// AdjustQuantity applies delta (positive or negative) to one variant's
	// quantity and returns the new value. The adjustment is atomic with
	// respect to concurrent callers on the same variant. A delta that would
	// drive the quantity negative fails with *InsufficientStockError and
	// leaves the entry unchanged.
	AdjustQuantity(ctx context.Context, variantID int64, delta int) (int, error)

	// ListBelowThreshold returns entries with quantity <= threshold, lowest
	// first. Read-only, used by restock tooling.
	ListBelowThreshold(ctx context.Context, threshold int, limit int) ([]Entry, error)
}
