package stock

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryLedger is a mutex-guarded in-memory Ledger with the same contract as
// the postgres one. Used by tests and as a seedable local backend.
type MemoryLedger struct {
	mu      sync.Mutex
	entries map[int64]*Entry
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{entries: make(map[int64]*Entry)}
}

// Seed creates or replaces the entry for a variant.
func (l *MemoryLedger) Seed(variantID int64, quantity, alertThreshold int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[variantID] = &Entry{
		VariantID:      variantID,
		Quantity:       quantity,
		AlertThreshold: alertThreshold,
		UpdatedAt:      time.Now(),
	}
}

func (l *MemoryLedger) GetQuantity(ctx context.Context, variantID int64) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[variantID]
	if !ok {
		return 0, ErrStockNotFound
	}
	return e.Quantity, nil
}

func (l *MemoryLedger) AdjustQuantity(ctx context.Context, variantID int64, delta int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[variantID]
	if !ok {
		return 0, ErrStockNotFound
	}

	newQty := e.Quantity + delta
	if newQty < 0 {
		return 0, &InsufficientStockError{
			VariantID: variantID,
			Requested: -delta,
			Available: e.Quantity,
		}
	}

	e.Quantity = newQty
	e.UpdatedAt = time.Now()
	return newQty, nil
}

func (l *MemoryLedger) ListBelowThreshold(ctx context.Context, threshold int, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	var entries []Entry
	for _, e := range l.entries {
		if e.Quantity <= threshold {
			entries = append(entries, *e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Quantity != entries[j].Quantity {
			return entries[i].Quantity < entries[j].Quantity
		}
		return entries[i].VariantID < entries[j].VariantID
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
