package stock

import (
	"errors"
	"fmt"
)

var ErrStockNotFound = errors.New("stock entry not found")

// InsufficientStockError reports an adjustment that would have driven a
// quantity below zero. The entry is left unchanged when this is returned.
type InsufficientStockError struct {
	VariantID int64
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for variant %d: requested %d, available %d",
		e.VariantID, e.Requested, e.Available)
}
