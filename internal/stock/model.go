package stock

import "time"

// Entry tracks the available quantity for exactly one variant. Rows are
// created when the variant is created (quantity 0) and only ever mutated
// through Ledger.AdjustQuantity.
type Entry struct {
	VariantID      int64     `json:"variant_id"`
	Quantity       int       `json:"quantity"`
	AlertThreshold int       `json:"alert_threshold"`
	UpdatedAt      time.Time `json:"updated_at"`
}
