package catalog

import (
	"github.com/shopspring/decimal"
)

// Variant is a purchasable SKU-level product configuration. The catalog is a
// read model: prices seen here are "current committed" and get snapshotted
// onto order lines at creation time.
type Variant struct {
	ID        int64
	ProductID int64
	SKU       string
	Name      string
	Price     decimal.Decimal
}
