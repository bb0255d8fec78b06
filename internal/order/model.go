package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// MaxLinesPerOrder caps the number of lines accepted in one order.
const MaxLinesPerOrder = 50

// validTransitions is the full status state machine. delivered and cancelled
// accept nothing; shipped only moves forward to delivered.
var validTransitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

func ValidStatus(s Status) bool {
	_, ok := validTransitions[s]
	return ok
}

func CanTransition(from, to Status) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Order is the aggregate root. Lines keep request insertion order.
type Order struct {
	ID                int64           `json:"id"`
	ExternalID        uuid.UUID       `json:"external_id"`
	OwnerID           int64           `json:"owner_id"`
	Status            Status          `json:"status"`
	DeliveryAddressID int64           `json:"delivery_address_id"`
	BillingAddressID  int64           `json:"billing_address_id"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	Lines             []Line          `json:"lines"`
}

// Line is owned by exactly one Order. UnitPriceAtOrder is the price snapshot
// taken at creation; later catalog price changes never touch it.
type Line struct {
	ID               int64           `json:"id"`
	OrderID          int64           `json:"order_id"`
	VariantID        int64           `json:"variant_id"`
	SKU              string          `json:"sku"`
	Name             string          `json:"name"`
	Quantity         int             `json:"quantity"`
	UnitPriceAtOrder decimal.Decimal `json:"unit_price_at_order"`
}

// ComputeTotal recomputes the aggregate total from the lines. Every code
// path uses this instead of trusting a caller-supplied amount.
func (o *Order) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range o.Lines {
		total = total.Add(l.UnitPriceAtOrder.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}
