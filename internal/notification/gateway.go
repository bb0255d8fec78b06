package notification

import (
	"context"

	"livrerjardiner-be/internal/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Kind string

const (
	KindOrderConfirmation Kind = "order_confirmation"
	KindOrderStatusChange Kind = "order_status_changed"
)

// LineSummary is the per-line detail included in confirmation mails.
type LineSummary struct {
	SKU       string
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
}

type Message struct {
	Kind        Kind
	Recipient   string
	OrderID     int64
	Status      string
	TotalAmount decimal.Decimal
	Lines       []LineSummary
}

// Gateway delivers order notifications. Callers treat it as fire-and-forget:
// the fulfillment engine logs a Send failure and moves on, it never rolls
// back an order because of one.
type Gateway interface {
	Send(ctx context.Context, msg Message) error
}

// LogGateway only logs the message. Default backend outside production.
type LogGateway struct{}

func NewLogGateway() *LogGateway {
	return &LogGateway{}
}

func (g *LogGateway) Send(ctx context.Context, msg Message) error {
	logger.FromCtx(ctx).Info("notification (log only)",
		zap.String("kind", string(msg.Kind)),
		zap.String("recipient", msg.Recipient),
		zap.Int64("order_id", msg.OrderID),
		zap.String("status", msg.Status),
		zap.String("total_amount", msg.TotalAmount.StringFixed(2)),
		zap.Int("line_count", len(msg.Lines)),
	)
	return nil
}
