package stock

import (
	"context"
	"database/sql"
	"errors"

	"livrerjardiner-be/internal/logger"

	"go.uber.org/zap"
)

type postgresLedger struct {
	db *sql.DB
}

func NewPostgresLedger(db *sql.DB) Ledger {
	return &postgresLedger{db: db}
}

func (l *postgresLedger) GetQuantity(ctx context.Context, variantID int64) (int, error) {
	var qty int
	err := l.db.QueryRowContext(ctx, `
		SELECT quantity
		FROM stock_entries
		WHERE variant_id = $1
	`, variantID).Scan(&qty)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrStockNotFound
	}
	if err != nil {
		return 0, err
	}
	return qty, nil
}

// AdjustQuantity relies on a single conditional UPDATE so the floor check and
// the write happen under the same row lock; two concurrent decrements can
// never both pass the check against a stale read.
func (l *postgresLedger) AdjustQuantity(ctx context.Context, variantID int64, delta int) (int, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "stock"),
		zap.Int64("variant_id", variantID),
		zap.Int("delta", delta),
	)

	var newQty int
	err := l.db.QueryRowContext(ctx, `
		UPDATE stock_entries
		SET quantity = quantity + $2, updated_at = NOW()
		WHERE variant_id = $1 AND quantity + $2 >= 0
		RETURNING quantity
	`, variantID, delta).Scan(&newQty)

	if errors.Is(err, sql.ErrNoRows) {
		// No row matched: either the entry does not exist or the delta
		// would go negative. Re-read to tell the two apart.
		available, getErr := l.GetQuantity(ctx, variantID)
		if getErr != nil {
			if errors.Is(getErr, ErrStockNotFound) {
				log.Warn("stock adjustment on missing entry")
				return 0, ErrStockNotFound
			}
			return 0, getErr
		}
		log.Warn("insufficient stock", zap.Int("available", available))
		return 0, &InsufficientStockError{
			VariantID: variantID,
			Requested: -delta,
			Available: available,
		}
	}
	if err != nil {
		log.Error("failed to adjust stock", zap.Error(err))
		return 0, err
	}

	log.Debug("stock adjusted", zap.Int("new_quantity", newQty))
	return newQty, nil
}

func (l *postgresLedger) ListBelowThreshold(ctx context.Context, threshold int, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := l.db.QueryContext(ctx, `
		SELECT variant_id, quantity, alert_threshold, updated_at
		FROM stock_entries
		WHERE quantity <= $1
		ORDER BY quantity ASC, variant_id ASC
		LIMIT $2
	`, threshold, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.VariantID, &e.Quantity, &e.AlertThreshold, &e.UpdatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
