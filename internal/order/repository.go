package order

import (
	"context"
	"database/sql"
	"errors"

	"livrerjardiner-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repository interface {
	// Add persists the order header and all lines in one transaction. It
	// fills in ID, ExternalID, line IDs and timestamps; the order comes back
	// fully materialized, no reload needed.
	Add(ctx context.Context, o *Order) error

	// GetByID loads an order with its lines, (nil, nil) when absent.
	GetByID(ctx context.Context, orderID int64) (*Order, error)

	// ListForOwner returns order headers (no lines) plus the total count.
	ListForOwner(ctx context.Context, ownerID int64, limit, offset int32) ([]*Order, int64, error)

	// UpdateStatus persists a new status and returns the updated order with
	// lines, (nil, nil) when absent.
	UpdateStatus(ctx context.Context, orderID int64, status Status) (*Order, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Add(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Add"),
		zap.Int64("owner_id", o.OwnerID),
		zap.Int("line_count", len(o.Lines)),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	if o.ExternalID == uuid.Nil {
		o.ExternalID = uuid.New()
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (
			external_id, user_id, status,
			delivery_address_id, billing_address_id, total_amount
		) VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, created_at, updated_at
	`,
		o.ExternalID,
		o.OwnerID,
		o.Status,
		o.DeliveryAddressID,
		o.BillingAddressID,
		o.TotalAmount,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return err
	}

	for i := range o.Lines {
		line := &o.Lines[i]
		err = tx.QueryRowContext(ctx, `
			INSERT INTO order_lines (
				order_id, variant_id, sku, name, quantity, unit_price_at_order
			) VALUES ($1,$2,$3,$4,$5,$6)
			RETURNING id
		`,
			o.ID,
			line.VariantID,
			line.SKU,
			line.Name,
			line.Quantity,
			line.UnitPriceAtOrder,
		).Scan(&line.ID)
		if err != nil {
			log.Error("failed to insert order line",
				zap.Int("line_index", i),
				zap.Int64("variant_id", line.VariantID),
				zap.Error(err),
			)
			return err
		}
		line.OrderID = o.ID
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit order transaction", zap.Error(err))
		return err
	}

	committed = true
	log.Info("order persisted", zap.Int64("order_id", o.ID))
	return nil
}

func (r *repository) GetByID(ctx context.Context, orderID int64) (*Order, error) {
	var o Order
	err := r.db.QueryRowContext(ctx, `
		SELECT id, external_id, user_id, status,
		       delivery_address_id, billing_address_id,
		       total_amount, created_at, updated_at
		FROM orders
		WHERE id = $1
	`, orderID).Scan(
		&o.ID,
		&o.ExternalID,
		&o.OwnerID,
		&o.Status,
		&o.DeliveryAddressID,
		&o.BillingAddressID,
		&o.TotalAmount,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, variant_id, sku, name, quantity, unit_price_at_order
		FROM order_lines
		WHERE order_id = $1
		ORDER BY id
	`, o.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ID, &l.OrderID, &l.VariantID, &l.SKU, &l.Name, &l.Quantity, &l.UnitPriceAtOrder); err != nil {
			return nil, err
		}
		o.Lines = append(o.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &o, nil
}

func (r *repository) ListForOwner(ctx context.Context, ownerID int64, limit, offset int32) ([]*Order, int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM orders WHERE user_id = $1
	`, ownerID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, external_id, user_id, status,
		       delivery_address_id, billing_address_id,
		       total_amount, created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, ownerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(
			&o.ID,
			&o.ExternalID,
			&o.OwnerID,
			&o.Status,
			&o.DeliveryAddressID,
			&o.BillingAddressID,
			&o.TotalAmount,
			&o.CreatedAt,
			&o.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		orders = append(orders, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *repository) UpdateStatus(ctx context.Context, orderID int64, status Status) (*Order, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`, status, orderID)
	if err != nil {
		return nil, err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return nil, nil
	}

	return r.GetByID(ctx, orderID)
}
