package address

import (
	"context"
	"database/sql"

	"livrerjardiner-be/internal/logger"

	"go.uber.org/zap"
)

// Validator confirms that an address belongs to an account. Pure check, no
// mutation; the fulfillment engine calls it before touching any stock.
type Validator interface {
	Validate(ctx context.Context, addressID, ownerID int64) (bool, error)
}

type validator struct {
	db *sql.DB
}

func NewValidator(db *sql.DB) Validator {
	return &validator{db: db}
}

func (v *validator) Validate(ctx context.Context, addressID, ownerID int64) (bool, error) {
	var ok bool
	err := v.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM addresses
			WHERE id = $1 AND user_id = $2 AND is_active
		)
	`, addressID, ownerID).Scan(&ok)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to validate address ownership",
			zap.Int64("address_id", addressID),
			zap.Int64("owner_id", ownerID),
			zap.Error(err),
		)
		return false, err
	}
	return ok, nil
}
