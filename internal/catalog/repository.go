package catalog

import (
	"context"
	"database/sql"
	"errors"
)

// Catalog looks up variants by id or SKU. Absence is a normal outcome,
// reported as (nil, nil) rather than an error.
type Catalog interface {
	GetByID(ctx context.Context, variantID int64) (*Variant, error)
	GetBySKU(ctx context.Context, sku string) (*Variant, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Catalog {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, variantID int64) (*Variant, error) {
	query := `
		SELECT id, product_id, sku, name, price
		FROM product_variants
		WHERE id = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, variantID))
}

func (r *repository) GetBySKU(ctx context.Context, sku string) (*Variant, error) {
	query := `
		SELECT id, product_id, sku, name, price
		FROM product_variants
		WHERE sku = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, sku))
}

func (r *repository) scanOne(row *sql.Row) (*Variant, error) {
	var v Variant
	err := row.Scan(&v.ID, &v.ProductID, &v.SKU, &v.Name, &v.Price)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}
