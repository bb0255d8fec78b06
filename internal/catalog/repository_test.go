package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "product_id", "sku", "name", "price"}).
			AddRow(7, 3, "ROSE-RED-1L", "Rosier rouge 1L", "12.50")

		mock.ExpectQuery(`SELECT id, product_id, sku, name, price FROM product_variants WHERE id = \$1`).
			WithArgs(int64(7)).
			WillReturnRows(rows)

		v, err := repo.GetByID(ctx, 7)
		assert.NoError(t, err)
		require.NotNil(t, v)
		assert.Equal(t, "ROSE-RED-1L", v.SKU)
		assert.True(t, v.Price.Equal(decimal.RequireFromString("12.50")))
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, product_id, sku, name, price FROM product_variants WHERE id = \$1`).
			WithArgs(int64(404)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "sku", "name", "price"}))

		v, err := repo.GetByID(ctx, 404)
		assert.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("DBError", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, product_id, sku, name, price FROM product_variants`).
			WillReturnError(errors.New("db error"))

		_, err := repo.GetByID(ctx, 7)
		assert.Error(t, err)
	})
}

func TestRepository_GetBySKU(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	rows := sqlmock.NewRows([]string{"id", "product_id", "sku", "name", "price"}).
		AddRow(9, 3, "POT-TERRA-20", "Pot terre cuite 20cm", "4.90")

	mock.ExpectQuery(`SELECT id, product_id, sku, name, price FROM product_variants WHERE sku = \$1`).
		WithArgs("POT-TERRA-20").
		WillReturnRows(rows)

	v, err := repo.GetBySKU(context.Background(), "POT-TERRA-20")
	assert.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, int64(9), v.ID)
}
