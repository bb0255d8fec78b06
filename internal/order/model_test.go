package order

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCanTransition_Table(t *testing.T) {
	all := []Status{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}

	accepted := map[[2]Status]bool{
		{StatusPending, StatusProcessing}:   true,
		{StatusPending, StatusCancelled}:    true,
		{StatusProcessing, StatusShipped}:   true,
		{StatusProcessing, StatusCancelled}: true,
		{StatusShipped, StatusDelivered}:    true,
	}

	for _, from := range all {
		for _, to := range all {
			want := accepted[[2]Status{from, to}]
			assert.Equalf(t, want, CanTransition(from, to),
				"transition %s -> %s", from, to)
		}
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled} {
		assert.True(t, ValidStatus(s))
	}
	assert.False(t, ValidStatus(Status("refunded")))
	assert.False(t, ValidStatus(Status("")))
	assert.False(t, ValidStatus(Status("PENDING")))
}

func TestOrder_ComputeTotal(t *testing.T) {
	o := &Order{
		Lines: []Line{
			{Quantity: 2, UnitPriceAtOrder: decimal.RequireFromString("12.50")},
			{Quantity: 3, UnitPriceAtOrder: decimal.RequireFromString("4.90")},
		},
	}

	assert.True(t, o.ComputeTotal().Equal(decimal.RequireFromString("39.70")))
}

func TestOrder_ComputeTotal_Empty(t *testing.T) {
	o := &Order{}
	assert.True(t, o.ComputeTotal().Equal(decimal.Zero))
}

func TestValidateInput(t *testing.T) {
	valid := CreateOrderInput{
		OwnerID:           1,
		DeliveryAddressID: 10,
		BillingAddressID:  11,
		Lines:             []LineRequest{{VariantID: 1, Quantity: 2}},
	}

	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, ValidateInput(valid))
	})

	t.Run("EmptyLines", func(t *testing.T) {
		input := valid
		input.Lines = nil
		assert.ErrorIs(t, ValidateInput(input), ErrEmptyOrder)
	})

	t.Run("TooManyLines", func(t *testing.T) {
		input := valid
		input.Lines = make([]LineRequest, MaxLinesPerOrder+1)
		for i := range input.Lines {
			input.Lines[i] = LineRequest{VariantID: int64(i + 1), Quantity: 1}
		}
		assert.ErrorIs(t, ValidateInput(input), ErrTooManyLines)
	})

	t.Run("ZeroQuantity", func(t *testing.T) {
		input := valid
		input.Lines = []LineRequest{{VariantID: 1, Quantity: 0}}
		assert.ErrorIs(t, ValidateInput(input), ErrInvalidInput)
	})

	t.Run("NegativeQuantity", func(t *testing.T) {
		input := valid
		input.Lines = []LineRequest{{VariantID: 1, Quantity: -3}}
		assert.ErrorIs(t, ValidateInput(input), ErrInvalidInput)
	})

	t.Run("ZeroVariant", func(t *testing.T) {
		input := valid
		input.Lines = []LineRequest{{VariantID: 0, Quantity: 1}}
		assert.ErrorIs(t, ValidateInput(input), ErrInvalidInput)
	})

	t.Run("MissingOwner", func(t *testing.T) {
		input := valid
		input.OwnerID = 0
		assert.ErrorIs(t, ValidateInput(input), ErrInvalidInput)
	})

	t.Run("MissingAddress", func(t *testing.T) {
		input := valid
		input.BillingAddressID = 0
		assert.ErrorIs(t, ValidateInput(input), ErrInvalidInput)
	})
}
