package order

import (
	"errors"
	"fmt"

	validatorv10 "github.com/go-playground/validator/v10"
)

// LineRequest is the validated (variant, quantity) pair the engine consumes.
// It is built once at the API boundary and passed in immutably; the engine
// never re-reads caller data after validation.
type LineRequest struct {
	VariantID int64 `json:"variant_id" validate:"required,min=1"`
	Quantity  int   `json:"quantity" validate:"required,min=1"`
}

// CreateOrderInput carries everything CreateOrder needs. OwnerID comes from
// the authenticated caller, never from the payload.
type CreateOrderInput struct {
	OwnerID           int64         `json:"-" validate:"required,min=1"`
	DeliveryAddressID int64         `json:"delivery_address_id" validate:"required,min=1"`
	BillingAddressID  int64         `json:"billing_address_id" validate:"required,min=1"`
	Lines             []LineRequest `json:"lines" validate:"max=50,dive"`
}

var validate = validatorv10.New()

// ValidateInput maps validator failures onto the package's error taxonomy.
func ValidateInput(input CreateOrderInput) error {
	if len(input.Lines) == 0 {
		return ErrEmptyOrder
	}
	if len(input.Lines) > MaxLinesPerOrder {
		return ErrTooManyLines
	}

	if err := validate.Struct(input); err != nil {
		var fieldErrs validatorv10.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			first := fieldErrs[0]
			return fmt.Errorf("%w: %s failed %s", ErrInvalidInput, first.Namespace(), first.Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}
