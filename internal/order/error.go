package order

import (
	"errors"
	"fmt"
)

var (
	// -- Validation & Input --
	ErrEmptyOrder   = errors.New("order has no lines")
	ErrTooManyLines = fmt.Errorf("order exceeds %d lines", MaxLinesPerOrder)
	ErrInvalidInput = errors.New("invalid order input")

	// -- Authorization & Resource State --
	ErrAddressInvalid = errors.New("address not found or not owned by requester")
	ErrOrderNotFound  = errors.New("order not found")
	ErrForbidden      = errors.New("forbidden")

	// -- Status Updates --
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidTransition = errors.New("invalid status transition")

	// -- Persistence --
	// Returned when the order row could not be written after stock was
	// already reserved; always paired with best-effort stock compensation.
	ErrOrderCreationFailed = errors.New("order creation failed")
)

// VariantNotFoundError identifies the offending line when a requested
// variant does not exist in the catalog.
type VariantNotFoundError struct {
	VariantID int64
}

func (e *VariantNotFoundError) Error() string {
	return fmt.Sprintf("variant %d not found", e.VariantID)
}
