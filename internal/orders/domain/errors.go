package domain

import "go-shop/pkg/errors"

// Domain-specific errors
var (
	ErrEmptyOrder = errors.NewValidation("order must contain at least one line item", nil)
)

// NewInvalidQuantity creates a validation error for a non-positive quantity
func NewInvalidQuantity(productID uint, quantity int) error {
	return errors.NewValidation("quantity must be a positive integer", map[string]interface{}{
		"product_id": productID,
		"quantity":   quantity,
	})
}

// NewOrderNotFound creates a not found error with the order ID
func NewOrderNotFound(id uint) error {
	return errors.NewNotFound("order", id)
}

// NewOrderAborted creates a fatal error for a rollback that could not
// complete. The stores are left inconsistent and need manual reconciliation.
func NewOrderAborted(productID uint, quantity int) error {
	return errors.NewAborted("stock rollback could not complete", map[string]interface{}{
		"product_id": productID,
		"quantity":   quantity,
	})
}

// NewNotOrderOwner creates a forbidden error for an invoice request by a
// caller who does not own the order.
func NewNotOrderOwner(orderID uint) error {
	return errors.NewForbidden("order does not belong to the caller")
}
