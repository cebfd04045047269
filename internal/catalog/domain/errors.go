package domain

import "go-shop/pkg/errors"

// Domain-specific errors
var (
	ErrNameRequired  = errors.NewValidation("name is required", nil)
	ErrNegativePrice = errors.NewValidation("price must not be negative", nil)
	ErrNegativeStock = errors.NewValidation("stock must not be negative", nil)
)

// NewProductNotFound creates a not found error with the product ID
func NewProductNotFound(id uint) error {
	return errors.NewNotFound("product", id)
}

// NewInsufficientStock creates a conflict error for a stock decrement that
// would drive the stock below zero.
func NewInsufficientStock(productID uint, requested, available int) error {
	return errors.NewConflict("insufficient stock", map[string]interface{}{
		"product_id": productID,
		"requested":  requested,
		"available":  available,
	})
}
