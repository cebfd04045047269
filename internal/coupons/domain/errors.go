package domain

import "go-shop/pkg/errors"

// Domain-specific errors
var (
	ErrCodeRequired    = errors.NewValidation("code is required", nil)
	ErrInvalidDiscount = errors.NewValidation("discount must be between 0 and 100", nil)
)

// NewCouponNotFound creates a not found error with the coupon code
func NewCouponNotFound(code string) error {
	return errors.NewNotFound("coupon", code)
}

// NewCouponExists creates a conflict error for a duplicate code
func NewCouponExists(code string) error {
	return errors.NewConflict("coupon code already exists", map[string]interface{}{
		"code": code,
	})
}
