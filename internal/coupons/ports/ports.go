package ports

import (
	"context"

	"go-shop/internal/coupons/domain"
)

// CouponRepository defines the interface for coupon persistence
type CouponRepository interface {
	// Create creates a new coupon
	Create(ctx context.Context, coupon *domain.Coupon) error

	// GetByCode retrieves a coupon by its code
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)

	// List retrieves all coupons
	List(ctx context.Context) ([]*domain.Coupon, error)

	// DeleteByCode deletes a coupon by its code
	DeleteByCode(ctx context.Context, code string) error
}
