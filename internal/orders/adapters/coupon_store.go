package adapters

import (
	"context"
	"strings"

	couponports "go-shop/internal/coupons/ports"
)

// CouponStoreAdapter implements the order processor's CouponStore against
// the in-process coupon repository.
type CouponStoreAdapter struct {
	coupons couponports.CouponRepository
}

// NewCouponStoreAdapter creates a new coupon store adapter
func NewCouponStoreAdapter(coupons couponports.CouponRepository) *CouponStoreAdapter {
	return &CouponStoreAdapter{coupons: coupons}
}

// FindByCode returns the discount percentage for a code
func (a *CouponStoreAdapter) FindByCode(ctx context.Context, code string) (float64, error) {
	coupon, err := a.coupons.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return 0, err
	}
	return coupon.Discount, nil
}
