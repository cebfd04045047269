package domain

import (
	"strings"
	"time"
)

// Coupon represents a percentage discount keyed by a unique code. Orders
// record the code string only, so editing or deleting a coupon never changes
// an already placed order.
type Coupon struct {
	ID        uint
	Code      string
	Discount  float64
	CreatedAt time.Time
}

// Validate validates the coupon entity
func (c *Coupon) Validate() error {
	if c.Code == "" {
		return ErrCodeRequired
	}
	if c.Discount < 0 || c.Discount > 100 {
		return ErrInvalidDiscount
	}
	return nil
}

// NewCoupon creates a new coupon with validation
func NewCoupon(code string, discount float64) (*Coupon, error) {
	coupon := &Coupon{
		Code:      strings.ToUpper(strings.TrimSpace(code)),
		Discount:  discount,
		CreatedAt: time.Now(),
	}

	if err := coupon.Validate(); err != nil {
		return nil, err
	}

	return coupon, nil
}
