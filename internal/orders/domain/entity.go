package domain

import (
	"time"
)

// OrderItem is one line of an order. UnitPrice is the price captured at
// decrement time; later catalog edits never change the recorded value.
type OrderItem struct {
	ProductID uint
	Quantity  int
	UnitPrice float64
}

// Subtotal returns quantity times the captured unit price
func (i OrderItem) Subtotal() float64 {
	return float64(i.Quantity) * i.UnitPrice
}

// Order represents a placed order. Orders are append-only: created exactly
// once by the order processor, never mutated or deleted.
type Order struct {
	ID         uint
	UserID     uint
	Items      []OrderItem
	Total      float64
	CouponCode string
	CreatedAt  time.Time
}

// LineItem is a (productID, quantity) pair in a placement request
type LineItem struct {
	ProductID uint
	Quantity  int
}

// ValidateLineItems checks a placement request's line items
func ValidateLineItems(items []LineItem) error {
	if len(items) == 0 {
		return ErrEmptyOrder
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return NewInvalidQuantity(item.ProductID, item.Quantity)
		}
	}
	return nil
}

// ApplyDiscount returns the total after a percentage discount
func ApplyDiscount(total, discount float64) float64 {
	return total - total*discount/100
}
