package domain

import (
	"testing"

	"go-shop/pkg/errors"
)

func TestValidateLineItems(t *testing.T) {
	cases := []struct {
		name    string
		items   []LineItem
		wantErr bool
	}{
		{"valid", []LineItem{{ProductID: 1, Quantity: 2}}, false},
		{"empty", nil, true},
		{"zero quantity", []LineItem{{ProductID: 1, Quantity: 0}}, true},
		{"negative quantity", []LineItem{{ProductID: 1, Quantity: -3}}, true},
		{"one bad among good", []LineItem{{ProductID: 1, Quantity: 2}, {ProductID: 2, Quantity: 0}}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateLineItems(tc.items)
			if tc.wantErr {
				if !errors.Is(err, errors.CodeValidation) {
					t.Errorf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

func TestSubtotal(t *testing.T) {
	item := OrderItem{ProductID: 1, Quantity: 3, UnitPrice: 99.5}
	if got := item.Subtotal(); got != 298.5 {
		t.Errorf("expected subtotal 298.5, got %f", got)
	}
}

func TestApplyDiscount(t *testing.T) {
	cases := []struct {
		total    float64
		discount float64
		want     float64
	}{
		{300, 10, 270},
		{100, 0, 100},
		{100, 100, 0},
		{250, 20, 200},
	}

	for _, tc := range cases {
		if got := ApplyDiscount(tc.total, tc.discount); got != tc.want {
			t.Errorf("ApplyDiscount(%f, %f) = %f, want %f", tc.total, tc.discount, got, tc.want)
		}
	}
}
