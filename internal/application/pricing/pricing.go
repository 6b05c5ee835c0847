// internal/application/pricing/pricing.go

// Package pricing computes checkout amounts: subtotal over cart lines, coupon
// discounts, and the delivery-inclusive total. All functions are pure; amounts
// are float64 MAD rounded to two decimals at the edges.
package pricing

import (
	"math"
	"time"

	"simo/internal/domain/cart"
	"simo/internal/domain/coupon"
)

// Subtotal sums unitPrice x quantity over all lines.
func Subtotal(lines []cart.Line) float64 {
	var s float64
	for _, l := range lines {
		s += l.UnitPrice * float64(l.Quantity)
	}
	return Round2(s)
}

// ApplyCoupon validates the coupon against the subtotal and returns the
// discount. A failed check returns 0 and the specific rejection sentinel
// (coupon.ErrInactive, ErrExpired, ErrExhausted, ErrMinOrderNotMet) — never a
// silent zero discount.
func ApplyCoupon(subtotal float64, c coupon.Coupon, now time.Time) (float64, error) {
	if err := c.CheckEligibility(subtotal, now); err != nil {
		return 0, err
	}
	return Round2(c.DiscountFor(subtotal)), nil
}

// Total is subtotal + deliveryPrice - discount, clamped to >= 0.
func Total(subtotal, deliveryPrice, discount float64) float64 {
	t := subtotal + deliveryPrice - discount
	if t < 0 {
		t = 0
	}
	return Round2(t)
}

// Round2 rounds to the currency's display precision (centimes).
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
