// internal/domain/coupon/entity.go
package coupon

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidCoupon  = errors.New("coupon: invalid")
	ErrNotFound       = errors.New("coupon: not found")
	ErrInactive       = errors.New("coupon: inactive")
	ErrExpired        = errors.New("coupon: expired")
	ErrExhausted      = errors.New("coupon: usage limit reached")
	ErrMinOrderNotMet = errors.New("coupon: minimum order not met")
)

type Type string

const (
	TypePercentage Type = "percentage"
	TypeFixed      Type = "fixed"
)

// Coupon is a discount code with eligibility rules.
// Codes are case-insensitive and stored uppercase.
type Coupon struct {
	ID    string  `json:"id"`
	Code  string  `json:"code"`
	Type  Type    `json:"type"`
	Value float64 `json:"value"`

	// MinOrder is the floor subtotal; 0 means no floor.
	MinOrder float64 `json:"minOrder"`

	// UsageLimit caps redemptions; 0 means unlimited.
	UsageLimit int `json:"usageLimit"`
	Used       int `json:"used"`

	// Expiry is optional; nil means no expiry.
	Expiry *time.Time `json:"expiry,omitempty"`

	IsActive bool `json:"isActive"`
}

// NormalizeCode uppercases and trims a user-supplied coupon code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func New(id, code string, typ Type, value, minOrder float64, usageLimit int, expiry *time.Time) (Coupon, error) {
	c := Coupon{
		ID:         strings.TrimSpace(id),
		Code:       NormalizeCode(code),
		Type:       typ,
		Value:      value,
		MinOrder:   minOrder,
		UsageLimit: usageLimit,
		IsActive:   true,
	}
	if expiry != nil {
		e := expiry.UTC()
		c.Expiry = &e
	}
	if err := c.validate(); err != nil {
		return Coupon{}, err
	}
	return c, nil
}

// CheckEligibility reports why the coupon cannot be applied to the given
// subtotal, or nil when it can. Each rejection has its own sentinel so the
// caller can surface the specific reason.
func (c Coupon) CheckEligibility(subtotal float64, now time.Time) error {
	if !c.IsActive {
		return ErrInactive
	}
	if c.Expiry != nil && c.Expiry.Before(now) {
		return ErrExpired
	}
	if c.UsageLimit > 0 && c.Used >= c.UsageLimit {
		return ErrExhausted
	}
	if c.MinOrder > 0 && subtotal < c.MinOrder {
		return ErrMinOrderNotMet
	}
	return nil
}

// DiscountFor computes the discount against a subtotal, clamped to
// [0, subtotal] so an oversized fixed coupon can never drive a total negative.
func (c Coupon) DiscountFor(subtotal float64) float64 {
	if subtotal <= 0 {
		return 0
	}
	var d float64
	switch c.Type {
	case TypePercentage:
		d = subtotal * (c.Value / 100)
	case TypeFixed:
		d = c.Value
	}
	if d < 0 {
		return 0
	}
	if d > subtotal {
		return subtotal
	}
	return d
}

// Remaining returns how many redemptions are left (-1 for unlimited).
func (c Coupon) Remaining() int {
	if c.UsageLimit <= 0 {
		return -1
	}
	left := c.UsageLimit - c.Used
	if left < 0 {
		return 0
	}
	return left
}

func (c Coupon) validate() error {
	if c.ID == "" || c.Code == "" {
		return ErrInvalidCoupon
	}
	if c.Type != TypePercentage && c.Type != TypeFixed {
		return ErrInvalidCoupon
	}
	if c.Value < 0 || c.MinOrder < 0 || c.UsageLimit < 0 || c.Used < 0 {
		return ErrInvalidCoupon
	}
	if c.Type == TypePercentage && c.Value > 100 {
		return ErrInvalidCoupon
	}
	return nil
}
