package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simo/internal/domain/cart"
	"simo/internal/domain/coupon"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func TestSubtotal(t *testing.T) {
	assert.Equal(t, 0.0, Subtotal(nil))

	lines := []cart.Line{
		{ProductID: "p1", UnitPrice: 120, Quantity: 2},
		{ProductID: "p2", UnitPrice: 89.9, Quantity: 3},
	}
	assert.Equal(t, 509.7, Subtotal(lines))
}

func TestSubtotalRoundsFloatNoise(t *testing.T) {
	lines := []cart.Line{
		{ProductID: "p1", UnitPrice: 0.1, Quantity: 3},
	}
	assert.Equal(t, 0.3, Subtotal(lines))
}

func TestApplyCoupon(t *testing.T) {
	c := coupon.Coupon{Type: coupon.TypePercentage, Value: 10, IsActive: true}

	d, err := ApplyCoupon(250, c, testNow)
	require.NoError(t, err)
	assert.Equal(t, 25.0, d)

	// rejection surfaces the specific sentinel, never a silent zero
	inactive := coupon.Coupon{Type: coupon.TypeFixed, Value: 10}
	_, err = ApplyCoupon(250, inactive, testNow)
	assert.ErrorIs(t, err, coupon.ErrInactive)

	minOrder := coupon.Coupon{Type: coupon.TypeFixed, Value: 10, IsActive: true, MinOrder: 300}
	_, err = ApplyCoupon(250, minOrder, testNow)
	assert.ErrorIs(t, err, coupon.ErrMinOrderNotMet)
}

func TestTotal(t *testing.T) {
	assert.Equal(t, 275.0, Total(250, 35, 10))
	assert.Equal(t, 0.0, Total(10, 0, 50), "total clamps at zero")
	assert.Equal(t, 285.0, Total(250, 35, 0))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 10.56, Round2(10.556))
	assert.Equal(t, 10.55, Round2(10.554))
	assert.Equal(t, 0.3, Round2(0.30000000000000004))
	assert.Equal(t, -2.5, Round2(-2.499999))
}
