package coupon

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "SUMMER10", NormalizeCode("  summer10 "))
	assert.Equal(t, "", NormalizeCode("   "))
}

func TestNewNormalizesAndValidates(t *testing.T) {
	c, err := New("c1", " promo5 ", TypePercentage, 5, 0, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, "PROMO5", c.Code)
	assert.True(t, c.IsActive)

	_, err = New("c1", "over", TypePercentage, 150, 0, 0, nil)
	assert.ErrorIs(t, err, ErrInvalidCoupon)

	_, err = New("c1", "bad", Type("bogus"), 5, 0, 0, nil)
	assert.ErrorIs(t, err, ErrInvalidCoupon)

	_, err = New("c1", "", TypeFixed, 5, 0, 0, nil)
	assert.ErrorIs(t, err, ErrInvalidCoupon)
}

func TestCheckEligibility(t *testing.T) {
	expired := testNow.Add(-time.Hour)
	future := testNow.Add(24 * time.Hour)

	tests := []struct {
		name     string
		c        Coupon
		subtotal float64
		wantErr  error
	}{
		{
			name:    "inactive",
			c:       Coupon{Type: TypeFixed, Value: 10},
			wantErr: ErrInactive,
		},
		{
			name:    "expired",
			c:       Coupon{Type: TypeFixed, Value: 10, IsActive: true, Expiry: &expired},
			wantErr: ErrExpired,
		},
		{
			name:    "exhausted",
			c:       Coupon{Type: TypeFixed, Value: 10, IsActive: true, UsageLimit: 3, Used: 3},
			wantErr: ErrExhausted,
		},
		{
			name:     "below minimum order",
			c:        Coupon{Type: TypeFixed, Value: 10, IsActive: true, MinOrder: 200},
			subtotal: 150,
			wantErr:  ErrMinOrderNotMet,
		},
		{
			name:     "eligible",
			c:        Coupon{Type: TypePercentage, Value: 10, IsActive: true, Expiry: &future, UsageLimit: 3, Used: 2, MinOrder: 100},
			subtotal: 150,
		},
		{
			name:     "unlimited usage",
			c:        Coupon{Type: TypeFixed, Value: 10, IsActive: true, Used: 9999},
			subtotal: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.c.CheckEligibility(tt.subtotal, testNow)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDiscountFor(t *testing.T) {
	pct := Coupon{Type: TypePercentage, Value: 10, IsActive: true}
	assert.Equal(t, 25.0, pct.DiscountFor(250))

	fixed := Coupon{Type: TypeFixed, Value: 30, IsActive: true}
	assert.Equal(t, 30.0, fixed.DiscountFor(250))

	// a fixed coupon larger than the subtotal clamps to the subtotal
	big := Coupon{Type: TypeFixed, Value: 500, IsActive: true}
	assert.Equal(t, 250.0, big.DiscountFor(250))

	assert.Equal(t, 0.0, fixed.DiscountFor(0))
}

func TestRemaining(t *testing.T) {
	assert.Equal(t, 2, Coupon{UsageLimit: 5, Used: 3}.Remaining())
	assert.Equal(t, 0, Coupon{UsageLimit: 3, Used: 3}.Remaining())
	// no limit reads as -1 (unlimited)
	assert.Equal(t, -1, Coupon{Used: 10}.Remaining())
}
