package firestore

import (
	"testing"

	"github.com/stretchr/testify/assert"

	coupondom "simo/internal/domain/coupon"
)

func TestCouponCapacityLeft(t *testing.T) {
	cases := []struct {
		name  string
		used  int
		limit int
		want  error
	}{
		{name: "unlimited", used: 100, limit: 0, want: nil},
		{name: "negative limit treated as unlimited", used: 5, limit: -1, want: nil},
		{name: "below limit", used: 4, limit: 5, want: nil},
		{name: "at limit", used: 5, limit: 5, want: coupondom.ErrExhausted},
		{name: "past limit", used: 6, limit: 5, want: coupondom.ErrExhausted},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := couponCapacityLeft(tc.used, tc.limit)
			if tc.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.want)
			}
		})
	}
}
