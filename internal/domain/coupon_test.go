package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestCoupon_Discount(t *testing.T) {
	t.Parallel()

	subtotal := decimal.RequireFromString("150.00")
	cap := decimal.RequireFromString("10.00")

	cases := []struct {
		name   string
		coupon Coupon
		want   string
	}{
		{
			name:   "percentage",
			coupon: Coupon{Type: DiscountPercentage, Value: decimal.RequireFromString("10")},
			want:   "15",
		},
		{
			name:   "percentage clamped to cap",
			coupon: Coupon{Type: DiscountPercentage, Value: decimal.RequireFromString("10"), MaxDiscount: &cap},
			want:   "10",
		},
		{
			name:   "fixed ignores cap",
			coupon: Coupon{Type: DiscountFixed, Value: decimal.RequireFromString("25.00"), MaxDiscount: &cap},
			want:   "25",
		},
		{
			name:   "unknown type is zero",
			coupon: Coupon{Type: DiscountType("bogus"), Value: decimal.RequireFromString("10")},
			want:   "0",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.coupon.Discount(subtotal)
			if !got.Equal(decimal.RequireFromString(tc.want)) {
				t.Fatalf("expected discount %s, got %s", tc.want, got)
			}
		})
	}
}

func TestCoupon_Redeemable(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		coupon Coupon
		want   bool
	}{
		{"active and unexpired", Coupon{Active: true, EndsAt: now.Add(time.Hour)}, true},
		{"end date equal to now", Coupon{Active: true, EndsAt: now}, true},
		{"expired", Coupon{Active: true, EndsAt: now.Add(-time.Second)}, false},
		{"inactive", Coupon{Active: false, EndsAt: now.Add(time.Hour)}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.coupon.Redeemable(now); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestCartLine_EffectivePrice(t *testing.T) {
	t.Parallel()

	discounted := decimal.RequireFromString("49.99")
	line := CartLine{Price: decimal.RequireFromString("75.00")}
	if !line.EffectivePrice().Equal(decimal.RequireFromString("75.00")) {
		t.Fatalf("expected base price, got %s", line.EffectivePrice())
	}
	line.DiscountPrice = &discounted
	if !line.EffectivePrice().Equal(discounted) {
		t.Fatalf("expected discounted price, got %s", line.EffectivePrice())
	}
}
