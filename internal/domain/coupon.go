package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Coupon is a named discount rule. Codes match case-insensitively.
type Coupon struct {
	ID    string
	Code  string
	Type  DiscountType
	Value decimal.Decimal
	// MaxDiscount caps a percentage discount when set; fixed discounts are
	// never capped.
	MaxDiscount *decimal.Decimal
	Active      bool
	EndsAt      time.Time
	UsageCount  int
}

// Redeemable reports whether the coupon may be applied at the given instant:
// it must be active and its end date must not have passed.
func (c Coupon) Redeemable(now time.Time) bool {
	return c.Active && !c.EndsAt.Before(now)
}

// Discount computes the discount this coupon grants on the given subtotal.
func (c Coupon) Discount(subtotal decimal.Decimal) decimal.Decimal {
	switch c.Type {
	case DiscountPercentage:
		d := subtotal.Mul(c.Value).Div(decimal.NewFromInt(100))
		if c.MaxDiscount != nil && d.GreaterThan(*c.MaxDiscount) {
			return *c.MaxDiscount
		}
		return d
	case DiscountFixed:
		return c.Value
	}
	return decimal.Zero
}
