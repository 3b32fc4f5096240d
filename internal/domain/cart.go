package domain

import "github.com/shopspring/decimal"

// CartLine is one course awaiting purchase for a user, joined to the
// course's current pricing.
type CartLine struct {
	CourseID      string
	Price         decimal.Decimal
	DiscountPrice *decimal.Decimal
}

// EffectivePrice returns the discounted price when one is set, else the
// base price.
func (l CartLine) EffectivePrice() decimal.Decimal {
	if l.DiscountPrice != nil {
		return *l.DiscountPrice
	}
	return l.Price
}
