package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusCompleted OrderStatus = "completed"
)

// Order is the durable record of a completed purchase. PaymentIntentID is
// unique: at most one order ever exists per payment intent.
type Order struct {
	ID              string
	OrderNumber     string
	UserID          string
	Status          OrderStatus
	Total           decimal.Decimal
	Discount        decimal.Decimal
	Tax             decimal.Decimal
	Currency        string
	PaymentMethod   string
	PaymentIntentID string
	CouponID        *string
	BillingAddress  BillingAddress
	Items           []OrderItem
	CreatedAt       time.Time
}

// OrderItem is one purchased course, priced at the cart line's
// discounted-or-base price at purchase time.
type OrderItem struct {
	ID       string
	OrderID  string
	CourseID string
	Price    decimal.Decimal
}

// BillingAddress is carried through from the checkout session's metadata
// and persisted with the order as-is.
type BillingAddress struct {
	Name       string `json:"name,omitempty"`
	Line1      string `json:"line1,omitempty"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}
