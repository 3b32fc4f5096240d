package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/DiwanMalla/brainix-checkout/internal/clock"
	"github.com/DiwanMalla/brainix-checkout/internal/domain"
	"github.com/DiwanMalla/brainix-checkout/internal/payment"
)

const (
	orderCurrency      = "USD"
	orderPaymentMethod = "card"

	// Order-number generation is only probabilistically unique; the column
	// constraint is the real guarantee, and a conflict retries generation.
	maxOrderNumberAttempts = 3
)

// centTolerance absorbs rounding between the recomputed total and the
// amount the processor captured.
var centTolerance = decimal.New(1, -2)

type CheckoutRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetOrderByPaymentIntentID(ctx context.Context, paymentIntentID string) (*domain.Order, error)
	ListCartLines(ctx context.Context, userID string, courseIDs []string) ([]domain.CartLine, error)
	GetCouponByCode(ctx context.Context, code string) (*domain.Coupon, error)
	CreateOrder(ctx context.Context, order domain.Order) error
	IncrementCouponUsage(ctx context.Context, couponID string) error
	ClearCart(ctx context.Context, userID string) error
}

// CheckoutService finalizes paid checkouts: it reconciles the captured amount
// against the purchaser's cart and coupon, then materializes the order.
type CheckoutService struct {
	repo  CheckoutRepository
	clock clock.Clock
}

func NewCheckoutService(repo CheckoutRepository, clk clock.Clock) *CheckoutService {
	return &CheckoutService{
		repo:  repo,
		clock: clk,
	}
}

type FinalizeInput struct {
	PaymentIntentID string
	// AmountReceived is the captured amount in minor units (cents).
	AmountReceived int64
	Metadata       map[string]string
}

type FinalizeResult struct {
	Order   domain.Order
	Created bool
}

// FinalizePayment processes one successful payment. It is safe to call any
// number of times for the same payment intent: redeliveries short-circuit on
// the existing order, and a concurrent duplicate insert is resolved through
// the payment-intent uniqueness constraint.
func (s *CheckoutService) FinalizePayment(ctx context.Context, in FinalizeInput) (FinalizeResult, error) {
	meta, err := payment.DecodeMetadata(in.Metadata)
	if err != nil {
		return FinalizeResult{}, err
	}

	now := s.clock.Now()
	captured := decimal.New(in.AmountReceived, -2)

	var result FinalizeResult
	run := func(txCtx context.Context) error {
		existing, err := s.repo.GetOrderByPaymentIntentID(txCtx, in.PaymentIntentID)
		if err != nil {
			return err
		}
		if existing != nil {
			result = FinalizeResult{Order: *existing, Created: false}
			return nil
		}

		lines, err := s.repo.ListCartLines(txCtx, meta.UserID, meta.CourseIDs)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return domain.ErrEmptyCart
		}

		subtotal := decimal.Zero
		for _, line := range lines {
			subtotal = subtotal.Add(line.EffectivePrice())
		}

		var coupon *domain.Coupon
		discount := decimal.Zero
		if meta.PromoCode != "" {
			c, err := s.repo.GetCouponByCode(txCtx, meta.PromoCode)
			if err != nil {
				return err
			}
			// A coupon that vanished, deactivated, or expired since checkout
			// degrades to zero discount; the customer already paid.
			if c != nil && c.Redeemable(now) {
				coupon = c
				discount = c.Discount(subtotal)
			}
		}

		total := subtotal.Sub(discount)
		if total.Sub(captured).Abs().GreaterThan(centTolerance) {
			return fmt.Errorf("%w: captured %s, expected %s",
				domain.ErrAmountMismatch, captured.StringFixed(2), total.StringFixed(2))
		}

		order := domain.Order{
			ID:              uuid.NewString(),
			OrderNumber:     newOrderNumber(now),
			UserID:          meta.UserID,
			Status:          domain.OrderStatusCompleted,
			Total:           total,
			Discount:        discount,
			Tax:             decimal.Zero,
			Currency:        orderCurrency,
			PaymentMethod:   orderPaymentMethod,
			PaymentIntentID: in.PaymentIntentID,
			BillingAddress:  meta.BillingAddress,
			CreatedAt:       now,
		}
		if coupon != nil {
			couponID := coupon.ID
			order.CouponID = &couponID
		}
		for _, line := range lines {
			order.Items = append(order.Items, domain.OrderItem{
				ID:       uuid.NewString(),
				OrderID:  order.ID,
				CourseID: line.CourseID,
				Price:    line.EffectivePrice(),
			})
		}

		if err := s.repo.CreateOrder(txCtx, order); err != nil {
			return err
		}
		if coupon != nil {
			if err := s.repo.IncrementCouponUsage(txCtx, coupon.ID); err != nil {
				return err
			}
		}
		// Full cart clear: the checkout flow checks out the whole cart.
		if err := s.repo.ClearCart(txCtx, meta.UserID); err != nil {
			return err
		}

		result = FinalizeResult{Order: order, Created: true}
		return nil
	}

	for attempt := 0; ; attempt++ {
		err = s.repo.WithTx(ctx, run)
		if errors.Is(err, domain.ErrOrderNumberTaken) && attempt < maxOrderNumberAttempts-1 {
			continue
		}
		break
	}
	if errors.Is(err, domain.ErrOrderExists) {
		// A concurrent delivery won the insert race. The transaction is
		// already rolled back, so re-read outside it.
		existing, getErr := s.repo.GetOrderByPaymentIntentID(ctx, in.PaymentIntentID)
		if getErr != nil {
			return FinalizeResult{}, getErr
		}
		if existing != nil {
			return FinalizeResult{Order: *existing, Created: false}, nil
		}
		return FinalizeResult{}, err
	}
	if err != nil {
		return FinalizeResult{}, err
	}
	return result, nil
}
