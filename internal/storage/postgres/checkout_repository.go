package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/DiwanMalla/brainix-checkout/internal/domain"
)

const (
	paymentIntentConstraint = "orders_payment_intent_id_key"
	orderNumberConstraint   = "orders_order_number_key"
)

type CheckoutRepository struct {
	pool *pgxpool.Pool
}

func NewCheckoutRepository(pool *pgxpool.Pool) *CheckoutRepository {
	return &CheckoutRepository{pool: pool}
}

func (r *CheckoutRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *CheckoutRepository) GetOrderByPaymentIntentID(ctx context.Context, paymentIntentID string) (*domain.Order, error) {
	const query = `
SELECT id, order_number, user_id, status, total::text, discount::text, tax::text,
       currency, payment_method, payment_intent_id, coupon_id, billing_address, created_at
FROM orders
WHERE payment_intent_id = $1`

	var (
		o           domain.Order
		status      string
		total       string
		discount    string
		tax         string
		billingJSON []byte
	)
	err := r.queryRow(ctx, query, paymentIntentID).Scan(
		&o.ID, &o.OrderNumber, &o.UserID, &status, &total, &discount, &tax,
		&o.Currency, &o.PaymentMethod, &o.PaymentIntentID, &o.CouponID, &billingJSON, &o.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get order by payment intent: %w", err)
	}
	o.Status = domain.OrderStatus(status)
	if o.Total, err = decimal.NewFromString(total); err != nil {
		return nil, fmt.Errorf("parse order total: %w", err)
	}
	if o.Discount, err = decimal.NewFromString(discount); err != nil {
		return nil, fmt.Errorf("parse order discount: %w", err)
	}
	if o.Tax, err = decimal.NewFromString(tax); err != nil {
		return nil, fmt.Errorf("parse order tax: %w", err)
	}
	if len(billingJSON) > 0 {
		if err := json.Unmarshal(billingJSON, &o.BillingAddress); err != nil {
			return nil, fmt.Errorf("parse billing address: %w", err)
		}
	}
	return &o, nil
}

func (r *CheckoutRepository) ListCartLines(ctx context.Context, userID string, courseIDs []string) ([]domain.CartLine, error) {
	const query = `
SELECT ci.course_id, c.price::text, c.discount_price::text
FROM cart_items ci
JOIN courses c ON c.id = ci.course_id
WHERE ci.user_id = $1 AND ci.course_id = ANY($2)
ORDER BY ci.course_id`

	rows, err := r.query(ctx, query, userID, courseIDs)
	if err != nil {
		return nil, fmt.Errorf("list cart lines: %w", err)
	}
	defer rows.Close()

	var lines []domain.CartLine
	for rows.Next() {
		var (
			line          domain.CartLine
			price         string
			discountPrice *string
		)
		if err := rows.Scan(&line.CourseID, &price, &discountPrice); err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		if line.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("parse course price: %w", err)
		}
		if discountPrice != nil {
			dp, err := decimal.NewFromString(*discountPrice)
			if err != nil {
				return nil, fmt.Errorf("parse course discount price: %w", err)
			}
			line.DiscountPrice = &dp
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list cart lines: %w", err)
	}
	return lines, nil
}

func (r *CheckoutRepository) GetCouponByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	const query = `
SELECT id, code, discount_type, discount_value::text, max_discount::text,
       active, ends_at, usage_count
FROM coupons
WHERE LOWER(code) = LOWER($1)`

	var (
		c           domain.Coupon
		discType    string
		value       string
		maxDiscount *string
	)
	err := r.queryRow(ctx, query, code).Scan(
		&c.ID, &c.Code, &discType, &value, &maxDiscount, &c.Active, &c.EndsAt, &c.UsageCount,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get coupon: %w", err)
	}
	c.Type = domain.DiscountType(discType)
	if c.Value, err = decimal.NewFromString(value); err != nil {
		return nil, fmt.Errorf("parse coupon value: %w", err)
	}
	if maxDiscount != nil {
		md, err := decimal.NewFromString(*maxDiscount)
		if err != nil {
			return nil, fmt.Errorf("parse coupon max discount: %w", err)
		}
		c.MaxDiscount = &md
	}
	return &c, nil
}

func (r *CheckoutRepository) CreateOrder(ctx context.Context, order domain.Order) error {
	const orderStmt = `
INSERT INTO orders (id, order_number, user_id, status, total, discount, tax,
                    currency, payment_method, payment_intent_id, coupon_id,
                    billing_address, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	billingJSON, err := json.Marshal(order.BillingAddress)
	if err != nil {
		return fmt.Errorf("marshal billing address: %w", err)
	}

	_, err = r.exec(ctx, orderStmt,
		order.ID, order.OrderNumber, order.UserID, string(order.Status),
		order.Total.StringFixed(2), order.Discount.StringFixed(2), order.Tax.StringFixed(2),
		order.Currency, order.PaymentMethod, order.PaymentIntentID, order.CouponID,
		billingJSON, order.CreatedAt,
	)
	if err != nil {
		switch uniqueViolationConstraint(err) {
		case paymentIntentConstraint:
			return domain.ErrOrderExists
		case orderNumberConstraint:
			return domain.ErrOrderNumberTaken
		}
		return fmt.Errorf("create order: %w", err)
	}

	const itemStmt = `
INSERT INTO order_items (id, order_id, course_id, price)
VALUES ($1, $2, $3, $4)`

	for _, item := range order.Items {
		if _, err := r.exec(ctx, itemStmt, item.ID, item.OrderID, item.CourseID, item.Price.StringFixed(2)); err != nil {
			return fmt.Errorf("create order item: %w", err)
		}
	}
	return nil
}

func (r *CheckoutRepository) IncrementCouponUsage(ctx context.Context, couponID string) error {
	const stmt = `UPDATE coupons SET usage_count = usage_count + 1 WHERE id = $1`

	tag, err := r.exec(ctx, stmt, couponID)
	if err != nil {
		return fmt.Errorf("increment coupon usage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("increment coupon usage: coupon %s not found", couponID)
	}
	return nil
}

func (r *CheckoutRepository) ClearCart(ctx context.Context, userID string) error {
	const stmt = `DELETE FROM cart_items WHERE user_id = $1`

	if _, err := r.exec(ctx, stmt, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func (r *CheckoutRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *CheckoutRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *CheckoutRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
