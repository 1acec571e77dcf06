package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrCouponInactive     = errors.New("coupon is inactive")
	ErrCouponExpired      = errors.New("coupon has expired")
	ErrCouponBelowMinimum = errors.New("order amount is below the coupon minimum")
)

type Coupon struct {
	Code           string          `json:"code"`
	Kind           string          `json:"kind"`
	Value          decimal.Decimal `json:"value"`
	MinOrderAmount decimal.Decimal `json:"min_order_amount"`
	MaxDiscount    decimal.Decimal `json:"max_discount"`
	ExpiresAt      *time.Time      `json:"expires_at,omitempty"`
	Active         bool            `json:"active"`
	CreatedAt      time.Time       `json:"created_at"`
}

// NormalizeCouponCode is the canonical form codes are stored and looked up in.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// DiscountFor resolves the discount this coupon grants on amount at the given time.
// The result never exceeds amount, nor MaxDiscount when that is positive.
func (c *Coupon) DiscountFor(amount decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	if !c.Active {
		return decimal.Zero, ErrCouponInactive
	}
	if c.ExpiresAt != nil && !now.Before(*c.ExpiresAt) {
		return decimal.Zero, ErrCouponExpired
	}
	if amount.LessThan(c.MinOrderAmount) {
		return decimal.Zero, ErrCouponBelowMinimum
	}

	var discount decimal.Decimal
	switch c.Kind {
	case CouponKindPercent:
		discount = amount.Mul(c.Value).Div(decimal.NewFromInt(100)).Round(2)
	default:
		discount = c.Value
	}

	if c.MaxDiscount.IsPositive() && discount.GreaterThan(c.MaxDiscount) {
		discount = c.MaxDiscount
	}
	if discount.GreaterThan(amount) {
		discount = amount
	}
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	return discount, nil
}

type CouponValidationRequest struct {
	Code   string          `json:"code"`
	Amount decimal.Decimal `json:"amount"`
}

type CouponValidationResponse struct {
	Discount decimal.Decimal `json:"discount"`
}
