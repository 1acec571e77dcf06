package factories

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/chrisdamba/foodstore/internal/models"
	"github.com/shopspring/decimal"
)

type CouponFactory struct {
	Now func() time.Time
}

func (cf *CouponFactory) CreateCoupon() *models.Coupon {
	now := time.Now
	if cf.Now != nil {
		now = cf.Now
	}

	c := &models.Coupon{
		Code:      fmt.Sprintf("%s%d", strings.ToUpper(fake.Lorem().Word()), fake.IntBetween(5, 50)),
		Active:    true,
		CreatedAt: now().UTC(),
	}
	if rand.Float64() < 0.5 {
		c.Kind = models.CouponKindPercent
		c.Value = decimal.NewFromInt(int64(fake.IntBetween(1, 6) * 5))
		c.MaxDiscount = decimal.NewFromInt(500)
	} else {
		c.Kind = models.CouponKindFixed
		c.Value = decimal.NewFromInt(int64(fake.IntBetween(2, 20) * 10))
		c.MinOrderAmount = c.Value.Mul(decimal.NewFromInt(3))
	}
	if rand.Float64() < 0.3 {
		expires := now().AddDate(0, 0, fake.IntBetween(7, 90)).UTC()
		c.ExpiresAt = &expires
	}
	c.Code = models.NormalizeCouponCode(c.Code)
	return c
}
