package web

import (
	"github.com/chrisdamba/foodstore/internal/models"
	"github.com/chrisdamba/foodstore/internal/storefront/cart"
	"github.com/chrisdamba/foodstore/internal/storefront/checkout"
	"github.com/chrisdamba/foodstore/internal/storefront/coupon"
	"github.com/chrisdamba/foodstore/internal/storefront/session"
	"github.com/chrisdamba/foodstore/internal/storefront/ui"
	"github.com/shopspring/decimal"
)

type pageData struct {
	Title         string
	Flash         string
	CSRF          string
	CartCount     int
	Restaurants   []models.Restaurant
	OnlineCount   int
	Lines         []cart.Line
	Subtotal      decimal.Decimal
	DeliveryFee   decimal.Decimal
	Discount      decimal.Decimal
	Total         decimal.Decimal
	CouponCode    string
	CouponError   string
	CouponPending bool
	Delivery      models.DeliveryInfo
	Payment       models.PaymentMethod
	Dialog        ui.Dialog
	Handoff       *checkout.Handoff
}

// newPage snapshots the session into view data and consumes the flash.
func newPage(title string, sess *session.Session) pageData {
	flash := sess.TakeFlash()

	sess.Lock()
	p := pageData{
		Title:    title,
		Flash:    flash,
		CSRF:     sess.CSRFToken,
		Delivery: sess.DeliveryInfo,
		Payment:  sess.PaymentMethod,
		Dialog:   sess.Dialog,
	}
	sess.Unlock()

	discount := sess.Coupon.Discount()
	p.Lines = sess.Cart.Lines()
	p.CartCount = len(p.Lines)
	p.Subtotal = sess.Cart.Subtotal()
	p.DeliveryFee = sess.Cart.DeliveryFee()
	p.Discount = discount
	p.Total = sess.Cart.Total(discount)
	p.CouponCode = sess.Coupon.Code()
	p.CouponError = coupon.Message(sess.Coupon.Err())
	p.CouponPending = sess.Coupon.Pending()
	return p
}
