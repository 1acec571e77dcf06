package web

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/chrisdamba/foodstore/internal/models"
	"github.com/chrisdamba/foodstore/internal/storefront/checkout"
	"github.com/chrisdamba/foodstore/internal/storefront/coupon"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	restaurants, err := sess.Catalog.Load(r.Context())
	if err != nil {
		s.log.Error("catalog load failed", zap.Error(err))
		sess.SetFlash("We could not load the menu right now. Please refresh the page.")
	}

	p := newPage("Menu", sess)
	p.Restaurants = restaurants
	p.OnlineCount = len(sess.Catalog.OnlineItems())
	s.render(w, "catalog.html", p)
}

func (s *Server) handleCart(w http.ResponseWriter, r *http.Request) {
	s.render(w, "cart.html", newPage("Your cart", sessionFrom(r)))
}

func (s *Server) handleCheckoutPage(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	if sess.Cart.IsEmpty() {
		redirect(w, r, "/cart")
		return
	}
	s.render(w, "checkout.html", newPage("Checkout", sess))
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	if _, err := sess.Catalog.Load(r.Context()); err != nil {
		s.log.Error("catalog load failed", zap.Error(err))
		sess.SetFlash("We could not load the menu right now. Please refresh the page.")
		redirect(w, r, "/")
		return
	}

	item, ok := sess.Catalog.Item(r.PostFormValue("item_id"))
	if !ok || !item.AvailableOnline {
		sess.SetFlash("That item is not available for online orders.")
		redirect(w, r, "/")
		return
	}
	sess.Cart.Add(item)
	sess.SetFlash(fmt.Sprintf("%s added to your cart.", item.Name))
	redirect(w, r, "/")
}

func (s *Server) handleSetQuantity(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue("quantity")))
	if err == nil {
		sessionFrom(r).Cart.SetQuantity(chi.URLParam(r, "id"), n)
	}
	redirect(w, r, "/cart")
}

func (s *Server) handleIncrement(w http.ResponseWriter, r *http.Request) {
	sessionFrom(r).Cart.Increment(chi.URLParam(r, "id"))
	redirect(w, r, "/cart")
}

func (s *Server) handleDecrement(w http.ResponseWriter, r *http.Request) {
	sessionFrom(r).Cart.Decrement(chi.URLParam(r, "id"))
	redirect(w, r, "/cart")
}

func (s *Server) handleConfirmRemove(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	sess.Lock()
	sess.Dialog.OpenDelete(chi.URLParam(r, "id"))
	sess.Unlock()
	redirect(w, r, "/cart")
}

func (s *Server) handleCloseDialog(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	sess.Lock()
	sess.Dialog.Close()
	sess.Unlock()
	redirect(w, r, "/cart")
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	sess.Cart.Remove(chi.URLParam(r, "id"))
	sess.Lock()
	sess.Dialog.Close()
	sess.Unlock()
	redirect(w, r, "/cart")
}

func (s *Server) handleApplyCoupon(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	if err := sess.Coupon.Apply(r.Context(), r.PostFormValue("code"), sess.Cart.Subtotal()); err != nil {
		sess.SetFlash(coupon.Message(err))
	}
	redirect(w, r, "/cart")
}

func (s *Server) handleRemoveCoupon(w http.ResponseWriter, r *http.Request) {
	sessionFrom(r).Coupon.Remove()
	redirect(w, r, "/cart")
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	info := models.DeliveryInfo{
		Name:    r.PostFormValue("name"),
		Phone:   r.PostFormValue("phone"),
		Address: r.PostFormValue("address"),
		Notes:   r.PostFormValue("notes"),
	}
	method := models.PaymentMethod(r.PostFormValue("payment_method"))

	sess.Lock()
	sess.DeliveryInfo = info
	sess.PaymentMethod = method
	in := checkout.Input{
		Cart:              sess.Cart,
		Coupon:            sess.Coupon,
		DeliveryInfo:      info,
		PaymentMethod:     method,
		CSRFToken:         sess.CSRFToken,
		HandoffCredential: sess.HandoffCredential,
	}
	sess.Unlock()

	res := s.submitter.Submit(r.Context(), in)
	s.log.Debug("checkout finished", zap.String("session", sess.ID), zap.Any("trail", res.Trail))

	switch {
	case res.Err != nil:
		sess.SetFlash(checkout.Message(res.Err))
		redirect(w, r, "/checkout")
	case res.Handoff != nil:
		p := newPage("Redirecting to payment", sess)
		p.Handoff = res.Handoff
		s.render(w, "handoff.html", p)
	default:
		sess.SetFlash(fmt.Sprintf("Thank you! Your order %s has been placed.", res.Order.Number))
		redirect(w, r, "/")
	}
}

// handleWalletPayment receives the handoff form, creates the wallet order
// upstream and sends the browser on to the payment page.
func (s *Server) handleWalletPayment(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	if !sess.ConsumeHandoff(r.PostFormValue(checkout.FieldHandoff)) {
		s.log.Warn("wallet handoff rejected", zap.String("session", sess.ID))
		http.Error(w, "invalid payment handoff", http.StatusForbidden)
		return
	}

	req, err := checkout.ParseHandoff(r.PostForm)
	if err != nil || req.PaymentMethod != models.PaymentWallet {
		s.log.Warn("malformed wallet handoff", zap.Error(err))
		http.Error(w, "malformed payment request", http.StatusBadRequest)
		return
	}

	order, err := s.orders.CreateOrder(r.Context(), req)
	if err != nil {
		s.log.Error("wallet order failed", zap.Error(err))
		sess.SetFlash(checkout.Message(err))
		redirect(w, r, "/checkout")
		return
	}

	sess.Cart.Clear()
	sess.Coupon.Remove()
	s.log.Info("wallet order created",
		zap.String("order_id", order.ID),
		zap.String("number", order.Number))

	if order.PaymentURL == "" {
		sess.SetFlash(fmt.Sprintf("Your order %s has been received.", order.Number))
		redirect(w, r, "/")
		return
	}
	http.Redirect(w, r, order.PaymentURL, http.StatusSeeOther)
}
