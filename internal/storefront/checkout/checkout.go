// Package checkout turns a cart into an order. Cash-on-delivery orders are
// posted to the backend directly; wallet orders are handed to the browser as
// a same-origin form that navigates to the wallet payment endpoint.
package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/chrisdamba/foodstore/internal/models"
	"github.com/chrisdamba/foodstore/internal/storefront/cart"
	"github.com/chrisdamba/foodstore/internal/storefront/coupon"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type State string

const (
	StateIdle             State = "idle"
	StateValidatingInputs State = "validating-inputs"
	StateCashBranch       State = "cash-branch"
	StateWalletBranch     State = "wallet-branch"
	StateSubmitted        State = "submitted"
	StateFailed           State = "failed"
)

var (
	ErrMissingPaymentMethod   = errors.New("payment method not selected")
	ErrIncompleteDeliveryInfo = errors.New("delivery info incomplete")
	ErrEmptyCart              = errors.New("cart is empty")
	ErrSubmitFailed           = errors.New("order submission failed")
)

// Message is the blocking alert text for err.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingPaymentMethod):
		return "Please select a payment method"
	case errors.Is(err, ErrIncompleteDeliveryInfo):
		return "Please fill in your name, phone number and delivery address"
	case errors.Is(err, ErrEmptyCart):
		return "Your cart is empty"
	default:
		return "We could not place your order. Please try again."
	}
}

type OrderCreator interface {
	CreateOrder(ctx context.Context, req models.OrderRequest) (*models.OrderResponse, error)
}

type Input struct {
	Cart          *cart.Cart
	Coupon        *coupon.State
	DeliveryInfo  models.DeliveryInfo
	PaymentMethod models.PaymentMethod
	// CSRFToken and HandoffCredential are only used by the wallet branch.
	CSRFToken         string
	HandoffCredential string
}

type Result struct {
	State   State
	Trail   []State
	Order   *models.OrderResponse
	Handoff *Handoff
	Err     error
}

type Submitter struct {
	orders     OrderCreator
	walletPath string
	log        *zap.Logger
}

func NewSubmitter(orders OrderCreator, walletPath string, log *zap.Logger) *Submitter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Submitter{orders: orders, walletPath: walletPath, log: log}
}

func (s *Submitter) Submit(ctx context.Context, in Input) Result {
	r := Result{State: StateIdle, Trail: []State{StateIdle}}
	r.move(StateValidatingInputs)

	if err := validate(in); err != nil {
		return r.fail(err)
	}

	req := buildRequest(in)

	if in.PaymentMethod == models.PaymentWallet {
		r.move(StateWalletBranch)
		r.Handoff = newHandoff(s.walletPath, req, in.CSRFToken, in.HandoffCredential)
		r.move(StateSubmitted)
		return r
	}

	r.move(StateCashBranch)
	order, err := s.orders.CreateOrder(ctx, req)
	if err != nil {
		s.log.Error("cash order failed", zap.Error(err), zap.Int("lines", len(req.Items)))
		return r.fail(fmt.Errorf("%w: %w", ErrSubmitFailed, err))
	}
	in.Cart.Clear()
	if in.Coupon != nil {
		in.Coupon.Remove()
	}
	s.log.Info("order placed",
		zap.String("order_id", order.ID),
		zap.String("number", order.Number),
		zap.String("total_amount", order.TotalAmount.StringFixed(2)))

	r.Order = order
	r.move(StateSubmitted)
	return r
}

func validate(in Input) error {
	if !in.PaymentMethod.Valid() {
		return ErrMissingPaymentMethod
	}
	if !in.DeliveryInfo.Complete() {
		return ErrIncompleteDeliveryInfo
	}
	if in.Cart == nil || in.Cart.IsEmpty() {
		return ErrEmptyCart
	}
	return nil
}

func buildRequest(in Input) models.OrderRequest {
	req := models.OrderRequest{
		Items:         in.Cart.OrderLines(),
		PaymentMethod: in.PaymentMethod,
		DeliveryInfo:  in.DeliveryInfo,
	}
	discount := decimal.Zero
	if in.Coupon != nil {
		discount = in.Coupon.Discount()
		req.CouponCode = in.Coupon.Code()
	}
	req.TotalAmount = in.Cart.Total(discount)
	return req
}

func (r *Result) move(s State) {
	r.State = s
	r.Trail = append(r.Trail, s)
}

func (r Result) fail(err error) Result {
	r.move(StateFailed)
	r.Err = err
	return r
}
