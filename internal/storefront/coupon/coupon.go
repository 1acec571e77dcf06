// Package coupon applies a discount code to the shopper's cart after a
// round trip to the backend's validation endpoint.
package coupon

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrEmptyCode            = errors.New("coupon code is empty")
	ErrInvalid              = errors.New("coupon was rejected")
	ErrCouponAlreadyApplied = errors.New("a coupon is already applied")
)

// Message is the text shown to the shopper for err. Server detail is never surfaced.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyCode):
		return "Please enter a coupon code"
	case errors.Is(err, ErrCouponAlreadyApplied):
		return "Remove the current coupon before applying another"
	default:
		return "Invalid or expired coupon code"
	}
}

type Validator interface {
	ValidateCoupon(ctx context.Context, code string, amount decimal.Decimal) (decimal.Decimal, error)
}

type State struct {
	validator Validator
	log       *zap.Logger

	mu       sync.Mutex
	code     string
	discount decimal.Decimal
	err      error
	pending  atomic.Int32
}

func New(v Validator, log *zap.Logger) *State {
	if log == nil {
		log = zap.NewNop()
	}
	return &State{validator: v, log: log}
}

// Apply validates code against subtotal. On success the discount is stored;
// on any failure the stored error is ErrInvalid and the discount stays zero.
func (s *State) Apply(ctx context.Context, code string, subtotal decimal.Decimal) error {
	code = strings.TrimSpace(code)

	s.mu.Lock()
	switch {
	case code == "":
		s.err = ErrEmptyCode
		s.mu.Unlock()
		return ErrEmptyCode
	case s.code != "":
		s.err = ErrCouponAlreadyApplied
		s.mu.Unlock()
		return ErrCouponAlreadyApplied
	}
	s.mu.Unlock()

	s.pending.Add(1)
	discount, err := s.validator.ValidateCoupon(ctx, code, subtotal)
	s.pending.Add(-1)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.log.Info("coupon rejected", zap.String("code", code), zap.Error(err))
		s.discount = decimal.Zero
		s.err = ErrInvalid
		return ErrInvalid
	}
	s.code = code
	s.discount = discount
	s.err = nil
	return nil
}

func (s *State) Remove() {
	s.mu.Lock()
	s.code = ""
	s.discount = decimal.Zero
	s.err = nil
	s.mu.Unlock()
}

func (s *State) Discount() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.discount
}

func (s *State) Code() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.code
}

func (s *State) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *State) Pending() bool {
	return s.pending.Load() > 0
}
