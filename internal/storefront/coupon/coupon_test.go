package coupon

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chrisdamba/foodstore/internal/apiclient"
	"github.com/chrisdamba/foodstore/internal/models"
	"github.com/chrisdamba/foodstore/internal/storefront/cart"
	"github.com/shopspring/decimal"
)

type fakeValidator struct {
	calls    int
	discount decimal.Decimal
	err      error
}

func (f *fakeValidator) ValidateCoupon(ctx context.Context, code string, amount decimal.Decimal) (decimal.Decimal, error) {
	f.calls++
	return f.discount, f.err
}

func TestApplyAndRemoveRestoresTotal(t *testing.T) {
	c := cart.New(cart.PerLine)
	a := models.MenuItem{ID: "A", Price: decimal.NewFromInt(100), DeliveryFee: decimal.NewFromInt(20)}
	b := models.MenuItem{ID: "B", Price: decimal.NewFromInt(50), DeliveryFee: decimal.NewFromInt(10)}
	c.Add(a)
	c.Add(a)
	c.Add(b)

	v := &fakeValidator{discount: decimal.NewFromInt(25)}
	s := New(v, nil)

	if err := s.Apply(context.Background(), "SAVE10", c.Subtotal()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.Total(s.Discount()); !got.Equal(decimal.NewFromInt(255)) {
		t.Errorf("total = %s, want 255", got)
	}
	if s.Code() != "SAVE10" {
		t.Errorf("code = %q", s.Code())
	}

	s.Remove()
	if !s.Discount().IsZero() || s.Code() != "" || s.Err() != nil {
		t.Errorf("state not cleared: %s %q %v", s.Discount(), s.Code(), s.Err())
	}
	if got := c.Total(s.Discount()); !got.Equal(decimal.NewFromInt(280)) {
		t.Errorf("total = %s, want 280", got)
	}
}

func TestApplyEmptyCodeMakesNoCall(t *testing.T) {
	for _, code := range []string{"", "   ", "\t"} {
		v := &fakeValidator{}
		s := New(v, nil)

		err := s.Apply(context.Background(), code, decimal.NewFromInt(100))
		if !errors.Is(err, ErrEmptyCode) {
			t.Errorf("Apply(%q) error = %v", code, err)
		}
		if v.calls != 0 {
			t.Errorf("Apply(%q) made %d calls", code, v.calls)
		}
		if Message(s.Err()) != "Please enter a coupon code" {
			t.Errorf("message = %q", Message(s.Err()))
		}
	}
}

func TestApplyRejectsSecondCoupon(t *testing.T) {
	v := &fakeValidator{discount: decimal.NewFromInt(5)}
	s := New(v, nil)

	if err := s.Apply(context.Background(), "FIRST", decimal.NewFromInt(100)); err != nil {
		t.Fatal(err)
	}
	if err := s.Apply(context.Background(), "SECOND", decimal.NewFromInt(100)); !errors.Is(err, ErrCouponAlreadyApplied) {
		t.Fatalf("expected ErrCouponAlreadyApplied, got %v", err)
	}
	if v.calls != 1 || s.Code() != "FIRST" {
		t.Errorf("calls=%d code=%q", v.calls, s.Code())
	}
}

func TestServerRejectionIsGeneric(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"coupon SAVE10 expired on 2024-01-01"}`))
	}))
	defer srv.Close()

	s := New(apiclient.New(apiclient.Config{BaseURL: srv.URL}), nil)
	err := s.Apply(context.Background(), "SAVE10", decimal.NewFromInt(250))
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if got := Message(s.Err()); got != "Invalid or expired coupon code" {
		t.Errorf("message = %q", got)
	}
	if !s.Discount().IsZero() || s.Code() != "" {
		t.Error("rejected coupon must not be stored")
	}
	if s.Pending() {
		t.Error("pending should be false after the call returns")
	}
}
