package models

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestCouponDiscountFor(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)
	d := decimal.RequireFromString

	tests := []struct {
		name    string
		coupon  Coupon
		amount  string
		want    string
		wantErr error
	}{
		{"fixed", Coupon{Kind: CouponKindFixed, Value: d("25"), Active: true}, "250", "25", nil},
		{"percent", Coupon{Kind: CouponKindPercent, Value: d("10"), Active: true}, "255.50", "25.55", nil},
		{"capped by max", Coupon{Kind: CouponKindPercent, Value: d("50"), MaxDiscount: d("20"), Active: true}, "100", "20", nil},
		{"capped by amount", Coupon{Kind: CouponKindFixed, Value: d("40"), Active: true}, "30", "30", nil},
		{"not yet expired", Coupon{Kind: CouponKindFixed, Value: d("5"), Active: true, ExpiresAt: &future}, "10", "5", nil},
		{"expired", Coupon{Kind: CouponKindFixed, Value: d("5"), Active: true, ExpiresAt: &past}, "10", "0", ErrCouponExpired},
		{"inactive", Coupon{Kind: CouponKindFixed, Value: d("5")}, "10", "0", ErrCouponInactive},
		{"below minimum", Coupon{Kind: CouponKindFixed, Value: d("5"), MinOrderAmount: d("50"), Active: true}, "49.99", "0", ErrCouponBelowMinimum},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.coupon.DiscountFor(d(tt.amount), now)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if !got.Equal(d(tt.want)) {
				t.Errorf("discount = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDeliveryInfoComplete(t *testing.T) {
	tests := []struct {
		name string
		info DeliveryInfo
		want bool
	}{
		{"complete", DeliveryInfo{Name: "Ada", Phone: "555", Address: "1 Loop St"}, true},
		{"notes optional", DeliveryInfo{Name: "Ada", Phone: "555", Address: "1 Loop St", Notes: ""}, true},
		{"missing name", DeliveryInfo{Phone: "555", Address: "1 Loop St"}, false},
		{"blank phone", DeliveryInfo{Name: "Ada", Phone: "   ", Address: "1 Loop St"}, false},
		{"missing address", DeliveryInfo{Name: "Ada", Phone: "555"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.Complete(); got != tt.want {
				t.Errorf("Complete() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeCouponCode(t *testing.T) {
	if got := NormalizeCouponCode("  save10 "); got != "SAVE10" {
		t.Errorf("NormalizeCouponCode = %q", got)
	}
}
