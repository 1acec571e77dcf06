package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chrisdamba/foodstore/internal/models"
	"github.com/shopspring/decimal"
)

func TestListRestaurants(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/restaurants" || r.Method != http.MethodGet {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"r1","name":"Mama's","menu_items":[{"id":"m1","restaurant_id":"r1","name":"Pilau","price":"350.00","delivery_fee":"50","available_online":true}]}]`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL + "/", Token: "secret"})
	got, err := c.ListRestaurants(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || len(got[0].MenuItems) != 1 {
		t.Fatalf("unexpected result %+v", got)
	}
	if !got[0].MenuItems[0].Price.Equal(decimal.NewFromInt(350)) {
		t.Errorf("price = %s", got[0].MenuItems[0].Price)
	}
}

func TestValidateCoupon(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req models.CouponValidationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if req.Code != "SAVE10" || !req.Amount.Equal(decimal.NewFromInt(250)) {
			t.Errorf("unexpected body %+v", req)
		}
		_ = json.NewEncoder(w).Encode(models.CouponValidationResponse{Discount: decimal.NewFromInt(25)})
	}))
	defer srv.Close()

	got, err := New(Config{BaseURL: srv.URL}).ValidateCoupon(context.Background(), "SAVE10", decimal.NewFromInt(250))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(decimal.NewFromInt(25)) {
		t.Errorf("discount = %s", got)
	}
}

func TestNon2xxBecomesAPIError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{name: "error envelope", status: http.StatusUnprocessableEntity, body: `{"error":"coupon has expired"}`, wantMsg: "coupon has expired"},
		{name: "message envelope", status: http.StatusBadRequest, body: `{"message":"bad"}`, wantMsg: "bad"},
		{name: "html body", status: http.StatusBadGateway, body: `<html>oops</html>`, wantMsg: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := New(Config{BaseURL: srv.URL}).CreateOrder(context.Background(), models.OrderRequest{})
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %v", err)
			}
			if apiErr.Status != tt.status || apiErr.Message != tt.wantMsg {
				t.Errorf("got %+v", apiErr)
			}
		})
	}
}

func TestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	_, err := New(Config{BaseURL: srv.URL, Timeout: 20 * time.Millisecond}).ListRestaurants(context.Background())
	if err == nil {
		t.Fatal("expected timeout error")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Errorf("transport failure should not be an APIError: %v", err)
	}
}
