package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentWallet         PaymentMethod = "wallet"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentCashOnDelivery || m == PaymentWallet
}

// OrderLine is what the storefront sends for each cart line. Prices are never sent.
type OrderLine struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

type OrderRequest struct {
	Items         []OrderLine     `json:"items"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	DeliveryInfo  DeliveryInfo    `json:"delivery_info"`
	CouponCode    string          `json:"coupon_code,omitempty"`
}

type OrderResponse struct {
	ID          string          `json:"id"`
	Number      string          `json:"number"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	PaymentURL  string          `json:"payment_url,omitempty"`
}

type OrderItem struct {
	MenuItemID   string          `json:"menu_item_id"`
	RestaurantID string          `json:"restaurant_id"`
	Name         string          `json:"name"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	DeliveryFee  decimal.Decimal `json:"delivery_fee"`
}

type Order struct {
	ID            string          `json:"id"`
	Number        string          `json:"number"`
	Status        string          `json:"status"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	CouponCode    string          `json:"coupon_code,omitempty"`
	Items         []OrderItem     `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	DeliveryFee   decimal.Decimal `json:"delivery_fee"`
	Discount      decimal.Decimal `json:"discount"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	// ClientTotal is the total the storefront computed; kept for reconciliation.
	ClientTotal  decimal.Decimal `json:"client_total"`
	DeliveryInfo DeliveryInfo    `json:"delivery_info"`
	CreatedAt    time.Time       `json:"created_at"`
}
