package models

import "github.com/shopspring/decimal"

type MenuItem struct {
	ID               string          `json:"id"`
	RestaurantID     string          `json:"restaurant_id"`
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	Price            decimal.Decimal `json:"price"`
	Category         string          `json:"category"`
	AvailableInStore bool            `json:"available_in_store"`
	AvailableOnline  bool            `json:"available_online"`
	DeliveryFee      decimal.Decimal `json:"delivery_fee"`
}

// MenuItemPatch is one entry of a bulk availability update. Nil fields are left untouched.
type MenuItemPatch struct {
	ID               string `json:"id"`
	AvailableInStore *bool  `json:"available_in_store,omitempty"`
	AvailableOnline  *bool  `json:"available_online,omitempty"`
}
