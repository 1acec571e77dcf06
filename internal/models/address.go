package models

import "strings"

// DeliveryInfo is the free-form contact block captured at checkout.
type DeliveryInfo struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes,omitempty"`
}

// Complete reports whether name, phone and address are all present.
func (d DeliveryInfo) Complete() bool {
	return strings.TrimSpace(d.Name) != "" &&
		strings.TrimSpace(d.Phone) != "" &&
		strings.TrimSpace(d.Address) != ""
}
