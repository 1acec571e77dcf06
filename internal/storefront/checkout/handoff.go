package checkout

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/chrisdamba/foodstore/internal/models"
	"github.com/shopspring/decimal"
)

const (
	FieldCSRF    = "csrf_token"
	FieldHandoff = "handoff_token"
)

type Field struct {
	Name  string
	Value string
}

// Handoff describes the hidden form the browser submits to start a wallet payment.
type Handoff struct {
	Action string
	Method string
	Fields []Field
}

func newHandoff(action string, req models.OrderRequest, csrf, credential string) *Handoff {
	h := &Handoff{Action: action, Method: http.MethodPost}
	add := func(name, value string) {
		h.Fields = append(h.Fields, Field{Name: name, Value: value})
	}

	for i, line := range req.Items {
		add(fmt.Sprintf("items[%d][id]", i), line.ID)
		add(fmt.Sprintf("items[%d][quantity]", i), strconv.Itoa(line.Quantity))
	}
	add("total_amount", req.TotalAmount.StringFixed(2))
	add("payment_method", string(req.PaymentMethod))
	add("delivery_info[name]", req.DeliveryInfo.Name)
	add("delivery_info[phone]", req.DeliveryInfo.Phone)
	add("delivery_info[address]", req.DeliveryInfo.Address)
	add("delivery_info[notes]", req.DeliveryInfo.Notes)
	if req.CouponCode != "" {
		add("coupon_code", req.CouponCode)
	}
	add(FieldCSRF, csrf)
	add(FieldHandoff, credential)
	return h
}

// Values returns the handoff fields as they arrive in the receiving request.
func (h *Handoff) Values() url.Values {
	v := url.Values{}
	for _, f := range h.Fields {
		v.Add(f.Name, f.Value)
	}
	return v
}

// ParseHandoff reads back an order request from a submitted handoff form.
func ParseHandoff(form url.Values) (models.OrderRequest, error) {
	req := models.OrderRequest{
		PaymentMethod: models.PaymentMethod(form.Get("payment_method")),
		CouponCode:    form.Get("coupon_code"),
		DeliveryInfo: models.DeliveryInfo{
			Name:    form.Get("delivery_info[name]"),
			Phone:   form.Get("delivery_info[phone]"),
			Address: form.Get("delivery_info[address]"),
			Notes:   form.Get("delivery_info[notes]"),
		},
	}

	total, err := decimal.NewFromString(form.Get("total_amount"))
	if err != nil {
		return models.OrderRequest{}, fmt.Errorf("invalid total_amount: %w", err)
	}
	req.TotalAmount = total

	for i := 0; ; i++ {
		id := form.Get(fmt.Sprintf("items[%d][id]", i))
		if id == "" {
			break
		}
		qty, err := strconv.Atoi(form.Get(fmt.Sprintf("items[%d][quantity]", i)))
		if err != nil || qty < 1 {
			return models.OrderRequest{}, fmt.Errorf("invalid quantity for item %d", i)
		}
		req.Items = append(req.Items, models.OrderLine{ID: strings.TrimSpace(id), Quantity: qty})
	}
	if len(req.Items) == 0 {
		return models.OrderRequest{}, fmt.Errorf("no items in payment form")
	}
	if !req.PaymentMethod.Valid() {
		return models.OrderRequest{}, fmt.Errorf("invalid payment_method %q", req.PaymentMethod)
	}
	return req, nil
}
