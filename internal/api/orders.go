package api

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/chrisdamba/foodstore/internal/httpx"
	"github.com/chrisdamba/foodstore/internal/listing"
	"github.com/chrisdamba/foodstore/internal/models"
	"github.com/chrisdamba/foodstore/internal/repositories"
	"github.com/chrisdamba/foodstore/internal/storefront/cart"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req models.OrderRequest
	if err := decode(w, r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}
	order, err := s.priceOrder(r, req)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}

	n, err := s.Orders.NextNumber(r.Context())
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	order.Number = fmt.Sprintf("%s-%06d", s.Config.OrderNumberPrefix, n)

	resp := models.OrderResponse{
		ID:          order.ID,
		Number:      order.Number,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
	}
	if order.PaymentMethod == models.PaymentWallet {
		resp.PaymentURL = s.paymentURL(order)
	}

	if err := s.Orders.Create(r.Context(), order); err != nil {
		s.writeErr(w, r, err)
		return
	}
	s.Metrics.OrdersPlaced.WithLabelValues(string(order.PaymentMethod)).Inc()

	if !order.ClientTotal.Equal(order.TotalAmount) {
		s.Log.Warn("client total differs from repriced total",
			zap.String("order_id", order.ID),
			zap.String("client_total", order.ClientTotal.StringFixed(2)),
			zap.String("total_amount", order.TotalAmount.StringFixed(2)))
	}
	if s.Events != nil {
		// publish failures are logged by the emitter and never fail the order
		_ = s.Events.OrderPlaced(r.Context(), order)
	}

	httpx.WriteJSON(w, http.StatusCreated, resp)
}

// priceOrder validates req and reprices it from stored menu prices.
func (s *Server) priceOrder(r *http.Request, req models.OrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, invalid("items", "must not be empty")
	}
	if !req.PaymentMethod.Valid() {
		return nil, invalid("payment_method", "must be cash_on_delivery or wallet")
	}
	if !req.DeliveryInfo.Complete() {
		return nil, invalid("delivery_info", "name, phone and address are required")
	}

	ids := make([]string, 0, len(req.Items))
	quantities := make(map[string]int, len(req.Items))
	for _, line := range req.Items {
		if line.Quantity < 1 {
			return nil, invalid("items", fmt.Sprintf("quantity for %s must be at least 1", line.ID))
		}
		if _, dup := quantities[line.ID]; !dup {
			ids = append(ids, line.ID)
		}
		quantities[line.ID] += line.Quantity
	}

	stored, err := s.MenuItems.GetByIDs(r.Context(), ids)
	if err != nil {
		return nil, err
	}

	priced := cart.New(cart.FeePolicy(s.FeePolicy))
	order := &models.Order{
		ID:            uuid.NewString(),
		PaymentMethod: req.PaymentMethod,
		DeliveryInfo:  req.DeliveryInfo,
		ClientTotal:   req.TotalAmount,
		CreatedAt:     s.now().UTC(),
	}
	for _, id := range ids {
		item, ok := stored[id]
		if !ok || !item.AvailableOnline {
			return nil, invalid("items", fmt.Sprintf("item %s is not available", id))
		}
		priced.Add(*item)
		priced.SetQuantity(id, quantities[id])
		order.Items = append(order.Items, models.OrderItem{
			MenuItemID:   item.ID,
			RestaurantID: item.RestaurantID,
			Name:         item.Name,
			Quantity:     quantities[id],
			UnitPrice:    item.Price,
			DeliveryFee:  item.DeliveryFee,
		})
	}

	order.Subtotal = priced.Subtotal()
	order.DeliveryFee = priced.DeliveryFee()
	order.Discount = decimal.Zero
	if req.CouponCode != "" {
		discount, err := s.resolveCoupon(r, req.CouponCode, order.Subtotal)
		if isCouponRejection(err) {
			return nil, invalid("coupon_code", err.Error())
		}
		if err != nil {
			return nil, err
		}
		order.CouponCode = models.NormalizeCouponCode(req.CouponCode)
		order.Discount = discount
	}
	order.TotalAmount = priced.Total(order.Discount)

	order.Status = models.OrderStatusPlaced
	if order.PaymentMethod == models.PaymentWallet {
		order.Status = models.OrderStatusAwaitingPayment
	}
	return order, nil
}

func (s *Server) paymentURL(o *models.Order) string {
	u, err := url.Parse(s.Config.WalletGatewayURL)
	if err != nil {
		s.Log.Error("invalid wallet gateway url", zap.Error(err))
		return ""
	}
	q := u.Query()
	q.Set("order_id", o.ID)
	q.Set("reference", o.Number)
	q.Set("amount", o.TotalAmount.StringFixed(2))
	u.RawQuery = q.Encode()
	return u.String()
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	q, err := listing.Parse(r.URL.Query(), "status")
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	status, _ := q.Filter("status")

	orders, total, err := s.Orders.List(r.Context(), repositories.OrderFilter{
		Status: status,
		Search: q.Search,
		Offset: q.Offset(),
		Limit:  q.Limit(),
	})
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, listing.NewPage(q, orders, total))
}
