package events

import (
	"encoding/json"
	"fmt"

	"github.com/chrisdamba/foodstore/internal/models"
	"github.com/xitongsys/parquet-go/schema"
)

const EventTypeOrderPlaced = "order_placed"

// OrderPlacedEvent is published after an order commits and is also the row
// layout of the Parquet export.
type OrderPlacedEvent struct {
	Timestamp     int64   `json:"timestamp" parquet:"name=timestamp,type=INT64"`
	EventType     string  `json:"eventType" parquet:"name=eventType,type=BYTE_ARRAY,convertedtype=UTF8"`
	OrderID       string  `json:"orderId" parquet:"name=orderId,type=BYTE_ARRAY,convertedtype=UTF8"`
	OrderNumber   string  `json:"orderNumber" parquet:"name=orderNumber,type=BYTE_ARRAY,convertedtype=UTF8"`
	RestaurantIDs string  `json:"restaurantIds" parquet:"name=restaurantIds,type=BYTE_ARRAY,convertedtype=UTF8"`
	Items         string  `json:"items" parquet:"name=items,type=BYTE_ARRAY,convertedtype=UTF8"`
	ItemCount     int32   `json:"itemCount" parquet:"name=itemCount,type=INT32"`
	Subtotal      float64 `json:"subtotal" parquet:"name=subtotal,type=DOUBLE"`
	DeliveryFee   float64 `json:"deliveryFee" parquet:"name=deliveryFee,type=DOUBLE"`
	Discount      float64 `json:"discount" parquet:"name=discount,type=DOUBLE"`
	TotalAmount   float64 `json:"totalAmount" parquet:"name=totalAmount,type=DOUBLE"`
	PaymentMethod string  `json:"paymentMethod" parquet:"name=paymentMethod,type=BYTE_ARRAY,convertedtype=UTF8"`
	CouponCode    string  `json:"couponCode,omitempty" parquet:"name=couponCode,type=BYTE_ARRAY,convertedtype=UTF8"`
	Status        string  `json:"status" parquet:"name=status,type=BYTE_ARRAY,convertedtype=UTF8"`
	OrderPlacedAt int64   `json:"orderPlacedAt" parquet:"name=orderPlacedAt,type=INT64"`
}

func NewOrderPlacedEvent(o *models.Order) (*OrderPlacedEvent, error) {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode order items: %w", err)
	}

	seen := make(map[string]bool)
	var restaurants []string
	count := 0
	for _, it := range o.Items {
		count += it.Quantity
		if !seen[it.RestaurantID] {
			seen[it.RestaurantID] = true
			restaurants = append(restaurants, it.RestaurantID)
		}
	}
	restaurantIDs, _ := json.Marshal(restaurants)

	return &OrderPlacedEvent{
		Timestamp:     o.CreatedAt.Unix(),
		EventType:     EventTypeOrderPlaced,
		OrderID:       o.ID,
		OrderNumber:   o.Number,
		RestaurantIDs: string(restaurantIDs),
		Items:         string(items),
		ItemCount:     int32(count),
		Subtotal:      o.Subtotal.InexactFloat64(),
		DeliveryFee:   o.DeliveryFee.InexactFloat64(),
		Discount:      o.Discount.InexactFloat64(),
		TotalAmount:   o.TotalAmount.InexactFloat64(),
		PaymentMethod: string(o.PaymentMethod),
		CouponCode:    o.CouponCode,
		Status:        o.Status,
		OrderPlacedAt: o.CreatedAt.UnixMilli(),
	}, nil
}

func GetSchema(topic string) (*schema.SchemaHandler, error) {
	switch topic {
	case models.TopicOrderPlaced:
		return schema.NewSchemaHandlerFromStruct(new(OrderPlacedEvent))
	default:
		return nil, fmt.Errorf("unknown event type: %s", topic)
	}
}
