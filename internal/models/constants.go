package models

const (
	OrderStatusPlaced          = "placed"
	OrderStatusAwaitingPayment = "awaiting_payment"
	OrderStatusPaid            = "paid"
	OrderStatusCancelled       = "cancelled"

	CouponKindFixed   = "fixed"
	CouponKindPercent = "percent"

	DeliveryFeePerLine       = "per_line"
	DeliveryFeePerRestaurant = "per_restaurant"

	TopicOrderPlaced = "order_placed_events"
)
