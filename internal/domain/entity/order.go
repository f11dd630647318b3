package entity

import (
	"time"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// The server enforces transitions; this table lets the client refuse
// obviously invalid actions (e.g. cancelling a shipped order) without a
// round trip.
var validNext = map[OrderStatus]map[OrderStatus]bool{
	OrderPending:    {OrderConfirmed: true, OrderCancelled: true},
	OrderConfirmed:  {OrderProcessing: true, OrderCancelled: true},
	OrderProcessing: {OrderShipped: true},
	OrderShipped:    {OrderDelivered: true},
	OrderDelivered:  {},
	OrderCancelled:  {},
}

func (s OrderStatus) CanTransition(to OrderStatus) bool {
	return validNext[s][to]
}

func (s OrderStatus) Cancellable() bool {
	return s.CanTransition(OrderCancelled)
}

type OrderItem struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name,omitempty"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price,omitempty"`
	Subtotal    float64 `json:"subtotal,omitempty"`
}

type Order struct {
	OrderNumber   string      `json:"order_number"`
	Status        OrderStatus `json:"status"`
	Items         []OrderItem `json:"items"`
	FullName      string      `json:"full_name"`
	Email         string      `json:"email"`
	Phone         string      `json:"phone"`
	AddressLine1  string      `json:"address_line1"`
	City          string      `json:"city"`
	State         string      `json:"state"`
	PostalCode    string      `json:"postal_code"`
	Country       string      `json:"country"`
	OrderNotes    string      `json:"order_notes,omitempty"`
	PaymentMethod string      `json:"payment_method"`
	CouponCode    string      `json:"coupon_code,omitempty"`
	Subtotal      float64     `json:"subtotal"`
	ShippingCost  float64     `json:"shipping_cost"`
	Discount      float64     `json:"discount,omitempty"`
	Total         float64     `json:"total"`
	CreatedAt     time.Time   `json:"created_at"`
}

type Coupon struct {
	Code            string  `json:"code"`
	DiscountPercent float64 `json:"discount_percent"`
	Valid           bool    `json:"valid"`
}

type Invoice struct {
	OrderNumber string `json:"order_number"`
	URL         string `json:"url"`
}
