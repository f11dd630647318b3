package api

import (
	"context"
	"fmt"
	"net/http"

	"mercadillo/internal/domain/entity"
)

type OrderAPI struct {
	client *Client
}

func NewOrderAPI(client *Client) *OrderAPI {
	return &OrderAPI{client: client}
}

type OrderPayload struct {
	FullName      string             `json:"full_name"`
	Email         string             `json:"email"`
	Phone         string             `json:"phone"`
	AddressLine1  string             `json:"address_line1"`
	City          string             `json:"city"`
	State         string             `json:"state"`
	PostalCode    string             `json:"postal_code"`
	Country       string             `json:"country"`
	OrderNotes    string             `json:"order_notes,omitempty"`
	PaymentMethod string             `json:"payment_method"`
	CouponCode    string             `json:"coupon_code,omitempty"`
	Items         []entity.OrderItem `json:"items"`
}

func (o *OrderAPI) List(ctx context.Context) ([]entity.Order, error) {
	var orders []entity.Order
	_, err := o.client.getList(ctx, "/api/orders/", &orders)
	return orders, err
}

func (o *OrderAPI) Get(ctx context.Context, orderNumber string) (*entity.Order, error) {
	var order entity.Order
	if err := o.client.Do(ctx, http.MethodGet, fmt.Sprintf("/api/orders/%s/", orderNumber), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (o *OrderAPI) Create(ctx context.Context, payload OrderPayload) (*entity.Order, error) {
	var order entity.Order
	if err := o.client.Do(ctx, http.MethodPost, "/api/orders/", payload, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CreatePaymentIntent asks the backend for a processor-side intent. The
// amount is in minor currency units.
func (o *OrderAPI) CreatePaymentIntent(ctx context.Context, amountCents int64) (*PaymentIntentResponse, error) {
	body := map[string]int64{"amount": amountCents}
	var resp PaymentIntentResponse
	if err := o.client.Do(ctx, http.MethodPost, "/api/orders/create-payment-intent/", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PaymentIntentResponse tolerates both secret field spellings the backend
// has shipped.
type PaymentIntentResponse struct {
	ClientSecret    string `json:"client_secret"`
	ClientSecretAlt string `json:"clientSecret"`
}

func (r *PaymentIntentResponse) Secret() string {
	if r.ClientSecret != "" {
		return r.ClientSecret
	}
	return r.ClientSecretAlt
}

func (o *OrderAPI) ConfirmPayment(ctx context.Context, paymentIntentID string, payload OrderPayload) (*entity.Order, error) {
	body := map[string]interface{}{
		"payment_intent_id": paymentIntentID,
		"order":             payload,
	}
	var order entity.Order
	if err := o.client.Do(ctx, http.MethodPost, "/api/orders/confirm-payment/", body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (o *OrderAPI) Cancel(ctx context.Context, orderNumber string) (*entity.Order, error) {
	var order entity.Order
	if err := o.client.Do(ctx, http.MethodPut, fmt.Sprintf("/api/orders/%s/cancel/", orderNumber), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (o *OrderAPI) Invoice(ctx context.Context, orderNumber string) (*entity.Invoice, error) {
	var invoice entity.Invoice
	if err := o.client.Do(ctx, http.MethodGet, fmt.Sprintf("/api/orders/%s/invoice/", orderNumber), nil, &invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (o *OrderAPI) ValidateCoupon(ctx context.Context, code string) (*entity.Coupon, error) {
	body := map[string]string{"code": code}
	var coupon entity.Coupon
	if err := o.client.Do(ctx, http.MethodPost, "/api/orders/validate-coupon/", body, &coupon); err != nil {
		return nil, err
	}
	return &coupon, nil
}
