package usecase

import (
	"context"
	"math"
	"sync"

	"mercadillo/internal/api"
	"mercadillo/internal/domain/entity"
	"mercadillo/internal/payment"
	"mercadillo/pkg/errors"
	"mercadillo/pkg/logger"
)

type Step string

const (
	StepSummary      Step = "summary"
	StepShipping     Step = "shipping_details"
	StepPayment      Step = "payment"
	StepConfirmation Step = "confirmation"
)

const (
	MethodCard       = "card"
	MethodOnDelivery = "on_delivery"
)

type ShippingDetails struct {
	Email      string
	FirstName  string
	LastName   string
	Phone      string
	Address    string
	City       string
	State      string
	PostalCode string
	Country    string
	Notes      string
}

func (d ShippingDetails) validate() error {
	required := []struct {
		value, name string
	}{
		{d.Email, "email"},
		{d.FirstName, "first name"},
		{d.LastName, "last name"},
		{d.Phone, "phone"},
		{d.City, "city"},
		{d.State, "state"},
		{d.PostalCode, "postal code"},
		{d.Address, "address"},
	}
	for _, field := range required {
		if field.value == "" {
			return errors.BadRequest(field.name+" is required", nil)
		}
	}
	return nil
}

type Totals struct {
	Subtotal float64
	Shipping float64
	Discount float64
	Total    float64
}

// Checkout walks the linear step machine
// summary -> shipping_details -> payment -> confirmation.
// Only Back moves to the immediately preceding step; nothing skips. For the
// card method, entering payment means create intent -> confirm with the
// processor -> notify the backend, and only a reported "succeeded" status
// advances the machine. Any other status or error keeps it in payment with
// the error set; a charge is never silently retried.
type Checkout struct {
	orders  *api.OrderAPI
	gateway *payment.Gateway
	cart    *CartUseCase
	catalog *Catalog

	freeShippingAbove float64
	shippingFee       float64

	mu          sync.Mutex
	step        Step
	details     ShippingDetails
	method      string
	coupon      *entity.Coupon
	lastErr     error
	orderNumber string
}

func NewCheckout(orders *api.OrderAPI, gateway *payment.Gateway, cart *CartUseCase, catalog *Catalog, freeShippingAbove, shippingFee float64) *Checkout {
	return &Checkout{
		orders:            orders,
		gateway:           gateway,
		cart:              cart,
		catalog:           catalog,
		freeShippingAbove: freeShippingAbove,
		shippingFee:       shippingFee,
		step:              StepSummary,
		method:            MethodCard,
	}
}

func (c *Checkout) Step() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

func (c *Checkout) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

func (c *Checkout) OrderNumber() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.orderNumber
}

// Begin verifies the cart is non-empty before entering the flow.
func (c *Checkout) Begin(ctx context.Context) error {
	cart, err := c.cart.Get(ctx)
	if err != nil {
		return err
	}
	if len(cart.Items) == 0 {
		return errors.BadRequest("cart is empty", nil)
	}
	c.mu.Lock()
	c.step = StepSummary
	c.lastErr = nil
	c.orderNumber = ""
	c.mu.Unlock()
	return nil
}

// ProceedToShipping advances summary -> shipping_details.
func (c *Checkout) ProceedToShipping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step != StepSummary {
		return errors.BadRequest("not at the summary step", nil)
	}
	c.step = StepShipping
	c.lastErr = nil
	return nil
}

// SubmitShipping validates the form and advances to payment.
func (c *Checkout) SubmitShipping(details ShippingDetails) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step != StepShipping {
		return errors.BadRequest("not at the shipping step", nil)
	}
	if err := details.validate(); err != nil {
		c.lastErr = err
		return err
	}
	if details.Country == "" {
		details.Country = "Perú"
	}
	c.details = details
	c.step = StepPayment
	c.lastErr = nil
	return nil
}

// Back steps to the immediately preceding state. The confirmation step is
// terminal: a placed order cannot be un-placed from here.
func (c *Checkout) Back() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.step {
	case StepShipping:
		c.step = StepSummary
	case StepPayment:
		c.step = StepShipping
	default:
		return errors.BadRequest("cannot go back from "+string(c.step), nil)
	}
	c.lastErr = nil
	return nil
}

func (c *Checkout) SetPaymentMethod(method string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.method = method
}

// ApplyCoupon validates the code server-side and keeps it for the order.
func (c *Checkout) ApplyCoupon(ctx context.Context, code string) error {
	coupon, err := c.orders.ValidateCoupon(ctx, code)
	if err != nil {
		return err
	}
	if !coupon.Valid {
		return errors.BadRequest("coupon is not valid", nil)
	}
	c.mu.Lock()
	c.coupon = coupon
	c.mu.Unlock()
	return nil
}

// Totals computes the displayed amounts. Orders at or above the
// free-shipping threshold ship free; everything below pays the flat fee.
// The server recomputes authoritative totals when the order is placed.
func (c *Checkout) Totals() Totals {
	subtotal := c.cart.TotalPrice()

	shipping := c.shippingFee
	if subtotal >= c.freeShippingAbove {
		shipping = 0
	}

	discount := 0.0
	c.mu.Lock()
	if c.coupon != nil && c.coupon.Valid {
		discount = subtotal * c.coupon.DiscountPercent / 100
	}
	c.mu.Unlock()

	return Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Discount: discount,
		Total:    subtotal + shipping - discount,
	}
}

// PayWithCard drives the card path: create the intent against the backend
// (amount in minor units), confirm with the processor, and only on
// "succeeded" notify the backend with the intent id and order payload.
func (c *Checkout) PayWithCard(ctx context.Context, card payment.Card) error {
	c.mu.Lock()
	if c.step != StepPayment {
		c.mu.Unlock()
		return errors.BadRequest("not at the payment step", nil)
	}
	c.method = MethodCard
	c.mu.Unlock()

	amountCents := int64(math.Round(c.Totals().Total * 100))
	if amountCents <= 0 {
		return c.fail(errors.Payment("invalid payment amount", nil))
	}

	intentResp, err := c.orders.CreatePaymentIntent(ctx, amountCents)
	if err != nil {
		return c.fail(err)
	}
	secret := intentResp.Secret()
	if secret == "" {
		return c.fail(errors.Payment("no client secret received", nil))
	}

	intent, err := c.gateway.ConfirmCardPayment(ctx, secret, card)
	if err != nil {
		return c.fail(err)
	}
	if intent.Status != payment.StatusSucceeded {
		return c.fail(errors.Payment("payment not completed, status: "+intent.Status, nil))
	}

	order, err := c.orders.ConfirmPayment(ctx, intent.ID, c.orderPayload())
	if err != nil {
		return c.fail(err)
	}
	return c.complete(ctx, order)
}

// PlaceOrder is the non-card path: the backend creates the order directly.
func (c *Checkout) PlaceOrder(ctx context.Context) error {
	c.mu.Lock()
	if c.step != StepPayment {
		c.mu.Unlock()
		return errors.BadRequest("not at the payment step", nil)
	}
	c.method = MethodOnDelivery
	c.mu.Unlock()

	order, err := c.orders.Create(ctx, c.orderPayload())
	if err != nil {
		return c.fail(err)
	}
	return c.complete(ctx, order)
}

func (c *Checkout) orderPayload() api.OrderPayload {
	c.mu.Lock()
	details := c.details
	method := c.method
	couponCode := ""
	if c.coupon != nil {
		couponCode = c.coupon.Code
	}
	c.mu.Unlock()

	var items []entity.OrderItem
	if cart, ok := c.cart.cached(); ok {
		for _, item := range cart.Items {
			if item.Product == nil {
				continue
			}
			items = append(items, entity.OrderItem{
				ProductID: item.Product.ID,
				Quantity:  item.Quantity,
			})
		}
	}

	return api.OrderPayload{
		FullName:      details.FirstName + " " + details.LastName,
		Email:         details.Email,
		Phone:         details.Phone,
		AddressLine1:  details.Address,
		City:          details.City,
		State:         details.State,
		PostalCode:    details.PostalCode,
		Country:       details.Country,
		OrderNotes:    details.Notes,
		PaymentMethod: method,
		CouponCode:    couponCode,
		Items:         items,
	}
}

// fail records the error and leaves the machine where it is.
func (c *Checkout) fail(err error) error {
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()
	return err
}

// complete advances to confirmation, clears the cart and flags product
// listings for refetch since stock levels just changed.
func (c *Checkout) complete(ctx context.Context, order *entity.Order) error {
	c.mu.Lock()
	c.step = StepConfirmation
	c.lastErr = nil
	c.orderNumber = order.OrderNumber
	c.mu.Unlock()

	if err := c.cart.Clear(ctx); err != nil {
		logger.Warn("failed to clear cart after checkout: %v", err)
	}
	if c.catalog != nil {
		c.catalog.InvalidateProducts()
	}

	logger.Info("order placed: %s", order.OrderNumber)
	return nil
}
