package usecase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mercadillo/internal/api"
	"mercadillo/internal/cache"
	"mercadillo/internal/domain/entity"
	"mercadillo/internal/payment"
	"mercadillo/internal/storage"
	"mercadillo/pkg/errors"
)

// checkoutFixture wires a checkout against a fake backend and a fake card
// processor. The processor's answer is controlled per test.
type checkoutFixture struct {
	checkout *Checkout
	cart     *fakeCartServer
	store    *cache.Store

	intentStatus  string
	confirmCalls  int32
	backendOrders int32
}

func newCheckoutFixture(t *testing.T) (*checkoutFixture, func()) {
	t.Helper()
	f := &checkoutFixture{cart: &fakeCartServer{}, intentStatus: payment.StatusSucceeded}

	backendMux := http.NewServeMux()
	backendMux.Handle("/api/cart/", f.cart.handler())
	backendMux.HandleFunc("/api/orders/create-payment-intent/", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Amount int64 `json:"amount"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		json.NewEncoder(w).Encode(map[string]string{"client_secret": "pi_test_secret_abc"})
	})
	backendMux.HandleFunc("/api/orders/confirm-payment/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.confirmCalls, 1)
		json.NewEncoder(w).Encode(entity.Order{OrderNumber: "ORD-1001", Status: entity.OrderConfirmed})
	})
	backendMux.HandleFunc("/api/orders/validate-coupon/", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Code string `json:"code"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		json.NewEncoder(w).Encode(entity.Coupon{Code: body.Code, DiscountPercent: 10, Valid: body.Code == "SAVE10"})
	})
	backendMux.HandleFunc("/api/orders/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			atomic.AddInt32(&f.backendOrders, 1)
			json.NewEncoder(w).Encode(entity.Order{OrderNumber: "ORD-2002", Status: entity.OrderPending})
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})
	backend := httptest.NewServer(backendMux)

	processor := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payment_intents/pi_test/confirm", r.URL.Path)
		json.NewEncoder(w).Encode(payment.Intent{ID: "pi_test", Status: f.intentStatus})
	}))

	client := api.NewClient(backend.URL, nil, 0)
	f.store = cache.New(5*time.Minute, 10*time.Minute)
	cartUC := NewCartUseCase(api.NewCartAPI(client), f.store, storage.NewMemStore())
	catalog := NewCatalog(api.NewProductAPI(client), f.store, time.Hour)
	gateway := payment.NewGateway(processor.URL, "pk_test")
	f.checkout = NewCheckout(api.NewOrderAPI(client), gateway, cartUC, catalog, 1000, 10)

	seed := func() {
		ctx := context.Background()
		require.NoError(t, cartUC.AddItem(ctx, "p1", 2))
		_, err := cartUC.Get(ctx)
		require.NoError(t, err)
	}
	seed()

	return f, func() {
		backend.Close()
		processor.Close()
	}
}

func advanceToPayment(t *testing.T, c *Checkout) {
	t.Helper()
	require.NoError(t, c.Begin(context.Background()))
	require.NoError(t, c.ProceedToShipping())
	require.NoError(t, c.SubmitShipping(ShippingDetails{
		Email:      "ana@example.com",
		FirstName:  "Ana",
		LastName:   "Quispe",
		Phone:      "999888777",
		Address:    "Av. Siempre Viva 123",
		City:       "Lima",
		State:      "Lima",
		PostalCode: "15001",
	}))
	require.Equal(t, StepPayment, c.Step())
}

func TestCheckoutStepsAreLinear(t *testing.T) {
	f, done := newCheckoutFixture(t)
	defer done()
	c := f.checkout

	require.NoError(t, c.Begin(context.Background()))
	assert.Equal(t, StepSummary, c.Step())

	// No skipping ahead.
	err := c.SubmitShipping(ShippingDetails{})
	assert.Error(t, err)
	assert.Equal(t, StepSummary, c.Step())

	require.NoError(t, c.ProceedToShipping())
	assert.Equal(t, StepShipping, c.Step())

	require.NoError(t, c.Back())
	assert.Equal(t, StepSummary, c.Step())

	err = c.Back()
	assert.Error(t, err, "summary is the first step")
}

func TestSubmitShippingValidatesRequiredFields(t *testing.T) {
	f, done := newCheckoutFixture(t)
	defer done()
	c := f.checkout

	require.NoError(t, c.Begin(context.Background()))
	require.NoError(t, c.ProceedToShipping())

	err := c.SubmitShipping(ShippingDetails{Email: "ana@example.com"})
	require.Error(t, err)
	assert.Equal(t, StepShipping, c.Step(), "invalid form must not advance")
	assert.Error(t, c.Err())
}

func TestSubmitShippingDefaultsCountry(t *testing.T) {
	f, done := newCheckoutFixture(t)
	defer done()
	c := f.checkout

	advanceToPayment(t, c)
	payload := c.orderPayload()
	assert.Equal(t, "Perú", payload.Country)
	assert.Equal(t, "Ana Quispe", payload.FullName)
	require.Len(t, payload.Items, 1)
	assert.Equal(t, "p1", payload.Items[0].ProductID)
	assert.Equal(t, 2, payload.Items[0].Quantity)
}

func TestTotalsShippingThreshold(t *testing.T) {
	f, done := newCheckoutFixture(t)
	defer done()

	// Seeded cart: 2 x 25.00.
	totals := f.checkout.Totals()
	assert.InDelta(t, 50.0, totals.Subtotal, 0.001)
	assert.InDelta(t, 10.0, totals.Shipping, 0.001)
	assert.InDelta(t, 60.0, totals.Total, 0.001)

	// At the threshold shipping is free.
	f.store.Put(cache.NewKey("cart", nil), &entity.Cart{
		Items: []entity.CartItem{{ID: "a", Quantity: 1, UnitPrice: 1000, Product: &entity.Product{Price: 1000}}},
	})
	totals = f.checkout.Totals()
	assert.InDelta(t, 1000.0, totals.Subtotal, 0.001)
	assert.InDelta(t, 0.0, totals.Shipping, 0.001)
	assert.InDelta(t, 1000.0, totals.Total, 0.001)

	// Just below it pays the flat fee.
	f.store.Put(cache.NewKey("cart", nil), &entity.Cart{
		Items: []entity.CartItem{{ID: "a", Quantity: 1, UnitPrice: 999.99, Product: &entity.Product{Price: 999.99}}},
	})
	totals = f.checkout.Totals()
	assert.InDelta(t, 10.0, totals.Shipping, 0.001)
	assert.InDelta(t, 1009.99, totals.Total, 0.001)
}

func TestApplyCouponDiscountsTotals(t *testing.T) {
	f, done := newCheckoutFixture(t)
	defer done()
	c := f.checkout

	require.NoError(t, c.ApplyCoupon(context.Background(), "SAVE10"))
	totals := c.Totals()
	assert.InDelta(t, 5.0, totals.Discount, 0.001)
	assert.InDelta(t, 55.0, totals.Total, 0.001)

	err := c.ApplyCoupon(context.Background(), "NOPE")
	assert.Error(t, err)
}

func TestPayWithCardSucceededAdvances(t *testing.T) {
	f, done := newCheckoutFixture(t)
	defer done()
	c := f.checkout

	advanceToPayment(t, c)
	err := c.PayWithCard(context.Background(), payment.Card{Number: "4242424242424242", ExpMonth: 12, ExpYear: 2030, CVC: "123"})
	require.NoError(t, err)

	assert.Equal(t, StepConfirmation, c.Step())
	assert.Equal(t, "ORD-1001", c.OrderNumber())
	assert.NoError(t, c.Err())
	assert.EqualValues(t, 1, atomic.LoadInt32(&f.confirmCalls))
}

func TestPayWithCardNonSucceededStaysInPayment(t *testing.T) {
	f, done := newCheckoutFixture(t)
	defer done()
	c := f.checkout
	f.intentStatus = "requires_action"

	advanceToPayment(t, c)
	err := c.PayWithCard(context.Background(), payment.Card{Number: "4242424242424242", ExpMonth: 12, ExpYear: 2030, CVC: "123"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "PAYMENT_ERROR"))

	assert.Equal(t, StepPayment, c.Step(), "anything but succeeded must not advance")
	assert.Error(t, c.Err())
	assert.Empty(t, c.OrderNumber())
	assert.EqualValues(t, 0, atomic.LoadInt32(&f.confirmCalls), "backend must not be told about an unfinished charge")
}

func TestPayWithCardRequiresPaymentStep(t *testing.T) {
	f, done := newCheckoutFixture(t)
	defer done()

	err := f.checkout.PayWithCard(context.Background(), payment.Card{Number: "4242424242424242"})
	assert.Error(t, err)
}

func TestPlaceOrderOnDelivery(t *testing.T) {
	f, done := newCheckoutFixture(t)
	defer done()
	c := f.checkout

	advanceToPayment(t, c)
	c.SetPaymentMethod(MethodOnDelivery)
	require.NoError(t, c.PlaceOrder(context.Background()))

	assert.Equal(t, StepConfirmation, c.Step())
	assert.Equal(t, "ORD-2002", c.OrderNumber())
	assert.EqualValues(t, 1, atomic.LoadInt32(&f.backendOrders))
}

func TestBeginRejectsEmptyCart(t *testing.T) {
	f, done := newCheckoutFixture(t)
	defer done()

	require.NoError(t, f.checkout.cart.Clear(context.Background()))
	err := f.checkout.Begin(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}
