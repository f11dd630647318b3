package usecase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mercadillo/internal/api"
	"mercadillo/internal/cache"
	"mercadillo/internal/domain/entity"
	"mercadillo/internal/storage"
)

// fakeCartServer holds a mutable cart behind the same endpoints the real
// backend exposes, so use cases run against honest HTTP round trips.
type fakeCartServer struct {
	mu     sync.Mutex
	cart   entity.Cart
	nextID int

	// failPatch makes quantity updates answer 500, for rollback tests.
	failPatch bool
	// holdPatch, when non-nil, blocks the PATCH handler until closed.
	holdPatch chan struct{}
}

func (f *fakeCartServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/cart/", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/cart/":
			f.cart.Recalculate()
			json.NewEncoder(w).Encode(f.cart)
		case r.Method == http.MethodPost && r.URL.Path == "/api/cart/items/":
			var body struct {
				ProductID string `json:"product_id"`
				Quantity  int    `json:"quantity"`
			}
			json.NewDecoder(r.Body).Decode(&body)
			f.nextID++
			price := 25.0
			f.cart.Items = append(f.cart.Items, entity.CartItem{
				ID:        itemID(f.nextID),
				Product:   &entity.Product{ID: body.ProductID, Name: "Item " + body.ProductID, Price: price, Stock: 10},
				Quantity:  body.Quantity,
				UnitPrice: price,
				Subtotal:  price * float64(body.Quantity),
			})
			w.WriteHeader(http.StatusCreated)
		case r.Method == http.MethodPatch:
			if f.holdPatch != nil {
				hold := f.holdPatch
				f.mu.Unlock()
				<-hold
				f.mu.Lock()
			}
			if f.failPatch {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"detail": "boom"}`))
				return
			}
			var body struct {
				Quantity int `json:"quantity"`
			}
			json.NewDecoder(r.Body).Decode(&body)
			id := pathSegment(r.URL.Path, 2)
			for i := range f.cart.Items {
				if f.cart.Items[i].ID == id {
					f.cart.Items[i].Quantity = body.Quantity
					f.cart.Items[i].Subtotal = f.cart.Items[i].UnitPrice * float64(body.Quantity)
				}
			}
			w.WriteHeader(http.StatusNoContent)
		case r.Method == http.MethodDelete && r.URL.Path == "/api/cart/clear/":
			f.cart.Items = nil
			w.WriteHeader(http.StatusNoContent)
		case r.Method == http.MethodDelete:
			id := pathSegment(r.URL.Path, 2)
			kept := f.cart.Items[:0]
			for _, item := range f.cart.Items {
				if item.ID != id {
					kept = append(kept, item)
				}
			}
			f.cart.Items = kept
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"detail": "Not found."}`))
		}
	})
	return mux
}

func itemID(n int) string {
	return "item-" + string(rune('0'+n))
}

func pathSegment(path string, n int) string {
	parts := []string{}
	seg := ""
	for _, r := range path {
		if r == '/' {
			if seg != "" {
				parts = append(parts, seg)
			}
			seg = ""
			continue
		}
		seg += string(r)
	}
	if seg != "" {
		parts = append(parts, seg)
	}
	if n < len(parts) {
		return parts[n]
	}
	return ""
}

func newCartFixture(t *testing.T, fake *fakeCartServer) (*CartUseCase, *cache.Store, func()) {
	t.Helper()
	server := httptest.NewServer(fake.handler())
	client := api.NewClient(server.URL, nil, 0)
	store := cache.New(5*time.Minute, 10*time.Minute)
	uc := NewCartUseCase(api.NewCartAPI(client), store, storage.NewMemStore())
	return uc, store, server.Close
}

func TestCartAddThenGet(t *testing.T) {
	fake := &fakeCartServer{}
	uc, _, done := newCartFixture(t, fake)
	defer done()

	ctx := context.Background()
	require.NoError(t, uc.AddItem(ctx, "p1", 2))

	cart, err := uc.Get(ctx)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.InDelta(t, 50.0, cart.TotalPrice, 0.001)
	assert.Equal(t, 2, uc.Count())
}

func TestUpdateQuantityPatchesCacheBeforeResponse(t *testing.T) {
	fake := &fakeCartServer{holdPatch: make(chan struct{})}
	uc, store, done := newCartFixture(t, fake)
	defer done()

	ctx := context.Background()
	require.NoError(t, uc.AddItem(ctx, "p1", 1))
	_, err := uc.Get(ctx)
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() { errCh <- uc.UpdateItemQuantity(ctx, "item-1", 4) }()

	// While the request is still held by the server, the cached cart must
	// already show the new quantity and recomputed totals.
	require.Eventually(t, func() bool {
		value, ok := store.Peek(cache.NewKey("cart", nil))
		if !ok {
			return false
		}
		cart := value.(*entity.Cart)
		return len(cart.Items) == 1 && cart.Items[0].Quantity == 4
	}, time.Second, 5*time.Millisecond)

	value, _ := store.Peek(cache.NewKey("cart", nil))
	cart := value.(*entity.Cart)
	assert.InDelta(t, 100.0, cart.Items[0].Subtotal, 0.001)
	assert.InDelta(t, 100.0, cart.TotalPrice, 0.001)
	assert.Equal(t, 4, cart.TotalItems)

	close(fake.holdPatch)
	require.NoError(t, <-errCh)
}

func TestUpdateQuantityRollsBackOnFailure(t *testing.T) {
	fake := &fakeCartServer{failPatch: true}
	uc, store, done := newCartFixture(t, fake)
	defer done()

	ctx := context.Background()
	require.NoError(t, uc.AddItem(ctx, "p1", 2))
	before, err := uc.Get(ctx)
	require.NoError(t, err)

	err = uc.UpdateItemQuantity(ctx, "item-1", 7)
	require.Error(t, err)

	value, ok := store.Peek(cache.NewKey("cart", nil))
	require.True(t, ok)
	after := value.(*entity.Cart)
	assert.Equal(t, before, after, "failed mutation must restore the snapshot verbatim")
}

func TestRemoveItemRoundTrip(t *testing.T) {
	fake := &fakeCartServer{}
	uc, _, done := newCartFixture(t, fake)
	defer done()

	ctx := context.Background()
	require.NoError(t, uc.AddItem(ctx, "p1", 1))
	require.NoError(t, uc.AddItem(ctx, "p2", 3))
	_, err := uc.Get(ctx)
	require.NoError(t, err)

	require.NoError(t, uc.RemoveItem(ctx, "item-1"))

	cart, err := uc.Get(ctx)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "item-2", cart.Items[0].ID)
	assert.Equal(t, 3, uc.Count())
}

func TestAddThenRemoveLeavesTotalsUnchanged(t *testing.T) {
	fake := &fakeCartServer{}
	uc, _, done := newCartFixture(t, fake)
	defer done()

	ctx := context.Background()
	require.NoError(t, uc.AddItem(ctx, "p1", 2))
	_, err := uc.Get(ctx)
	require.NoError(t, err)
	countBefore := uc.Count()
	totalBefore := uc.TotalPrice()

	require.NoError(t, uc.AddItem(ctx, "p2", 5))
	_, err = uc.Get(ctx)
	require.NoError(t, err)
	require.NoError(t, uc.RemoveItem(ctx, "item-2"))
	_, err = uc.Get(ctx)
	require.NoError(t, err)

	assert.Equal(t, countBefore, uc.Count())
	assert.InDelta(t, totalBefore, uc.TotalPrice(), 0.001)
}

func TestClearEmptiesCart(t *testing.T) {
	fake := &fakeCartServer{}
	uc, _, done := newCartFixture(t, fake)
	defer done()

	ctx := context.Background()
	require.NoError(t, uc.AddItem(ctx, "p1", 2))
	_, err := uc.Get(ctx)
	require.NoError(t, err)

	require.NoError(t, uc.Clear(ctx))
	cart, err := uc.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0, uc.Count())
	assert.InDelta(t, 0, uc.TotalPrice(), 0.001)
}

func TestTotalPriceUsesDiscountedPrice(t *testing.T) {
	store := cache.New(time.Hour, time.Hour)
	uc := NewCartUseCase(nil, store, storage.NewMemStore())

	store.Put(cache.NewKey("cart", nil), &entity.Cart{
		Items: []entity.CartItem{
			{ID: "a", Quantity: 2, UnitPrice: 100, Product: &entity.Product{Price: 100, FinalPrice: 80}},
		},
	})

	assert.InDelta(t, 160.0, uc.TotalPrice(), 0.001)
}
