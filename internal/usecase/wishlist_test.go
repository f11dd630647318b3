package usecase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mercadillo/internal/api"
	"mercadillo/internal/cache"
	"mercadillo/internal/domain/entity"
	"mercadillo/internal/storage"
)

func newWishlistFixture(t *testing.T, failDelete bool) (*CartUseCase, *cache.Store, func()) {
	t.Helper()
	items := []entity.WishlistItem{
		{ID: "w1", ProductID: "p1"},
		{ID: "w2", ProductID: "p2"},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/cart/wishlist/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(items)
		case http.MethodDelete:
			if failDelete {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"detail": "boom"}`))
				return
			}
			id := pathSegment(r.URL.Path, 3)
			kept := items[:0]
			for _, item := range items {
				if item.ID != id {
					kept = append(kept, item)
				}
			}
			items = kept
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"detail": "Not found."}`))
		}
	})
	server := httptest.NewServer(mux)

	client := api.NewClient(server.URL, nil, 0)
	store := cache.New(time.Hour, time.Hour)
	uc := NewCartUseCase(api.NewCartAPI(client), store, storage.NewMemStore())
	return uc, store, server.Close
}

func TestWishlistRemoveRoundTrip(t *testing.T) {
	uc, _, done := newWishlistFixture(t, false)
	defer done()

	ctx := context.Background()
	wishlist, err := uc.Wishlist(ctx)
	require.NoError(t, err)
	require.Len(t, wishlist.Items, 2)
	assert.True(t, wishlist.Contains("p1"))

	require.NoError(t, uc.RemoveWishlistItem(ctx, "w1"))

	wishlist, err = uc.Wishlist(ctx)
	require.NoError(t, err)
	require.Len(t, wishlist.Items, 1)
	assert.False(t, wishlist.Contains("p1"))
	assert.True(t, wishlist.Contains("p2"))
}

func TestWishlistRemoveRollsBackOnFailure(t *testing.T) {
	uc, store, done := newWishlistFixture(t, true)
	defer done()

	ctx := context.Background()
	before, err := uc.Wishlist(ctx)
	require.NoError(t, err)
	require.Len(t, before.Items, 2)

	err = uc.RemoveWishlistItem(ctx, "w1")
	require.Error(t, err)

	value, ok := store.Peek(cache.NewKey("wishlist", nil))
	require.True(t, ok)
	after := value.(*entity.Wishlist)
	assert.Equal(t, before, after, "failed removal must restore the snapshot")
}
