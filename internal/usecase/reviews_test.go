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
	"mercadillo/pkg/errors"
)

func TestCreateReviewRejectsOutOfRangeRating(t *testing.T) {
	reviews := NewReviews(nil, cache.New(time.Hour, time.Hour))

	for _, rating := range []int{0, -1, 6} {
		_, err := reviews.Create(context.Background(), "wool-rug", api.ReviewInput{Rating: rating})
		require.Error(t, err)
		assert.True(t, errors.Is(err, "BAD_REQUEST"))
	}
}

func TestCreateReviewInvalidatesProductAndLists(t *testing.T) {
	var listCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/products/wool-rug/reviews/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&listCalls, 1)
		json.NewEncoder(w).Encode([]entity.Review{{ID: "r1", Rating: 5}})
	})
	mux.HandleFunc("/api/products/reviews/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(entity.Review{ID: "r2", Rating: 4})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := api.NewClient(server.URL, nil, 0)
	reviews := NewReviews(api.NewReviewAPI(client), cache.New(time.Hour, time.Hour))

	ctx := context.Background()
	_, err := reviews.ForProduct(ctx, "wool-rug")
	require.NoError(t, err)
	_, err = reviews.ForProduct(ctx, "wool-rug")
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&listCalls))

	_, err = reviews.Create(ctx, "wool-rug", api.ReviewInput{Rating: 4, Comment: "solid"})
	require.NoError(t, err)

	_, err = reviews.ForProduct(ctx, "wool-rug")
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&listCalls), "a new review must force the list to refetch")
}
