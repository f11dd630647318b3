package usecase

import (
	"context"

	"mercadillo/internal/api"
	"mercadillo/internal/cache"
	"mercadillo/internal/domain/entity"
	"mercadillo/pkg/errors"
)

var myReviewsKey = cache.NewKey("myReviews", nil)

// Reviews: one review per user per product, editable only by its author
// (server-enforced; the client surfaces the rejection).
type Reviews struct {
	reviewAPI *api.ReviewAPI
	cache     *cache.Store
}

func NewReviews(reviewAPI *api.ReviewAPI, store *cache.Store) *Reviews {
	return &Reviews{reviewAPI: reviewAPI, cache: store}
}

func (r *Reviews) ForProduct(ctx context.Context, slug string) ([]entity.Review, error) {
	key := cache.NewKey("reviews", map[string]string{"slug": slug})
	value, err := r.cache.Get(ctx, key, func(ctx context.Context) (interface{}, error) {
		return r.reviewAPI.ProductReviews(ctx, slug)
	})
	if err != nil {
		return nil, err
	}
	return value.([]entity.Review), nil
}

func (r *Reviews) Mine(ctx context.Context) ([]entity.Review, error) {
	value, err := r.cache.Get(ctx, myReviewsKey, func(ctx context.Context) (interface{}, error) {
		return r.reviewAPI.MyReviews(ctx)
	})
	if err != nil {
		return nil, err
	}
	return value.([]entity.Review), nil
}

// Create posts a review and flags the product's reviews, the product detail
// (its rating aggregate moved) and the user's own list for refetch.
func (r *Reviews) Create(ctx context.Context, productSlug string, input api.ReviewInput) (*entity.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, errors.BadRequest("rating must be between 1 and 5", nil)
	}

	review, err := r.reviewAPI.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	r.cache.Invalidate(cache.NewKey("reviews", map[string]string{"slug": productSlug}))
	r.cache.Invalidate(cache.NewKey("product", map[string]string{"slug": productSlug}))
	r.cache.Invalidate(myReviewsKey)
	return review, nil
}

func (r *Reviews) Update(ctx context.Context, id string, fields map[string]interface{}) (*entity.Review, error) {
	review, err := r.reviewAPI.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	r.cache.InvalidateResource("reviews")
	r.cache.Invalidate(myReviewsKey)
	return review, nil
}

func (r *Reviews) Delete(ctx context.Context, id string) error {
	if err := r.reviewAPI.Delete(ctx, id); err != nil {
		return err
	}
	r.cache.InvalidateResource("reviews")
	r.cache.Invalidate(myReviewsKey)
	return nil
}
