package api

import (
	"context"
	"fmt"
	"net/http"

	"mercadillo/internal/domain/entity"
)

type ReviewAPI struct {
	client *Client
}

func NewReviewAPI(client *Client) *ReviewAPI {
	return &ReviewAPI{client: client}
}

func (r *ReviewAPI) ProductReviews(ctx context.Context, slug string) ([]entity.Review, error) {
	var reviews []entity.Review
	_, err := r.client.getList(ctx, fmt.Sprintf("/api/products/%s/reviews/", slug), &reviews)
	return reviews, err
}

type ReviewInput struct {
	ProductID string `json:"product_id"`
	Rating    int    `json:"rating"`
	Title     string `json:"title"`
	Comment   string `json:"comment"`
}

func (r *ReviewAPI) Create(ctx context.Context, input ReviewInput) (*entity.Review, error) {
	var review entity.Review
	if err := r.client.Do(ctx, http.MethodPost, "/api/products/reviews/", input, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *ReviewAPI) MyReviews(ctx context.Context) ([]entity.Review, error) {
	var reviews []entity.Review
	_, err := r.client.getList(ctx, "/api/products/reviews/my_reviews/", &reviews)
	return reviews, err
}

func (r *ReviewAPI) Update(ctx context.Context, id string, fields map[string]interface{}) (*entity.Review, error) {
	var review entity.Review
	if err := r.client.Do(ctx, http.MethodPatch, fmt.Sprintf("/api/products/reviews/%s/", id), fields, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *ReviewAPI) Delete(ctx context.Context, id string) error {
	return r.client.Do(ctx, http.MethodDelete, fmt.Sprintf("/api/products/reviews/%s/", id), nil, nil)
}
