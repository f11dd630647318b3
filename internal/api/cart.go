package api

import (
	"context"
	"fmt"
	"net/http"

	"mercadillo/internal/domain/entity"
)

type CartAPI struct {
	client *Client
}

func NewCartAPI(client *Client) *CartAPI {
	return &CartAPI{client: client}
}

func (c *CartAPI) Get(ctx context.Context) (*entity.Cart, error) {
	var cart entity.Cart
	if err := c.client.Do(ctx, http.MethodGet, "/api/cart/", nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *CartAPI) AddItem(ctx context.Context, productID string, quantity int) error {
	body := map[string]interface{}{
		"product_id": productID,
		"quantity":   quantity,
	}
	return c.client.Do(ctx, http.MethodPost, "/api/cart/items/", body, nil)
}

func (c *CartAPI) UpdateItem(ctx context.Context, itemID string, quantity int) error {
	body := map[string]int{"quantity": quantity}
	return c.client.Do(ctx, http.MethodPatch, fmt.Sprintf("/api/cart/%s/update/", itemID), body, nil)
}

func (c *CartAPI) RemoveItem(ctx context.Context, itemID string) error {
	return c.client.Do(ctx, http.MethodDelete, fmt.Sprintf("/api/cart/%s/remove/", itemID), nil, nil)
}

func (c *CartAPI) Clear(ctx context.Context) error {
	return c.client.Do(ctx, http.MethodDelete, "/api/cart/clear/", nil, nil)
}

func (c *CartAPI) GetWishlist(ctx context.Context) (*entity.Wishlist, error) {
	var items []entity.WishlistItem
	if _, err := c.client.getList(ctx, "/api/cart/wishlist/", &items); err != nil {
		return nil, err
	}
	return &entity.Wishlist{Items: items}, nil
}

func (c *CartAPI) AddToWishlist(ctx context.Context, productID string) error {
	body := map[string]string{"product_id": productID}
	return c.client.Do(ctx, http.MethodPost, "/api/cart/wishlist/", body, nil)
}

func (c *CartAPI) RemoveWishlistItem(ctx context.Context, itemID string) error {
	return c.client.Do(ctx, http.MethodDelete, fmt.Sprintf("/api/cart/wishlist/%s/", itemID), nil, nil)
}

// MoveWishlistItemToCart is a single server-side operation; the client just
// refreshes both collections afterwards.
func (c *CartAPI) MoveWishlistItemToCart(ctx context.Context, itemID string) error {
	return c.client.Do(ctx, http.MethodPost, fmt.Sprintf("/api/cart/wishlist/%s/move-to-cart/", itemID), nil, nil)
}
