package entity

import (
	"time"
)

type WishlistItem struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	Product   *Product  `json:"product,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Wishlist struct {
	Items []WishlistItem `json:"items"`
}

func (w *Wishlist) Clone() *Wishlist {
	if w == nil {
		return nil
	}
	out := &Wishlist{Items: make([]WishlistItem, len(w.Items))}
	for i, item := range w.Items {
		out.Items[i] = item
		if item.Product != nil {
			p := *item.Product
			out.Items[i].Product = &p
		}
	}
	return out
}

func (w *Wishlist) Contains(productID string) bool {
	for _, item := range w.Items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}
