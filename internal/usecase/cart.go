package usecase

import (
	"context"

	"mercadillo/internal/api"
	"mercadillo/internal/cache"
	"mercadillo/internal/domain/entity"
	"mercadillo/internal/storage"
	"mercadillo/pkg/logger"
)

var (
	cartKey     = cache.NewKey("cart", nil)
	wishlistKey = cache.NewKey("wishlist", nil)
)

// CartUseCase keeps the local cart/wishlist projection in sync with the
// server. Mutations on the cached cart are optimistic: patch the cache
// first, then send the request, then invalidate on success so server-only
// fields (tax, coupons) reconcile on the next read, or roll the snapshot
// back verbatim on failure. The server owns the truth throughout.
type CartUseCase struct {
	cartAPI *api.CartAPI
	cache   *cache.Store
	local   *storage.LocalStore
}

func NewCartUseCase(cartAPI *api.CartAPI, store *cache.Store, local *storage.LocalStore) *CartUseCase {
	return &CartUseCase{cartAPI: cartAPI, cache: store, local: local}
}

// storedCartItem is the denormalized cart snapshot kept in local storage,
// one entry per line item.
type storedCartItem struct {
	ProductID string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Slug      string  `json:"slug"`
	Category  string  `json:"category,omitempty"`
	Stock     int     `json:"stock"`
}

func (u *CartUseCase) Get(ctx context.Context) (*entity.Cart, error) {
	value, err := u.cache.Get(ctx, cartKey, func(ctx context.Context) (interface{}, error) {
		cart, err := u.cartAPI.Get(ctx)
		if err != nil {
			return nil, err
		}
		u.persistSnapshot(cart)
		return cart, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*entity.Cart), nil
}

// persistSnapshot mirrors the server cart into durable local storage in the
// denormalized per-item shape.
func (u *CartUseCase) persistSnapshot(cart *entity.Cart) {
	items := make([]storedCartItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		stored := storedCartItem{
			Quantity: item.Quantity,
			Price:    item.UnitPrice,
		}
		if item.Product != nil {
			stored.ProductID = item.Product.ID
			stored.Name = item.Product.Name
			stored.Price = item.Product.EffectivePrice()
			stored.Slug = item.Product.Slug
			stored.Stock = item.Product.Stock
			if item.Product.Category != nil {
				stored.Category = item.Product.Category.Name
			}
		}
		items = append(items, stored)
	}
	if err := u.local.Set(storage.KeyCart, items); err != nil {
		logger.Warn("failed to persist cart snapshot: %v", err)
	}
}

// AddItem has no optimistic patch: the server assigns the line item id and
// price, so the client just invalidates and refetches.
func (u *CartUseCase) AddItem(ctx context.Context, productID string, quantity int) error {
	if err := u.cartAPI.AddItem(ctx, productID, quantity); err != nil {
		return err
	}
	u.cache.Invalidate(cartKey)
	return nil
}

// UpdateItemQuantity patches the cached cart synchronously (line subtotal =
// unit price x quantity, aggregates recomputed), then issues the request.
func (u *CartUseCase) UpdateItemQuantity(ctx context.Context, itemID string, quantity int) error {
	snapshot, patched := u.cache.Mutate(cartKey, func(old interface{}) interface{} {
		cart, ok := old.(*entity.Cart)
		if !ok || cart == nil {
			return old
		}
		next := cart.Clone()
		for i := range next.Items {
			if next.Items[i].ID == itemID {
				next.Items[i].Quantity = quantity
				next.Items[i].Subtotal = next.Items[i].UnitPrice * float64(quantity)
			}
		}
		next.Recalculate()
		return next
	})

	if err := u.cartAPI.UpdateItem(ctx, itemID, quantity); err != nil {
		if patched {
			u.cache.Restore(cartKey, snapshot)
		}
		return err
	}
	u.cache.Invalidate(cartKey)
	return nil
}

func (u *CartUseCase) RemoveItem(ctx context.Context, itemID string) error {
	snapshot, patched := u.cache.Mutate(cartKey, func(old interface{}) interface{} {
		cart, ok := old.(*entity.Cart)
		if !ok || cart == nil {
			return old
		}
		next := cart.Clone()
		items := next.Items[:0]
		for _, item := range next.Items {
			if item.ID != itemID {
				items = append(items, item)
			}
		}
		next.Items = items
		next.Recalculate()
		return next
	})

	if err := u.cartAPI.RemoveItem(ctx, itemID); err != nil {
		if patched {
			u.cache.Restore(cartKey, snapshot)
		}
		return err
	}
	u.cache.Invalidate(cartKey)
	return nil
}

func (u *CartUseCase) Clear(ctx context.Context) error {
	snapshot, patched := u.cache.Mutate(cartKey, func(old interface{}) interface{} {
		cart, ok := old.(*entity.Cart)
		if !ok || cart == nil {
			return old
		}
		next := cart.Clone()
		next.Items = nil
		next.Recalculate()
		return next
	})

	if err := u.cartAPI.Clear(ctx); err != nil {
		if patched {
			u.cache.Restore(cartKey, snapshot)
		}
		return err
	}
	u.cache.Invalidate(cartKey)
	return nil
}

// Count re-derives the cart badge count from the cached cart.
func (u *CartUseCase) Count() int {
	cart, ok := u.cached()
	if !ok {
		return 0
	}
	count := 0
	for _, item := range cart.Items {
		count += item.Quantity
	}
	return count
}

// TotalPrice re-derives the displayed total from the cached cart, using the
// discounted price when the product carries one.
func (u *CartUseCase) TotalPrice() float64 {
	cart, ok := u.cached()
	if !ok {
		return 0
	}
	total := 0.0
	for _, item := range cart.Items {
		price := item.UnitPrice
		if item.Product != nil {
			price = item.Product.EffectivePrice()
		}
		total += price * float64(item.Quantity)
	}
	return total
}

func (u *CartUseCase) cached() (*entity.Cart, bool) {
	value, ok := u.cache.Peek(cartKey)
	if !ok {
		return nil, false
	}
	cart, ok := value.(*entity.Cart)
	return cart, ok && cart != nil
}

func (u *CartUseCase) Wishlist(ctx context.Context) (*entity.Wishlist, error) {
	value, err := u.cache.Get(ctx, wishlistKey, func(ctx context.Context) (interface{}, error) {
		return u.cartAPI.GetWishlist(ctx)
	})
	if err != nil {
		return nil, err
	}
	return value.(*entity.Wishlist), nil
}

func (u *CartUseCase) AddToWishlist(ctx context.Context, productID string) error {
	if err := u.cartAPI.AddToWishlist(ctx, productID); err != nil {
		return err
	}
	u.cache.Invalidate(wishlistKey)
	return nil
}

func (u *CartUseCase) RemoveWishlistItem(ctx context.Context, itemID string) error {
	snapshot, patched := u.cache.Mutate(wishlistKey, func(old interface{}) interface{} {
		wishlist, ok := old.(*entity.Wishlist)
		if !ok || wishlist == nil {
			return old
		}
		next := wishlist.Clone()
		items := next.Items[:0]
		for _, item := range next.Items {
			if item.ID != itemID {
				items = append(items, item)
			}
		}
		next.Items = items
		return next
	})

	if err := u.cartAPI.RemoveWishlistItem(ctx, itemID); err != nil {
		if patched {
			u.cache.Restore(wishlistKey, snapshot)
		}
		return err
	}
	u.cache.Invalidate(wishlistKey)
	return nil
}

// MoveWishlistItemToCart is one server-side operation; both collections are
// refreshed afterwards.
func (u *CartUseCase) MoveWishlistItemToCart(ctx context.Context, itemID string) error {
	if err := u.cartAPI.MoveWishlistItemToCart(ctx, itemID); err != nil {
		return err
	}
	u.cache.Invalidate(cartKey)
	u.cache.Invalidate(wishlistKey)
	return nil
}
