package usecase

import (
	"context"
	"fmt"

	"mercadillo/internal/api"
	"mercadillo/internal/cache"
	"mercadillo/internal/domain/entity"
	"mercadillo/pkg/errors"
)

var ordersKey = cache.NewKey("orders", nil)

// Orders covers order history: list, detail, cancellation, invoices. Orders
// are immutable once placed except for server-enforced status transitions;
// the client only refuses transitions its own table already rules out.
type Orders struct {
	orderAPI *api.OrderAPI
	cache    *cache.Store
}

func NewOrders(orderAPI *api.OrderAPI, store *cache.Store) *Orders {
	return &Orders{orderAPI: orderAPI, cache: store}
}

func (o *Orders) List(ctx context.Context) ([]entity.Order, error) {
	value, err := o.cache.Get(ctx, ordersKey, func(ctx context.Context) (interface{}, error) {
		return o.orderAPI.List(ctx)
	})
	if err != nil {
		return nil, err
	}
	return value.([]entity.Order), nil
}

func (o *Orders) Get(ctx context.Context, orderNumber string) (*entity.Order, error) {
	key := cache.NewKey("order", map[string]string{"number": orderNumber})
	value, err := o.cache.Get(ctx, key, func(ctx context.Context) (interface{}, error) {
		return o.orderAPI.Get(ctx, orderNumber)
	})
	if err != nil {
		return nil, err
	}
	return value.(*entity.Order), nil
}

func (o *Orders) Cancel(ctx context.Context, orderNumber string) (*entity.Order, error) {
	current, err := o.Get(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if !current.Status.Cancellable() {
		return nil, errors.BadRequest(fmt.Sprintf("order in status %q cannot be cancelled", current.Status), nil)
	}

	cancelled, err := o.orderAPI.Cancel(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	o.cache.Invalidate(ordersKey)
	o.cache.Invalidate(cache.NewKey("order", map[string]string{"number": orderNumber}))
	return cancelled, nil
}

func (o *Orders) Invoice(ctx context.Context, orderNumber string) (*entity.Invoice, error) {
	return o.orderAPI.Invoice(ctx, orderNumber)
}
