package usecase

import (
	"context"
	"time"

	"mercadillo/internal/api"
	"mercadillo/internal/cache"
	"mercadillo/internal/domain/entity"
	"mercadillo/pkg/logger"
)

// ProductList pairs a page of products with the envelope's total count.
type ProductList struct {
	Products []entity.Product
	Total    int
}

// Catalog wraps every product/taxonomy read in the cache. Product listings
// follow the default staleness window; categories, brands and materials
// barely change and get a longer one.
type Catalog struct {
	productAPI    *api.ProductAPI
	cache         *cache.Store
	taxonomyStale time.Duration
}

func NewCatalog(productAPI *api.ProductAPI, store *cache.Store, taxonomyStale time.Duration) *Catalog {
	return &Catalog{productAPI: productAPI, cache: store, taxonomyStale: taxonomyStale}
}

func (c *Catalog) Products(ctx context.Context, params map[string]string) (*ProductList, error) {
	key := cache.NewKey("products", params)
	value, err := c.cache.Get(ctx, key, func(ctx context.Context) (interface{}, error) {
		products, total, err := c.productAPI.List(ctx, params)
		if err != nil {
			return nil, err
		}
		return &ProductList{Products: products, Total: total}, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*ProductList), nil
}

func (c *Catalog) ProductBySlug(ctx context.Context, slug string) (*entity.Product, error) {
	key := cache.NewKey("product", map[string]string{"slug": slug})
	value, err := c.cache.Get(ctx, key, func(ctx context.Context) (interface{}, error) {
		return c.productAPI.GetBySlug(ctx, slug)
	})
	if err != nil {
		return nil, err
	}
	return value.(*entity.Product), nil
}

func (c *Catalog) Related(ctx context.Context, slug string) ([]entity.Product, error) {
	key := cache.NewKey("relatedProducts", map[string]string{"slug": slug})
	value, err := c.cache.Get(ctx, key, func(ctx context.Context) (interface{}, error) {
		return c.productAPI.Related(ctx, slug)
	})
	if err != nil {
		return nil, err
	}
	return value.([]entity.Product), nil
}

func (c *Catalog) BestSellers(ctx context.Context) ([]entity.Product, error) {
	value, err := c.cache.Get(ctx, cache.NewKey("bestSellers", nil), func(ctx context.Context) (interface{}, error) {
		return c.productAPI.BestSellers(ctx)
	})
	if err != nil {
		return nil, err
	}
	return value.([]entity.Product), nil
}

func (c *Catalog) Featured(ctx context.Context) ([]entity.Product, error) {
	value, err := c.cache.Get(ctx, cache.NewKey("featuredProducts", nil), func(ctx context.Context) (interface{}, error) {
		return c.productAPI.Featured(ctx)
	})
	if err != nil {
		return nil, err
	}
	return value.([]entity.Product), nil
}

func (c *Catalog) NewArrivals(ctx context.Context) ([]entity.Product, error) {
	value, err := c.cache.Get(ctx, cache.NewKey("newProducts", nil), func(ctx context.Context) (interface{}, error) {
		return c.productAPI.New(ctx)
	})
	if err != nil {
		return nil, err
	}
	return value.([]entity.Product), nil
}

// RecordView bumps the server-side view counter. Failures only get logged;
// the product page never blocks on it.
func (c *Catalog) RecordView(ctx context.Context, slug string) {
	if err := c.productAPI.IncrementView(ctx, slug); err != nil {
		logger.Debug("increment_view failed for %s: %v", slug, err)
	}
}

func (c *Catalog) Categories(ctx context.Context) ([]entity.Category, error) {
	value, err := c.cache.GetWithTTL(ctx, cache.NewKey("categories", nil), c.taxonomyStale, func(ctx context.Context) (interface{}, error) {
		return c.productAPI.Categories(ctx)
	})
	if err != nil {
		return nil, err
	}
	return value.([]entity.Category), nil
}

func (c *Catalog) CategoryBySlug(ctx context.Context, slug string) (*entity.Category, error) {
	key := cache.NewKey("category", map[string]string{"slug": slug})
	value, err := c.cache.GetWithTTL(ctx, key, c.taxonomyStale, func(ctx context.Context) (interface{}, error) {
		return c.productAPI.CategoryBySlug(ctx, slug)
	})
	if err != nil {
		return nil, err
	}
	return value.(*entity.Category), nil
}

func (c *Catalog) CategoryProducts(ctx context.Context, slug string) ([]entity.Product, error) {
	key := cache.NewKey("categoryProducts", map[string]string{"slug": slug})
	value, err := c.cache.Get(ctx, key, func(ctx context.Context) (interface{}, error) {
		return c.productAPI.CategoryProducts(ctx, slug)
	})
	if err != nil {
		return nil, err
	}
	return value.([]entity.Product), nil
}

func (c *Catalog) Subcategories(ctx context.Context, slug string) ([]entity.Category, error) {
	key := cache.NewKey("subcategories", map[string]string{"slug": slug})
	value, err := c.cache.GetWithTTL(ctx, key, c.taxonomyStale, func(ctx context.Context) (interface{}, error) {
		return c.productAPI.Subcategories(ctx, slug)
	})
	if err != nil {
		return nil, err
	}
	return value.([]entity.Category), nil
}

func (c *Catalog) Brands(ctx context.Context, params map[string]string) ([]entity.Brand, error) {
	key := cache.NewKey("brands", params)
	value, err := c.cache.GetWithTTL(ctx, key, c.taxonomyStale, func(ctx context.Context) (interface{}, error) {
		return c.productAPI.Brands(ctx, params)
	})
	if err != nil {
		return nil, err
	}
	return value.([]entity.Brand), nil
}

func (c *Catalog) Materials(ctx context.Context, params map[string]string) ([]entity.Material, error) {
	key := cache.NewKey("materials", params)
	value, err := c.cache.GetWithTTL(ctx, key, c.taxonomyStale, func(ctx context.Context) (interface{}, error) {
		return c.productAPI.Materials(ctx, params)
	})
	if err != nil {
		return nil, err
	}
	return value.([]entity.Material), nil
}

// InvalidateProducts flags every product listing for refetch, used after a
// successful checkout changes stock levels.
func (c *Catalog) InvalidateProducts() {
	c.cache.InvalidateResource("products")
	c.cache.InvalidateResource("product")
	c.cache.InvalidateResource("bestSellers")
	c.cache.InvalidateResource("featuredProducts")
	c.cache.InvalidateResource("newProducts")
	c.cache.InvalidateResource("categoryProducts")
}
