package api

import (
	"context"
	"fmt"
	"net/http"

	"mercadillo/internal/domain/entity"
)

type ProductAPI struct {
	client *Client
}

func NewProductAPI(client *Client) *ProductAPI {
	return &ProductAPI{client: client}
}

// List supports the backend's filter params (search, category, brand,
// material, min_price, max_price, ordering, page).
func (p *ProductAPI) List(ctx context.Context, params map[string]string) ([]entity.Product, int, error) {
	var products []entity.Product
	total, err := p.client.getList(ctx, "/api/products/"+encodeParams(params), &products)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (p *ProductAPI) GetBySlug(ctx context.Context, slug string) (*entity.Product, error) {
	var product entity.Product
	if err := p.client.Do(ctx, http.MethodGet, fmt.Sprintf("/api/products/%s/", slug), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (p *ProductAPI) Related(ctx context.Context, slug string) ([]entity.Product, error) {
	var products []entity.Product
	_, err := p.client.getList(ctx, fmt.Sprintf("/api/products/%s/related/", slug), &products)
	return products, err
}

func (p *ProductAPI) BestSellers(ctx context.Context) ([]entity.Product, error) {
	var products []entity.Product
	_, err := p.client.getList(ctx, "/api/products/best_sellers/", &products)
	return products, err
}

func (p *ProductAPI) Featured(ctx context.Context) ([]entity.Product, error) {
	var products []entity.Product
	_, err := p.client.getList(ctx, "/api/products/featured/", &products)
	return products, err
}

func (p *ProductAPI) New(ctx context.Context) ([]entity.Product, error) {
	var products []entity.Product
	_, err := p.client.getList(ctx, "/api/products/new/", &products)
	return products, err
}

// IncrementView is fire-and-forget from the caller's perspective; the
// product detail page bumps the counter without caring about the result.
func (p *ProductAPI) IncrementView(ctx context.Context, slug string) error {
	return p.client.Do(ctx, http.MethodPost, fmt.Sprintf("/api/products/%s/increment_view/", slug), nil, nil)
}

func (p *ProductAPI) Categories(ctx context.Context) ([]entity.Category, error) {
	var categories []entity.Category
	_, err := p.client.getList(ctx, "/api/products/categories/", &categories)
	return categories, err
}

func (p *ProductAPI) CategoryBySlug(ctx context.Context, slug string) (*entity.Category, error) {
	var category entity.Category
	if err := p.client.Do(ctx, http.MethodGet, fmt.Sprintf("/api/products/categories/%s/", slug), nil, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (p *ProductAPI) CategoryProducts(ctx context.Context, slug string) ([]entity.Product, error) {
	var products []entity.Product
	_, err := p.client.getList(ctx, fmt.Sprintf("/api/products/categories/%s/products/", slug), &products)
	return products, err
}

func (p *ProductAPI) Subcategories(ctx context.Context, slug string) ([]entity.Category, error) {
	var categories []entity.Category
	_, err := p.client.getList(ctx, fmt.Sprintf("/api/products/categories/%s/subcategories/", slug), &categories)
	return categories, err
}

func (p *ProductAPI) Brands(ctx context.Context, params map[string]string) ([]entity.Brand, error) {
	var brands []entity.Brand
	_, err := p.client.getList(ctx, "/api/products/brands/"+encodeParams(params), &brands)
	return brands, err
}

func (p *ProductAPI) BrandBySlug(ctx context.Context, slug string) (*entity.Brand, error) {
	var brand entity.Brand
	if err := p.client.Do(ctx, http.MethodGet, fmt.Sprintf("/api/products/brands/%s/", slug), nil, &brand); err != nil {
		return nil, err
	}
	return &brand, nil
}

func (p *ProductAPI) Materials(ctx context.Context, params map[string]string) ([]entity.Material, error) {
	var materials []entity.Material
	_, err := p.client.getList(ctx, "/api/products/materials/"+encodeParams(params), &materials)
	return materials, err
}
