package entity

import (
	"time"
)

type ProductImage struct {
	ID           string `json:"id"`
	URL          string `json:"url"`
	IsPrimary    bool   `json:"is_primary"`
	DisplayOrder int    `json:"display_order"`
}

type Category struct {
	ID       string `json:"id"`
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	ParentID string `json:"parent_id,omitempty"`
}

type Brand struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

type Material struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Product is read-only on the client; the server owns every field.
type Product struct {
	ID              string         `json:"id"`
	Slug            string         `json:"slug"`
	Name            string         `json:"name"`
	Description     string         `json:"description"`
	Price           float64        `json:"price"`
	DiscountPercent float64        `json:"discount_percent,omitempty"`
	FinalPrice      float64        `json:"final_price,omitempty"`
	Stock           int            `json:"stock"`
	Category        *Category      `json:"category,omitempty"`
	Brand           *Brand         `json:"brand,omitempty"`
	Materials       []Material     `json:"materials,omitempty"`
	Images          []ProductImage `json:"images,omitempty"`
	PrimaryImage    string         `json:"primary_image,omitempty"`
	RatingAverage   float64        `json:"rating_average"`
	RatingCount     int            `json:"rating_count"`
	Featured        bool           `json:"featured"`
	Views           int            `json:"views"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// EffectivePrice prefers the discounted final price when the backend sends one.
func (p *Product) EffectivePrice() float64 {
	if p.FinalPrice > 0 {
		return p.FinalPrice
	}
	return p.Price
}
