package entity

import (
	"time"
)

type CartItem struct {
	ID        string   `json:"id"`
	Product   *Product `json:"product"`
	Quantity  int      `json:"quantity"`
	UnitPrice float64  `json:"unit_price"`
	Subtotal  float64  `json:"subtotal"`
}

// Cart mirrors the server-owned cart. Totals come back with every server
// response; the client only recomputes them transiently for optimistic
// updates and reconciles on the next fetch.
type Cart struct {
	ID         string     `json:"id"`
	Items      []CartItem `json:"items"`
	TotalPrice float64    `json:"total_price"`
	TotalItems int        `json:"total_items"`
	ItemCount  int        `json:"item_count"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Clone deep-copies the cart so an optimistic mutation can snapshot the
// last known-good server state before patching it.
func (c *Cart) Clone() *Cart {
	if c == nil {
		return nil
	}
	out := *c
	out.Items = make([]CartItem, len(c.Items))
	for i, item := range c.Items {
		out.Items[i] = item
		if item.Product != nil {
			p := *item.Product
			out.Items[i].Product = &p
		}
	}
	return &out
}

// Recalculate rebuilds the aggregate totals from the line items. Line
// subtotals must already be correct.
func (c *Cart) Recalculate() {
	total := 0.0
	units := 0
	for _, item := range c.Items {
		total += item.Subtotal
		units += item.Quantity
	}
	c.TotalPrice = total
	c.TotalItems = units
	c.ItemCount = len(c.Items)
}
