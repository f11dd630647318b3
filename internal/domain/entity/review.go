package entity

import (
	"time"
)

// Review is one user's rating of one product. Only the author may edit or
// delete it; the server enforces ownership.
type Review struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	ProductSlug string    `json:"product_slug,omitempty"`
	UserID      string    `json:"user_id"`
	Username    string    `json:"username,omitempty"`
	Rating      int       `json:"rating"` // 1-5
	Title       string    `json:"title"`
	Comment     string    `json:"comment"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
