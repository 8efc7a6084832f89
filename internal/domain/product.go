package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a product in the catalog with its category embedded.
// The ID is assigned by the database on insert and never changes afterwards.
type Product struct {
	ID          int64           `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	CategoryID  int64           `json:"category_id" db:"category_id"`
	Category    *Category       `json:"category,omitempty"`
	ImageURL    string          `json:"image_url" db:"image_url"`
	Stock       int             `json:"stock" db:"stock"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// IsAvailable reports whether the product can currently be ordered.
// Derived from stock, never persisted.
func (p *Product) IsAvailable() bool {
	return p.Stock > 0
}

// StockUpdate is one (product, new stock level) pair of a bulk stock update.
type StockUpdate struct {
	ProductID int64 `json:"id"`
	Stock     int   `json:"stock"`
}

// Category represents a product category. Categories are reference data:
// nothing in this service creates, updates, or deletes them.
type Category struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
