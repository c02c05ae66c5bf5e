package models

import (
	"time"

	"github.com/google/uuid"
)

// Product prices are stored in minor currency units (kobo).
type Product struct {
	ID              uuid.UUID `json:"id" db:"id"`
	CompanyID       uuid.UUID `json:"company_id" db:"company_id"`
	Name            string    `json:"name" db:"name"`
	Description     string    `json:"description" db:"description"`
	Price           int64     `json:"price" db:"price"`
	Category        string    `json:"category" db:"category"`
	Image           string    `json:"image" db:"image"`
	Sizes           []string  `json:"sizes" db:"sizes"`
	Colors          []string  `json:"colors" db:"colors"`
	InStock         bool      `json:"in_stock" db:"in_stock"`
	StockCount      int       `json:"stock_count" db:"stock_count"`
	DiscountPercent *int      `json:"discount_percent" db:"discount_percent"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// ProductSearchFilter holds search and filter criteria for catalog queries
type ProductSearchFilter struct {
	Query    string `json:"query,omitempty"`    // Name search (ILIKE)
	Category string `json:"category,omitempty"` // Category filter
	Limit    int    `json:"limit,omitempty"`    // Page size (default: 50)
	Offset   int    `json:"offset,omitempty"`   // Page offset
}
