package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
	OrderStatusFailed     = "failed"
)

// OrderStatuses is the full admin-settable enum.
var OrderStatuses = []string{
	OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
	OrderStatusDelivered, OrderStatusCompleted, OrderStatusCancelled,
	OrderStatusFailed,
}

// OrderItem is a line-item snapshot taken at checkout time; later product
// edits do not rewrite history. Stored as jsonb on the order row.
type OrderItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Price     int64     `json:"price"`
	Quantity  int       `json:"quantity"`
	Size      *string   `json:"size,omitempty"`
	Color     *string   `json:"color,omitempty"`
}

type Order struct {
	ID              uuid.UUID   `json:"id" db:"id"`
	Reference       string      `json:"reference" db:"reference"`
	CompanyID       uuid.UUID   `json:"company_id" db:"company_id"`
	UserID          *uuid.UUID  `json:"user_id" db:"user_id"`
	CustomerName    string      `json:"customer_name" db:"customer_name"`
	CustomerEmail   string      `json:"customer_email" db:"customer_email"`
	CustomerPhone   string      `json:"customer_phone" db:"customer_phone"`
	ShippingAddress string      `json:"shipping_address" db:"shipping_address"`
	City            string      `json:"city" db:"city"`
	State           string      `json:"state" db:"state"`
	Zip             string      `json:"zip" db:"zip"`
	Items           []OrderItem `json:"items" db:"items"`
	TotalAmount     int64       `json:"total_amount" db:"total_amount"`
	Status          string      `json:"status" db:"status"`
	PaidAt          *time.Time  `json:"paid_at" db:"paid_at"`
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at" db:"updated_at"`
}

// OrderSearchFilter holds criteria for admin order listings
type OrderSearchFilter struct {
	Status *string `json:"status,omitempty"` // Status filter
	Limit  int     `json:"limit,omitempty"`  // Page size (default: 50)
	Offset int     `json:"offset,omitempty"` // Page offset
}
