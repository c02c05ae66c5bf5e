package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType classifies admin feed entries
type NotificationType string

const (
	NotificationTypeOrder  NotificationType = "ORDER"
	NotificationTypeStock  NotificationType = "STOCK"
	NotificationTypeSystem NotificationType = "SYSTEM"
)

// Notification is an entry in a company admin's activity feed, polled by the
// admin UI rather than pushed.
type Notification struct {
	ID        uuid.UUID        `json:"id" db:"id"`
	CompanyID uuid.UUID        `json:"company_id" db:"company_id"`
	Title     string           `json:"title" db:"title"`
	Message   string           `json:"message" db:"message"`
	Type      NotificationType `json:"type" db:"type"`
	Read      bool             `json:"read" db:"read"`
	Link      *string          `json:"link" db:"link"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}
