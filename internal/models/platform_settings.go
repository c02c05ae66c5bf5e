package models

import "time"

// PlatformSettings is a singleton row owned by the platform operator.
type PlatformSettings struct {
	ID                     int       `json:"id" db:"id"`
	PlatformCommissionRate int       `json:"platform_commission_rate" db:"platform_commission_rate"`
	GlobalMaintenanceMode  bool      `json:"global_maintenance_mode" db:"global_maintenance_mode"`
	SupportEmail           string    `json:"support_email" db:"support_email"`
	CreatedAt              time.Time `json:"created_at" db:"created_at"`
	UpdatedAt              time.Time `json:"updated_at" db:"updated_at"`
}
