package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	CompanyStatusActive    = "active"
	CompanyStatusSuspended = "suspended"
)

// Company is a tenant. Every product, order and notification carries a
// company ID; it is the sole isolation mechanism.
type Company struct {
	ID                uuid.UUID  `json:"id" db:"id"`
	Name              string     `json:"name" db:"name"`
	Slug              string     `json:"slug" db:"slug"`
	CustomDomain      *string    `json:"custom_domain" db:"custom_domain"`
	Subdomain         *string    `json:"subdomain" db:"subdomain"`
	Logo              *string    `json:"logo" db:"logo"`
	PrimaryColor      *string    `json:"primary_color" db:"primary_color"`
	HeroImage         *string    `json:"hero_image" db:"hero_image"`
	PaystackSecretKey *string    `json:"-" db:"paystack_secret_key"`
	PaystackPublicKey *string    `json:"paystack_public_key" db:"paystack_public_key"`
	SEOTitle          *string    `json:"seo_title" db:"seo_title"`
	SEODescription    *string    `json:"seo_description" db:"seo_description"`
	Status            string     `json:"status" db:"status"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}

func (c *Company) Suspended() bool {
	return c.Status == CompanyStatusSuspended
}
