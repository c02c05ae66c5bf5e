package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleCustomer   = "customer"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

type User struct {
	ID                       uuid.UUID  `json:"id" db:"id"`
	Name                     string     `json:"name" db:"name"`
	Email                    string     `json:"email" db:"email"`
	PasswordHash             string     `json:"-" db:"password_hash"` // Never serialize in JSON
	Role                     string     `json:"role" db:"role"`
	CompanyID                *uuid.UUID `json:"company_id" db:"company_id"`
	EmailVerified            bool       `json:"email_verified" db:"email_verified"`
	VerificationToken        *string    `json:"-" db:"verification_token"`
	VerificationTokenExpiry  *time.Time `json:"-" db:"verification_token_expiry"`
	ResetPasswordToken       *string    `json:"-" db:"reset_password_token"`
	ResetPasswordTokenExpiry *time.Time `json:"-" db:"reset_password_token_expiry"`
	CreatedAt                time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt                time.Time  `json:"updated_at" db:"updated_at"`
}
