package models

import (
	"time"

	"github.com/google/uuid"
)

// Tenant is the isolation boundary: every data row carries a tenant id and
// every query filters by it.
type Tenant struct {
	ID              uuid.UUID `db:"id"`
	Name            string    `db:"name"`
	Slug            string    `db:"slug"`
	PrimaryColor    string    `db:"primary_color"`
	SecondaryColor  string    `db:"secondary_color"`
	LogoURL         *string   `db:"logo_url"`
	SeatLimit       int       `db:"seat_limit"`
	BrandingVersion int       `db:"branding_version"`
	WhatsAppBaseURL *string   `db:"whatsapp_base_url"`
	WhatsAppAPIKey  *string   `db:"whatsapp_api_key"`
	IsActive        bool      `db:"is_active"`
	CreatedAt       time.Time `db:"created_at"`
}

// Branding is the theme value object served to clients; the version lets a
// client know when to re-apply CSS variables.
type Branding struct {
	PrimaryColor   string  `json:"primary_color"`
	SecondaryColor string  `json:"secondary_color"`
	LogoURL        *string `json:"logo_url"`
	Title          string  `json:"title"`
	Version        int     `json:"version"`
}
