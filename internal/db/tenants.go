package db

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/wisewolf/educore-backend/internal/models"
)

const tenantCols = `id, name, slug, primary_color, secondary_color, logo_url, seat_limit, branding_version, whatsapp_base_url, whatsapp_api_key, is_active, created_at`

func scanTenant(row interface{ Scan(...any) error }) (*models.Tenant, error) {
	var t models.Tenant
	err := row.Scan(&t.ID, &t.Name, &t.Slug, &t.PrimaryColor, &t.SecondaryColor, &t.LogoURL,
		&t.SeatLimit, &t.BrandingVersion, &t.WhatsAppBaseURL, &t.WhatsAppAPIKey, &t.IsActive, &t.CreatedAt)
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &t, nil
}

func CreateTenant(ctx context.Context, database *sql.DB, t models.Tenant) (uuid.UUID, error) {
	var id uuid.UUID
	err := database.QueryRowContext(ctx, `
		INSERT INTO tenants (name, slug, primary_color, secondary_color, logo_url, seat_limit, whatsapp_base_url, whatsapp_api_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, t.Name, t.Slug, t.PrimaryColor, t.SecondaryColor, t.LogoURL, t.SeatLimit, t.WhatsAppBaseURL, t.WhatsAppAPIKey).Scan(&id)
	return id, err
}

func GetTenant(ctx context.Context, database *sql.DB, id uuid.UUID) (*models.Tenant, error) {
	return scanTenant(database.QueryRowContext(ctx,
		`SELECT `+tenantCols+` FROM tenants WHERE id = $1`, id))
}

func GetTenantBySlug(ctx context.Context, database *sql.DB, slug string) (*models.Tenant, error) {
	return scanTenant(database.QueryRowContext(ctx,
		`SELECT `+tenantCols+` FROM tenants WHERE slug = $1`, slug))
}

// UpdateBranding saves new colors/logo and bumps branding_version so clients
// know to re-apply the theme.
func UpdateBranding(ctx context.Context, database *sql.DB, tenantID uuid.UUID, primary, secondary string, logoURL *string) error {
	res, err := database.ExecContext(ctx, `
		UPDATE tenants
		SET primary_color = $1, secondary_color = $2, logo_url = COALESCE($3, logo_url),
		    branding_version = branding_version + 1
		WHERE id = $4
	`, primary, secondary, logoURL, tenantID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func UpdateWhatsAppCreds(ctx context.Context, database *sql.DB, tenantID uuid.UUID, baseURL, apiKey string) error {
	res, err := database.ExecContext(ctx, `
		UPDATE tenants SET whatsapp_base_url = $1, whatsapp_api_key = $2 WHERE id = $3
	`, baseURL, apiKey, tenantID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
