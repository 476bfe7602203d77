package db

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/wisewolf/educore-backend/internal/models"
)

const profileCols = `id, tenant_id, role, name, email, password_hash, phone, hourly_rate, module, xp, streak, is_active, created_at`

func scanProfile(row interface{ Scan(...any) error }) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(&p.ID, &p.TenantID, &p.Role, &p.Name, &p.Email, &p.PasswordHash,
		&p.Phone, &p.HourlyRate, &p.Module, &p.XP, &p.Streak, &p.IsActive, &p.CreatedAt)
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &p, nil
}

func CreateProfile(ctx context.Context, database *sql.DB, p models.Profile) (uuid.UUID, error) {
	var id uuid.UUID
	err := database.QueryRowContext(ctx, `
		INSERT INTO profiles (tenant_id, role, name, email, password_hash, phone, hourly_rate, module)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, p.TenantID, p.Role, p.Name, p.Email, p.PasswordHash, p.Phone, p.HourlyRate, p.Module).Scan(&id)
	return id, err
}

// GetProfileByEmail is the login lookup; not tenant-scoped because email is
// unique across the platform.
func GetProfileByEmail(ctx context.Context, database *sql.DB, email string) (*models.Profile, error) {
	return scanProfile(database.QueryRowContext(ctx,
		`SELECT `+profileCols+` FROM profiles WHERE email = $1`, email))
}

func GetProfile(ctx context.Context, database *sql.DB, tenantID, id uuid.UUID) (*models.Profile, error) {
	return scanProfile(database.QueryRowContext(ctx,
		`SELECT `+profileCols+` FROM profiles WHERE tenant_id = $1 AND id = $2`, tenantID, id))
}

func ListProfilesByRole(ctx context.Context, database *sql.DB, tenantID uuid.UUID, role models.Role) ([]models.Profile, error) {
	rows, err := database.QueryContext(ctx,
		`SELECT `+profileCols+` FROM profiles WHERE tenant_id = $1 AND role = $2 AND is_active ORDER BY name`,
		tenantID, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// CountSeats returns active non-admin profiles, checked against the tenant
// seat limit on creation.
func CountSeats(ctx context.Context, database *sql.DB, tenantID uuid.UUID) (int, error) {
	var n int
	err := database.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM profiles WHERE tenant_id = $1 AND role <> 'admin' AND is_active`,
		tenantID).Scan(&n)
	return n, err
}

func UpdateProfile(ctx context.Context, database *sql.DB, tenantID, id uuid.UUID, name string, phone *string, hourlyRate *float64, module *string) error {
	res, err := database.ExecContext(ctx, `
		UPDATE profiles
		SET name = $1, phone = $2, hourly_rate = COALESCE($3, hourly_rate), module = COALESCE($4, module)
		WHERE tenant_id = $5 AND id = $6
	`, name, phone, hourlyRate, module, tenantID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func DeactivateProfile(ctx context.Context, database *sql.DB, tenantID, id uuid.UUID) error {
	res, err := database.ExecContext(ctx,
		`UPDATE profiles SET is_active = FALSE WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// BumpGamification adds XP and advances the streak after a "Presença" log.
func BumpGamification(ctx context.Context, database *sql.DB, tenantID, studentID uuid.UUID, xp int) error {
	_, err := database.ExecContext(ctx, `
		UPDATE profiles SET xp = xp + $1, streak = streak + 1
		WHERE tenant_id = $2 AND id = $3 AND role = 'student'
	`, xp, tenantID, studentID)
	return err
}

// ResetStreak zeroes the streak after an unjustified absence.
func ResetStreak(ctx context.Context, database *sql.DB, tenantID, studentID uuid.UUID) error {
	_, err := database.ExecContext(ctx, `
		UPDATE profiles SET streak = 0
		WHERE tenant_id = $1 AND id = $2 AND role = 'student'
	`, tenantID, studentID)
	return err
}
