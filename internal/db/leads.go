package db

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/wisewolf/educore-backend/internal/models"
)

func CreateCRMLead(ctx context.Context, database *sql.DB, l models.CRMLead) (uuid.UUID, error) {
	var id uuid.UUID
	err := database.QueryRowContext(ctx, `
		INSERT INTO crm_leads (tenant_id, name, phone, email, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, l.TenantID, l.Name, l.Phone, l.Email, l.Status, l.Notes).Scan(&id)
	return id, err
}

func ListCRMLeads(ctx context.Context, database *sql.DB, tenantID uuid.UUID) ([]models.CRMLead, error) {
	rows, err := database.QueryContext(ctx, `
		SELECT id, tenant_id, name, phone, email, status, notes, created_at
		FROM crm_leads WHERE tenant_id = $1 ORDER BY created_at DESC
	`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.CRMLead
	for rows.Next() {
		var l models.CRMLead
		if err := rows.Scan(&l.ID, &l.TenantID, &l.Name, &l.Phone, &l.Email, &l.Status, &l.Notes, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func UpdateCRMLeadStatus(ctx context.Context, database *sql.DB, tenantID, id uuid.UUID, status string, notes *string) error {
	res, err := database.ExecContext(ctx, `
		UPDATE crm_leads SET status = $1, notes = COALESCE($2, notes)
		WHERE tenant_id = $3 AND id = $4
	`, status, notes, tenantID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func DeleteCRMLead(ctx context.Context, database *sql.DB, tenantID, id uuid.UUID) error {
	res, err := database.ExecContext(ctx,
		`DELETE FROM crm_leads WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateSaaSLead records a marketing-page signup; platform-level, no tenant.
func CreateSaaSLead(ctx context.Context, database *sql.DB, l models.SaaSLead) (uuid.UUID, error) {
	var id uuid.UUID
	err := database.QueryRowContext(ctx, `
		INSERT INTO saas_leads (school_name, name, email, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, l.SchoolName, l.Name, l.Email, l.Phone).Scan(&id)
	return id, err
}

func ListSaaSLeads(ctx context.Context, database *sql.DB) ([]models.SaaSLead, error) {
	rows, err := database.QueryContext(ctx, `
		SELECT id, school_name, name, email, phone, created_at
		FROM saas_leads ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.SaaSLead
	for rows.Next() {
		var l models.SaaSLead
		if err := rows.Scan(&l.ID, &l.SchoolName, &l.Name, &l.Email, &l.Phone, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
