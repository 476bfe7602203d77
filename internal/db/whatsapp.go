package db

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/wisewolf/educore-backend/internal/models"
)

const waInstanceCols = `id, tenant_id, owner_id, instance_name, status, phone, updated_at, created_at`

func scanWAInstance(row interface{ Scan(...any) error }) (*models.WhatsAppInstance, error) {
	var i models.WhatsAppInstance
	err := row.Scan(&i.ID, &i.TenantID, &i.OwnerID, &i.InstanceName, &i.Status, &i.Phone, &i.UpdatedAt, &i.CreatedAt)
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &i, nil
}

// UpsertWAInstance registers a gateway instance for a teacher (one per
// owner/tenant).
func UpsertWAInstance(ctx context.Context, database *sql.DB, i models.WhatsAppInstance) (*models.WhatsAppInstance, error) {
	return scanWAInstance(database.QueryRowContext(ctx, `
		INSERT INTO whatsapp_instances (tenant_id, owner_id, instance_name, status, phone)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (tenant_id, owner_id) DO UPDATE SET
			instance_name = excluded.instance_name,
			status = excluded.status,
			phone = COALESCE(excluded.phone, whatsapp_instances.phone),
			updated_at = now()
		RETURNING `+waInstanceCols,
		i.TenantID, i.OwnerID, i.InstanceName, i.Status, i.Phone))
}

func GetWAInstanceByOwner(ctx context.Context, database *sql.DB, tenantID, ownerID uuid.UUID) (*models.WhatsAppInstance, error) {
	return scanWAInstance(database.QueryRowContext(ctx,
		`SELECT `+waInstanceCols+` FROM whatsapp_instances WHERE tenant_id = $1 AND owner_id = $2`,
		tenantID, ownerID))
}

func UpdateWAInstanceStatus(ctx context.Context, database *sql.DB, id uuid.UUID, status string, phone *string) error {
	_, err := database.ExecContext(ctx, `
		UPDATE whatsapp_instances
		SET status = $1, phone = COALESCE($2, phone), updated_at = now()
		WHERE id = $3
	`, status, phone, id)
	return err
}

func DeleteWAInstance(ctx context.Context, database *sql.DB, tenantID, ownerID uuid.UUID) error {
	res, err := database.ExecContext(ctx,
		`DELETE FROM whatsapp_instances WHERE tenant_id = $1 AND owner_id = $2`, tenantID, ownerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListConnectedWAInstances feeds the reminder watchdog.
func ListConnectedWAInstances(ctx context.Context, database *sql.DB) ([]models.WhatsAppInstance, error) {
	rows, err := database.QueryContext(ctx,
		`SELECT `+waInstanceCols+` FROM whatsapp_instances WHERE status = $1`, models.InstanceConnected)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.WhatsAppInstance
	for rows.Next() {
		i, err := scanWAInstance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *i)
	}
	return out, rows.Err()
}

// RecordWAMessage inserts the audit row. The unique key doubles as the
// reminder dedupe: a second reminder for the same lesson/day inserts nothing
// and returns false.
func RecordWAMessage(ctx context.Context, database *sql.DB, l models.WhatsAppLog) (bool, error) {
	res, err := database.ExecContext(ctx, `
		INSERT INTO whatsapp_logs (tenant_id, instance_id, student_id, class_date, class_time, kind, message)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (instance_id, student_id, class_date, class_time, kind) DO NOTHING
	`, l.TenantID, l.InstanceID, l.StudentID, l.ClassDate, l.ClassTime, l.Kind, l.Message)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n == 1, nil
}

// HasReminder reports whether a reminder for this lesson occurrence was
// already recorded.
func HasReminder(ctx context.Context, database *sql.DB, instanceID, studentID uuid.UUID, classDate, classTime string) (bool, error) {
	var n int
	err := database.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM whatsapp_logs
		WHERE instance_id = $1 AND student_id = $2 AND class_date = $3 AND class_time = $4 AND kind = $5
	`, instanceID, studentID, classDate, classTime, models.WAKindReminder).Scan(&n)
	return n > 0, err
}
