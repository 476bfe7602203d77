package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/wisewolf/educore-backend/internal/models"
)

const closingCols = `id, tenant_id, teacher_id, month_year, total_classes, total_amount, status, teacher_confirmation_status, teacher_notes, admin_notes, nf_link, paid_at, created_at, updated_at`

func scanClosing(row interface{ Scan(...any) error }) (*models.TeacherClosing, error) {
	var c models.TeacherClosing
	err := row.Scan(&c.ID, &c.TenantID, &c.TeacherID, &c.MonthYear, &c.TotalClasses, &c.TotalAmount,
		&c.Status, &c.ConfirmationStatus, &c.TeacherNotes, &c.AdminNotes, &c.NFLink, &c.PaidAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &c, nil
}

// UpsertClosing writes the teacher's monthly submission. Keyed on
// (teacher_id, month_year) so confirming twice updates the same row. The
// conflict update only applies while the row is still resubmittable
// (PENDENTE or REJEITADO); once the admin pipeline moved on, the update is
// filtered out and no row comes back (ErrNotFound).
func UpsertClosing(ctx context.Context, database *sql.DB, c models.TeacherClosing) (*models.TeacherClosing, error) {
	return scanClosing(database.QueryRowContext(ctx, `
		INSERT INTO teacher_closings
			(tenant_id, teacher_id, month_year, total_classes, total_amount, status, teacher_confirmation_status, teacher_notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (teacher_id, month_year) DO UPDATE SET
			total_classes = excluded.total_classes,
			total_amount = excluded.total_amount,
			status = excluded.status,
			teacher_confirmation_status = excluded.teacher_confirmation_status,
			teacher_notes = excluded.teacher_notes,
			updated_at = now()
		WHERE teacher_closings.status IN ($9, $10)
		RETURNING `+closingCols,
		c.TenantID, c.TeacherID, c.MonthYear, c.TotalClasses, c.TotalAmount, c.Status, c.ConfirmationStatus, c.TeacherNotes,
		models.ClosingPendente, models.ClosingRejeitado))
}

func GetClosing(ctx context.Context, database *sql.DB, tenantID, teacherID uuid.UUID, monthYear string) (*models.TeacherClosing, error) {
	return scanClosing(database.QueryRowContext(ctx,
		`SELECT `+closingCols+` FROM teacher_closings
		 WHERE tenant_id = $1 AND teacher_id = $2 AND month_year = $3`,
		tenantID, teacherID, monthYear))
}

func GetClosingByID(ctx context.Context, database *sql.DB, tenantID, id uuid.UUID) (*models.TeacherClosing, error) {
	return scanClosing(database.QueryRowContext(ctx,
		`SELECT `+closingCols+` FROM teacher_closings WHERE tenant_id = $1 AND id = $2`,
		tenantID, id))
}

func ListClosingsByMonth(ctx context.Context, database *sql.DB, tenantID uuid.UUID, monthYear string) ([]models.TeacherClosing, error) {
	rows, err := database.QueryContext(ctx,
		`SELECT `+closingCols+` FROM teacher_closings
		 WHERE tenant_id = $1 AND month_year = $2 ORDER BY created_at`,
		tenantID, monthYear)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.TeacherClosing
	for rows.Next() {
		c, err := scanClosing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// TransitionClosing moves a closing from one status to another atomically:
// the UPDATE is guarded by the expected current status, so a concurrent edit
// loses instead of silently overwriting. Returns false when the row was not
// in the expected status.
func TransitionClosing(ctx context.Context, database *sql.DB, tenantID, id uuid.UUID, from, to models.ClosingStatus, adminNotes *string) (bool, error) {
	res, err := database.ExecContext(ctx, `
		UPDATE teacher_closings
		SET status = $1, admin_notes = COALESCE($2, admin_notes), updated_at = now()
		WHERE tenant_id = $3 AND id = $4 AND status = $5
	`, to, adminNotes, tenantID, id, from)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n == 1, nil
}

// SetClosingInvoice stores the uploaded invoice URL and forces the closing
// back into review.
func SetClosingInvoice(ctx context.Context, database *sql.DB, tenantID, id uuid.UUID, nfLink string) error {
	res, err := database.ExecContext(ctx, `
		UPDATE teacher_closings
		SET nf_link = $1, status = $2, updated_at = now()
		WHERE tenant_id = $3 AND id = $4
	`, nfLink, models.ClosingEmAnalise, tenantID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkClosingPaid stamps paid_at together with the PAGO transition.
func MarkClosingPaid(ctx context.Context, database *sql.DB, tenantID, id uuid.UUID, at time.Time) (bool, error) {
	res, err := database.ExecContext(ctx, `
		UPDATE teacher_closings
		SET status = $1, paid_at = $2, updated_at = now()
		WHERE tenant_id = $3 AND id = $4 AND status = $5 AND nf_link IS NOT NULL
	`, models.ClosingPago, at, tenantID, id, models.ClosingAguardando)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n == 1, nil
}
