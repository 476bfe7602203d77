package db

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/wisewolf/educore-backend/internal/models"
)

const rescheduleCols = `id, tenant_id, booking_id, teacher_id, student_id, date, time, note, created_at`

func scanReschedule(row interface{ Scan(...any) error }) (*models.Reschedule, error) {
	var r models.Reschedule
	err := row.Scan(&r.ID, &r.TenantID, &r.BookingID, &r.TeacherID, &r.StudentID, &r.Date, &r.Time, &r.Note, &r.CreatedAt)
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &r, nil
}

func collectReschedules(rows *sql.Rows) ([]models.Reschedule, error) {
	defer rows.Close()
	var out []models.Reschedule
	for rows.Next() {
		r, err := scanReschedule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

func CreateReschedule(ctx context.Context, database *sql.DB, r models.Reschedule) (uuid.UUID, error) {
	date := r.Date
	if date == "" {
		date = models.ReschedulePendingDate
	}
	var id uuid.UUID
	err := database.QueryRowContext(ctx, `
		INSERT INTO reschedules (tenant_id, booking_id, teacher_id, student_id, date, time, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, r.TenantID, r.BookingID, r.TeacherID, r.StudentID, date, r.Time, r.Note).Scan(&id)
	return id, err
}

// ResolveReschedule gives a pending makeup its concrete date/time.
func ResolveReschedule(ctx context.Context, database *sql.DB, tenantID, id uuid.UUID, date, timeOfDay string) error {
	res, err := database.ExecContext(ctx, `
		UPDATE reschedules SET date = $1, time = $2 WHERE tenant_id = $3 AND id = $4
	`, date, timeOfDay, tenantID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func ListReschedulesByTeacherDate(ctx context.Context, database *sql.DB, tenantID, teacherID uuid.UUID, date string) ([]models.Reschedule, error) {
	rows, err := database.QueryContext(ctx,
		`SELECT `+rescheduleCols+` FROM reschedules WHERE tenant_id = $1 AND teacher_id = $2 AND date = $3`,
		tenantID, teacherID, date)
	if err != nil {
		return nil, err
	}
	return collectReschedules(rows)
}

func ListPendingReschedules(ctx context.Context, database *sql.DB, tenantID, teacherID uuid.UUID) ([]models.Reschedule, error) {
	rows, err := database.QueryContext(ctx,
		`SELECT `+rescheduleCols+` FROM reschedules WHERE tenant_id = $1 AND teacher_id = $2 AND date = $3 ORDER BY created_at`,
		tenantID, teacherID, models.ReschedulePendingDate)
	if err != nil {
		return nil, err
	}
	return collectReschedules(rows)
}

func DeleteReschedule(ctx context.Context, database *sql.DB, tenantID, id uuid.UUID) error {
	res, err := database.ExecContext(ctx,
		`DELETE FROM reschedules WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
