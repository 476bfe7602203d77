package db

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/wisewolf/educore-backend/internal/models"
)

const classLogCols = `id, tenant_id, booking_id, teacher_id, student_id, class_date, presence, subtype, content, created_at`

func scanClassLog(row interface{ Scan(...any) error }) (*models.ClassLog, error) {
	var l models.ClassLog
	err := row.Scan(&l.ID, &l.TenantID, &l.BookingID, &l.TeacherID, &l.StudentID, &l.ClassDate, &l.Presence, &l.Subtype, &l.Content, &l.CreatedAt)
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &l, nil
}

func collectClassLogs(rows *sql.Rows) ([]models.ClassLog, error) {
	defer rows.Close()
	var out []models.ClassLog
	for rows.Next() {
		l, err := scanClassLog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

func InsertClassLog(ctx context.Context, database *sql.DB, l models.ClassLog) (uuid.UUID, error) {
	var id uuid.UUID
	err := database.QueryRowContext(ctx, `
		INSERT INTO class_logs (tenant_id, booking_id, teacher_id, student_id, class_date, presence, subtype, content)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, l.TenantID, l.BookingID, l.TeacherID, l.StudentID, l.ClassDate, l.Presence, l.Subtype, l.Content).Scan(&id)
	return id, err
}

// ListClassLogsByMonth returns a teacher's ledger for "YYYY-MM" — the input
// of the monthly closing computation.
func ListClassLogsByMonth(ctx context.Context, database *sql.DB, tenantID, teacherID uuid.UUID, monthYear string) ([]models.ClassLog, error) {
	rows, err := database.QueryContext(ctx,
		`SELECT `+classLogCols+` FROM class_logs
		 WHERE tenant_id = $1 AND teacher_id = $2 AND class_date LIKE $3 || '-%'
		 ORDER BY class_date`,
		tenantID, teacherID, monthYear)
	if err != nil {
		return nil, err
	}
	return collectClassLogs(rows)
}

// ListClassLogsSince returns a teacher's logs with class_date >= sinceDate
// (ISO string compare works on YYYY-MM-DD). One batched fetch for the
// pending-lesson scan.
func ListClassLogsSince(ctx context.Context, database *sql.DB, tenantID, teacherID uuid.UUID, sinceDate string) ([]models.ClassLog, error) {
	rows, err := database.QueryContext(ctx,
		`SELECT `+classLogCols+` FROM class_logs
		 WHERE tenant_id = $1 AND teacher_id = $2 AND class_date >= $3`,
		tenantID, teacherID, sinceDate)
	if err != nil {
		return nil, err
	}
	return collectClassLogs(rows)
}

func ListClassLogsByStudent(ctx context.Context, database *sql.DB, tenantID, studentID uuid.UUID, limit int) ([]models.ClassLog, error) {
	rows, err := database.QueryContext(ctx,
		`SELECT `+classLogCols+` FROM class_logs
		 WHERE tenant_id = $1 AND student_id = $2
		 ORDER BY class_date DESC LIMIT $3`,
		tenantID, studentID, limit)
	if err != nil {
		return nil, err
	}
	return collectClassLogs(rows)
}
