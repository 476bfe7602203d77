package db

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/wisewolf/educore-backend/internal/models"
)

const bookingCols = `id, tenant_id, teacher_id, student_id, weekday, time, module, start_date, created_at`

func scanBooking(row interface{ Scan(...any) error }) (*models.Booking, error) {
	var b models.Booking
	err := row.Scan(&b.ID, &b.TenantID, &b.TeacherID, &b.StudentID, &b.Weekday, &b.Time, &b.Module, &b.StartDate, &b.CreatedAt)
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &b, nil
}

func collectBookings(rows *sql.Rows) ([]models.Booking, error) {
	defer rows.Close()
	var out []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func CreateBooking(ctx context.Context, database *sql.DB, b models.Booking) (uuid.UUID, error) {
	var id uuid.UUID
	err := database.QueryRowContext(ctx, `
		INSERT INTO bookings (tenant_id, teacher_id, student_id, weekday, time, module, start_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, b.TenantID, b.TeacherID, b.StudentID, b.Weekday, b.Time, b.Module, b.StartDate).Scan(&id)
	return id, err
}

func ListBookingsByTeacher(ctx context.Context, database *sql.DB, tenantID, teacherID uuid.UUID) ([]models.Booking, error) {
	rows, err := database.QueryContext(ctx,
		`SELECT `+bookingCols+` FROM bookings WHERE tenant_id = $1 AND teacher_id = $2 ORDER BY weekday, time`,
		tenantID, teacherID)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func ListBookingsByStudent(ctx context.Context, database *sql.DB, tenantID, studentID uuid.UUID) ([]models.Booking, error) {
	rows, err := database.QueryContext(ctx,
		`SELECT `+bookingCols+` FROM bookings WHERE tenant_id = $1 AND student_id = $2 ORDER BY weekday, time`,
		tenantID, studentID)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

// ListBookingsForWeekday feeds the pending-lesson scan and the reminder
// watchdog: one teacher's slots on a given weekday name.
func ListBookingsForWeekday(ctx context.Context, database *sql.DB, tenantID, teacherID uuid.UUID, weekday string) ([]models.Booking, error) {
	rows, err := database.QueryContext(ctx,
		`SELECT `+bookingCols+` FROM bookings WHERE tenant_id = $1 AND teacher_id = $2 AND weekday = $3 ORDER BY time`,
		tenantID, teacherID, weekday)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func DeleteBooking(ctx context.Context, database *sql.DB, tenantID, id uuid.UUID) error {
	res, err := database.ExecContext(ctx,
		`DELETE FROM bookings WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteBookingsByStudent clears a student's slots on unenrollment.
func DeleteBookingsByStudent(ctx context.Context, database *sql.DB, tenantID, studentID uuid.UUID) (int64, error) {
	res, err := database.ExecContext(ctx,
		`DELETE FROM bookings WHERE tenant_id = $1 AND student_id = $2`, tenantID, studentID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
