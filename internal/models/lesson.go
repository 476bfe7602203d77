package models

import (
	"time"

	"github.com/google/uuid"
)

// Weekday names as stored on bookings (pt-BR, no Sunday — school is closed).
const (
	Segunda = "Segunda"
	Terca   = "Terça"
	Quarta  = "Quarta"
	Quinta  = "Quinta"
	Sexta   = "Sexta"
	Sabado  = "Sábado"
)

// WeekdayName maps time.Weekday to the stored pt-BR name. Sunday maps to ""
// and never matches a booking.
func WeekdayName(d time.Weekday) string {
	switch d {
	case time.Monday:
		return Segunda
	case time.Tuesday:
		return Terca
	case time.Wednesday:
		return Quarta
	case time.Thursday:
		return Quinta
	case time.Friday:
		return Sexta
	case time.Saturday:
		return Sabado
	}
	return ""
}

// Booking is a recurring weekly lesson slot.
type Booking struct {
	ID        uuid.UUID `db:"id"`
	TenantID  uuid.UUID `db:"tenant_id"`
	TeacherID uuid.UUID `db:"teacher_id"`
	StudentID uuid.UUID `db:"student_id"`
	Weekday   string    `db:"weekday"`
	Time      string    `db:"time"` // "HH:MM"
	Module    *string   `db:"module"`
	StartDate *string   `db:"start_date"` // ISO date; lessons before it don't count
	CreatedAt time.Time `db:"created_at"`
}

// ReschedulePendingDate is the sentinel meaning "makeup not yet scheduled".
const ReschedulePendingDate = "Pendente"

// Reschedule is a one-off makeup lesson tied to an original booking.
type Reschedule struct {
	ID        uuid.UUID  `db:"id"`
	TenantID  uuid.UUID  `db:"tenant_id"`
	BookingID *uuid.UUID `db:"booking_id"`
	TeacherID uuid.UUID  `db:"teacher_id"`
	StudentID uuid.UUID  `db:"student_id"`
	Date      string     `db:"date"` // ISO date or "Pendente"
	Time      *string    `db:"time"`
	Note      *string    `db:"note"`
	CreatedAt time.Time  `db:"created_at"`
}

// Scheduled reports whether the makeup has a concrete date.
func (r Reschedule) Scheduled() bool { return r.Date != ReschedulePendingDate }
