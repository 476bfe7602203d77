// Package pending estimates how many scheduled lesson occurrences in the
// recent past have no attendance record. The count feeds the teacher's
// "needs attention" badge.
package pending

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wisewolf/educore-backend/internal/db"
	"github.com/wisewolf/educore-backend/internal/models"
)

type Scanner struct {
	DB  *sql.DB
	Log *zap.SugaredLogger
	Loc *time.Location

	// Scan covers today-GraceDays .. today-HorizonDays, inclusive. Lessons
	// newer than the grace window aren't flagged yet; older than the horizon
	// aren't scanned at all.
	GraceDays   int
	HorizonDays int
	// Log fetch window. The legacy client fetched only 3 days of logs, so a
	// late-entered log could fall outside the window and the lesson would be
	// counted pending forever. Kept configurable; defaults to HorizonDays.
	LogLookbackDays int

	// Now is overridable in tests.
	Now func() time.Time
}

func (s *Scanner) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().In(s.Loc)
}

// Count walks the scan window for one teacher. Query failures are logged and
// the scan keeps going, yielding a partial count.
func (s *Scanner) Count(ctx context.Context, tenantID, teacherID uuid.UUID) int {
	today := s.now()
	lookback := s.LogLookbackDays
	if lookback <= 0 {
		lookback = s.HorizonDays
	}
	sinceDate := today.AddDate(0, 0, -lookback).Format("2006-01-02")

	logs, err := db.ListClassLogsSince(ctx, s.DB, tenantID, teacherID, sinceDate)
	if err != nil {
		s.Log.Warnw("pending scan: log fetch failed", "teacher", teacherID, "err", err)
		logs = nil
	}

	count := 0
	for i := s.GraceDays; i <= s.HorizonDays; i++ {
		day := today.AddDate(0, 0, -i)
		if day.Weekday() == time.Sunday {
			continue
		}
		weekday := models.WeekdayName(day.Weekday())
		date := day.Format("2006-01-02")

		bookings, err := db.ListBookingsForWeekday(ctx, s.DB, tenantID, teacherID, weekday)
		if err != nil {
			s.Log.Warnw("pending scan: booking fetch failed", "teacher", teacherID, "date", date, "err", err)
			continue
		}
		count += CountUnloggedBookings(bookings, logs, date)

		reschedules, err := db.ListReschedulesByTeacherDate(ctx, s.DB, tenantID, teacherID, date)
		if err != nil {
			s.Log.Warnw("pending scan: reschedule fetch failed", "teacher", teacherID, "date", date, "err", err)
			continue
		}
		count += CountUnloggedReschedules(reschedules, logs, date)
	}
	return count
}

// CountUnloggedBookings counts the bookings on one day with no matching log.
// A booking whose start_date postdates the day doesn't count: the enrollment
// hadn't started yet.
func CountUnloggedBookings(bookings []models.Booking, logs []models.ClassLog, date string) int {
	n := 0
	for _, b := range bookings {
		if b.StartDate != nil && *b.StartDate > date {
			continue
		}
		if !hasBookingLog(logs, b, date) {
			n++
		}
	}
	return n
}

// CountUnloggedReschedules does the same for makeups dated on that day. The
// "Pendente" sentinel never equals a concrete date, so unscheduled makeups
// can't reach here.
func CountUnloggedReschedules(reschedules []models.Reschedule, logs []models.ClassLog, date string) int {
	n := 0
	for _, r := range reschedules {
		if r.Date != date {
			continue
		}
		if !hasRescheduleLog(logs, r, date) {
			n++
		}
	}
	return n
}

// A log matches a booking either by booking id or by (student, date) — the
// second clause covers logs entered without a booking reference.
func hasBookingLog(logs []models.ClassLog, b models.Booking, date string) bool {
	for _, l := range logs {
		if l.BookingID != nil && *l.BookingID == b.ID && l.ClassDate == date {
			return true
		}
		if l.StudentID == b.StudentID && l.ClassDate == date {
			return true
		}
	}
	return false
}

func hasRescheduleLog(logs []models.ClassLog, r models.Reschedule, date string) bool {
	for _, l := range logs {
		if r.BookingID != nil && l.BookingID != nil && *l.BookingID == *r.BookingID && l.ClassDate == date {
			return true
		}
		if l.StudentID == r.StudentID && l.ClassDate == date {
			return true
		}
	}
	return false
}
