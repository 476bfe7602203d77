package pending

import (
	"testing"

	"github.com/google/uuid"

	"github.com/wisewolf/educore-backend/internal/models"
)

func ptr(s string) *string { return &s }

func TestCountUnloggedBookings(t *testing.T) {
	teacher := uuid.New()
	student := uuid.New()
	booking := models.Booking{ID: uuid.New(), TeacherID: teacher, StudentID: student, Weekday: models.Segunda, Time: "10:00"}

	t.Run("no_log_counts", func(t *testing.T) {
		if got := CountUnloggedBookings([]models.Booking{booking}, nil, "2026-08-24"); got != 1 {
			t.Fatalf("got %d, want 1", got)
		}
	})

	t.Run("matched_by_booking_id", func(t *testing.T) {
		logs := []models.ClassLog{{BookingID: &booking.ID, StudentID: uuid.New(), ClassDate: "2026-08-24", Presence: models.PresencePresenca}}
		if got := CountUnloggedBookings([]models.Booking{booking}, logs, "2026-08-24"); got != 0 {
			t.Fatalf("got %d, want 0", got)
		}
	})

	t.Run("matched_by_student_and_date", func(t *testing.T) {
		logs := []models.ClassLog{{StudentID: student, ClassDate: "2026-08-24", Presence: models.PresenceFalta}}
		if got := CountUnloggedBookings([]models.Booking{booking}, logs, "2026-08-24"); got != 0 {
			t.Fatalf("got %d, want 0", got)
		}
	})

	t.Run("log_on_other_date_does_not_match", func(t *testing.T) {
		logs := []models.ClassLog{{StudentID: student, ClassDate: "2026-08-17", Presence: models.PresencePresenca}}
		if got := CountUnloggedBookings([]models.Booking{booking}, logs, "2026-08-24"); got != 1 {
			t.Fatalf("got %d, want 1", got)
		}
	})

	t.Run("enrollment_not_started_yet", func(t *testing.T) {
		late := booking
		late.StartDate = ptr("2026-09-01")
		if got := CountUnloggedBookings([]models.Booking{late}, nil, "2026-08-24"); got != 0 {
			t.Fatalf("got %d, want 0: booking starts after the scanned day", got)
		}
	})

	t.Run("enrollment_started_on_the_day", func(t *testing.T) {
		same := booking
		same.StartDate = ptr("2026-08-24")
		if got := CountUnloggedBookings([]models.Booking{same}, nil, "2026-08-24"); got != 1 {
			t.Fatalf("got %d, want 1: start date is inclusive", got)
		}
	})
}

func TestCountUnloggedReschedules(t *testing.T) {
	student := uuid.New()
	bookingID := uuid.New()

	t.Run("dated_makeup_without_log", func(t *testing.T) {
		rs := []models.Reschedule{{StudentID: student, Date: "2026-08-24", Time: ptr("14:00")}}
		if got := CountUnloggedReschedules(rs, nil, "2026-08-24"); got != 1 {
			t.Fatalf("got %d, want 1", got)
		}
	})

	t.Run("unscheduled_sentinel_never_matches_a_day", func(t *testing.T) {
		rs := []models.Reschedule{{StudentID: student, Date: models.ReschedulePendingDate}}
		if got := CountUnloggedReschedules(rs, nil, "2026-08-24"); got != 0 {
			t.Fatalf("got %d, want 0", got)
		}
	})

	t.Run("matched_by_booking_reference", func(t *testing.T) {
		rs := []models.Reschedule{{BookingID: &bookingID, StudentID: student, Date: "2026-08-24"}}
		logs := []models.ClassLog{{BookingID: &bookingID, StudentID: uuid.New(), ClassDate: "2026-08-24"}}
		if got := CountUnloggedReschedules(rs, logs, "2026-08-24"); got != 0 {
			t.Fatalf("got %d, want 0", got)
		}
	})

	t.Run("matched_by_student_and_date", func(t *testing.T) {
		rs := []models.Reschedule{{StudentID: student, Date: "2026-08-24"}}
		logs := []models.ClassLog{{StudentID: student, ClassDate: "2026-08-24"}}
		if got := CountUnloggedReschedules(rs, logs, "2026-08-24"); got != 0 {
			t.Fatalf("got %d, want 0", got)
		}
	})
}
