//go:build testutil
// +build testutil

package pending_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wisewolf/educore-backend/internal/db"
	"github.com/wisewolf/educore-backend/internal/models"
	"github.com/wisewolf/educore-backend/internal/pending"
	"github.com/wisewolf/educore-backend/internal/testutil/testdb"
)

func seed(t *testing.T, database *sql.DB) (tenant, teacher, student uuid.UUID) {
	t.Helper()
	ctx := context.Background()
	tenant, err := db.CreateTenant(ctx, database, models.Tenant{
		Name: "Escola Scan", Slug: "scan",
		PrimaryColor: "#1f2937", SecondaryColor: "#f59e0b", SeatLimit: 50,
	})
	if err != nil {
		t.Fatal(err)
	}
	rate := 60.0
	teacher, err = db.CreateProfile(ctx, database, models.Profile{
		TenantID: tenant, Role: models.RoleTeacher, Name: "Prof",
		Email: "prof.scan@example.com", PasswordHash: "x", HourlyRate: &rate,
	})
	if err != nil {
		t.Fatal(err)
	}
	student, err = db.CreateProfile(ctx, database, models.Profile{
		TenantID: tenant, Role: models.RoleStudent, Name: "Aluno",
		Email: "aluno.scan@example.com", PasswordHash: "x",
	})
	if err != nil {
		t.Fatal(err)
	}
	return tenant, teacher, student
}

func TestScannerCount(t *testing.T) {
	ctx := context.Background()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	tenant, teacher, student := seed(t, h.DB)

	loc, _ := time.LoadLocation("America/Sao_Paulo")
	// Friday; scan window covers 2026-07-29 .. 2026-08-21
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, loc)

	s := &pending.Scanner{
		DB:          h.DB,
		Log:         zap.NewNop().Sugar(),
		Loc:         loc,
		GraceDays:   7,
		HorizonDays: 30,
		Now:         func() time.Time { return now },
	}

	// Monday slot: occurrences Aug 3, 10, 17 inside the window
	if _, err := db.CreateBooking(ctx, h.DB, models.Booking{
		TenantID: tenant, TeacherID: teacher, StudentID: student,
		Weekday: models.Segunda, Time: "10:00",
	}); err != nil {
		t.Fatal(err)
	}

	if got := s.Count(ctx, tenant, teacher); got != 3 {
		t.Fatalf("count = %d, want 3 unlogged Mondays", got)
	}

	// logging one occurrence removes exactly one
	if _, err := db.InsertClassLog(ctx, h.DB, models.ClassLog{
		TenantID: tenant, TeacherID: teacher, StudentID: student,
		ClassDate: "2026-08-10", Presence: models.PresencePresenca,
	}); err != nil {
		t.Fatal(err)
	}
	if got := s.Count(ctx, tenant, teacher); got != 2 {
		t.Fatalf("count = %d, want 2 after logging Aug 10", got)
	}

	// lessons inside the grace window are not flagged yet (Aug 24 < 7 days ago)
	// — implicit: Aug 24 Monday is not in 3 above.

	t.Run("sunday_is_skipped", func(t *testing.T) {
		// makeup dated Sunday Aug 16: the day is never scanned
		if _, err := db.CreateReschedule(ctx, h.DB, models.Reschedule{
			TenantID: tenant, TeacherID: teacher, StudentID: student, Date: "2026-08-16",
		}); err != nil {
			t.Fatal(err)
		}
		if got := s.Count(ctx, tenant, teacher); got != 2 {
			t.Fatalf("count = %d, want 2: Sunday makeup must not be scanned", got)
		}
	})

	t.Run("weekday_makeup_counts", func(t *testing.T) {
		// Wednesday Aug 12, unlogged
		if _, err := db.CreateReschedule(ctx, h.DB, models.Reschedule{
			TenantID: tenant, TeacherID: teacher, StudentID: student, Date: "2026-08-12",
		}); err != nil {
			t.Fatal(err)
		}
		if got := s.Count(ctx, tenant, teacher); got != 3 {
			t.Fatalf("count = %d, want 3 with the Wednesday makeup", got)
		}
	})

	t.Run("start_date_guard", func(t *testing.T) {
		start := "2026-09-01"
		student2, err := db.CreateProfile(ctx, h.DB, models.Profile{
			TenantID: tenant, Role: models.RoleStudent, Name: "Aluno 2",
			Email: "aluno2.scan@example.com", PasswordHash: "x",
		})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := db.CreateBooking(ctx, h.DB, models.Booking{
			TenantID: tenant, TeacherID: teacher, StudentID: student2,
			Weekday: models.Segunda, Time: "11:00", StartDate: &start,
		}); err != nil {
			t.Fatal(err)
		}
		if got := s.Count(ctx, tenant, teacher); got != 3 {
			t.Fatalf("count = %d, want 3: enrollment hasn't started", got)
		}
	})
}
