//go:build testutil
// +build testutil

package db_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/wisewolf/educore-backend/internal/db"
	"github.com/wisewolf/educore-backend/internal/models"
	"github.com/wisewolf/educore-backend/internal/testutil/testdb"
)

func mustSeedTenant(t *testing.T, database *sql.DB, slug string) uuid.UUID {
	t.Helper()
	id, err := db.CreateTenant(context.Background(), database, models.Tenant{
		Name:           "Escola " + slug,
		Slug:           slug,
		PrimaryColor:   "#1f2937",
		SecondaryColor: "#f59e0b",
		SeatLimit:      50,
	})
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func mustSeedProfile(t *testing.T, database *sql.DB, tenantID uuid.UUID, role models.Role, email string, rate *float64) uuid.UUID {
	t.Helper()
	id, err := db.CreateProfile(context.Background(), database, models.Profile{
		TenantID:     tenantID,
		Role:         role,
		Name:         "Perfil " + email,
		Email:        email,
		PasswordHash: "x",
		HourlyRate:   rate,
	})
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func ptrFloat(f float64) *float64 { return &f }

func TestClosingFlow(t *testing.T) {
	ctx := context.Background()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	tenant := mustSeedTenant(t, h.DB, "flow")
	teacher := mustSeedProfile(t, h.DB, tenant, models.RoleTeacher, "prof.flow@example.com", ptrFloat(80))

	t.Run("confirm_twice_updates_same_row", func(t *testing.T) {
		first, err := db.UpsertClosing(ctx, h.DB, models.TeacherClosing{
			TenantID: tenant, TeacherID: teacher, MonthYear: "2026-07",
			TotalClasses: 10, TotalAmount: 800,
			Status: models.ClosingPendente, ConfirmationStatus: models.ConfirmationOK,
		})
		if err != nil {
			t.Fatal(err)
		}
		second, err := db.UpsertClosing(ctx, h.DB, models.TeacherClosing{
			TenantID: tenant, TeacherID: teacher, MonthYear: "2026-07",
			TotalClasses: 11, TotalAmount: 880,
			Status: models.ClosingPendente, ConfirmationStatus: models.ConfirmationOK,
		})
		if err != nil {
			t.Fatal(err)
		}
		if first.ID != second.ID {
			t.Fatalf("upsert created a new row: %s vs %s", first.ID, second.ID)
		}
		if second.TotalClasses != 11 {
			t.Fatalf("totals not updated: %d", second.TotalClasses)
		}
	})

	t.Run("guarded_transition_loses_on_stale_status", func(t *testing.T) {
		c, err := db.GetClosing(ctx, h.DB, tenant, teacher, "2026-07")
		if err != nil {
			t.Fatal(err)
		}

		ok, err := db.TransitionClosing(ctx, h.DB, tenant, c.ID, models.ClosingPendente, models.ClosingConfirmado, nil)
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Fatal("first transition should win")
		}

		// same expected status again: the row already moved on
		ok, err = db.TransitionClosing(ctx, h.DB, tenant, c.ID, models.ClosingPendente, models.ClosingConfirmado, nil)
		if err != nil {
			t.Fatal(err)
		}
		if ok {
			t.Fatal("stale transition must not apply")
		}
	})

	t.Run("paid_requires_invoice", func(t *testing.T) {
		c, err := db.GetClosing(ctx, h.DB, tenant, teacher, "2026-07")
		if err != nil {
			t.Fatal(err)
		}

		// push to AGUARDANDO without an invoice
		if _, err := db.TransitionClosing(ctx, h.DB, tenant, c.ID, models.ClosingConfirmado, models.ClosingEmAnalise, nil); err != nil {
			t.Fatal(err)
		}
		if _, err := db.TransitionClosing(ctx, h.DB, tenant, c.ID, models.ClosingEmAnalise, models.ClosingAguardando, nil); err != nil {
			t.Fatal(err)
		}

		ok, err := db.MarkClosingPaid(ctx, h.DB, tenant, c.ID, time.Now())
		if err != nil {
			t.Fatal(err)
		}
		if ok {
			t.Fatal("paying without nf_link must be blocked")
		}

		// attach the invoice; SetClosingInvoice forces EM ANÁLISE
		if err := db.SetClosingInvoice(ctx, h.DB, tenant, c.ID, "/files/invoices/x.pdf"); err != nil {
			t.Fatal(err)
		}
		if _, err := db.TransitionClosing(ctx, h.DB, tenant, c.ID, models.ClosingEmAnalise, models.ClosingAguardando, nil); err != nil {
			t.Fatal(err)
		}

		ok, err = db.MarkClosingPaid(ctx, h.DB, tenant, c.ID, time.Now())
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Fatal("paying with nf_link in AGUARDANDO must succeed")
		}

		got, err := db.GetClosingByID(ctx, h.DB, tenant, c.ID)
		if err != nil {
			t.Fatal(err)
		}
		if got.Status != models.ClosingPago || got.PaidAt == nil {
			t.Fatalf("got status=%s paid_at=%v", got.Status, got.PaidAt)
		}
	})

	t.Run("upsert_skips_rows_past_review", func(t *testing.T) {
		// the July row is PAGO now; the conflict update must not touch it
		_, err := db.UpsertClosing(ctx, h.DB, models.TeacherClosing{
			TenantID: tenant, TeacherID: teacher, MonthYear: "2026-07",
			TotalClasses: 1, TotalAmount: 80,
			Status: models.ClosingPendente, ConfirmationStatus: models.ConfirmationOK,
		})
		if !errors.Is(err, db.ErrNotFound) {
			t.Fatalf("got %v, want ErrNotFound", err)
		}

		got, err := db.GetClosing(ctx, h.DB, tenant, teacher, "2026-07")
		if err != nil {
			t.Fatal(err)
		}
		if got.Status != models.ClosingPago || got.PaidAt == nil || got.NFLink == nil {
			t.Fatalf("paid row changed: status=%s paid_at=%v nf=%v", got.Status, got.PaidAt, got.NFLink)
		}
		if got.TotalClasses == 1 {
			t.Fatal("totals overwritten on a paid row")
		}
	})
}

func TestReminderDedupe(t *testing.T) {
	ctx := context.Background()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	tenant := mustSeedTenant(t, h.DB, "dedupe")
	teacher := mustSeedProfile(t, h.DB, tenant, models.RoleTeacher, "prof.dedupe@example.com", ptrFloat(60))
	student := mustSeedProfile(t, h.DB, tenant, models.RoleStudent, "aluno.dedupe@example.com", nil)

	inst, err := db.UpsertWAInstance(ctx, h.DB, models.WhatsAppInstance{
		TenantID: tenant, OwnerID: teacher, InstanceName: "educore-test", Status: models.InstanceConnected,
	})
	if err != nil {
		t.Fatal(err)
	}

	msg := models.WhatsAppLog{
		TenantID: tenant, InstanceID: inst.ID, StudentID: student,
		ClassDate: "2026-08-24", ClassTime: "10:00",
		Kind: models.WAKindReminder, Message: "lembrete",
	}
	inserted, err := db.RecordWAMessage(ctx, h.DB, msg)
	if err != nil {
		t.Fatal(err)
	}
	if !inserted {
		t.Fatal("first record must insert")
	}

	inserted, err = db.RecordWAMessage(ctx, h.DB, msg)
	if err != nil {
		t.Fatal(err)
	}
	if inserted {
		t.Fatal("duplicate reminder must be absorbed by the unique key")
	}

	sent, err := db.HasReminder(ctx, h.DB, inst.ID, student, "2026-08-24", "10:00")
	if err != nil {
		t.Fatal(err)
	}
	if !sent {
		t.Fatal("HasReminder should see the recorded message")
	}

	// a different lesson time on the same day is a separate occurrence
	msg.ClassTime = "14:00"
	inserted, err = db.RecordWAMessage(ctx, h.DB, msg)
	if err != nil {
		t.Fatal(err)
	}
	if !inserted {
		t.Fatal("different class_time must insert")
	}
}
