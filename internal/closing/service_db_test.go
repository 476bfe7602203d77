//go:build testutil
// +build testutil

package closing_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wisewolf/educore-backend/internal/closing"
	"github.com/wisewolf/educore-backend/internal/db"
	"github.com/wisewolf/educore-backend/internal/models"
	"github.com/wisewolf/educore-backend/internal/storage"
	"github.com/wisewolf/educore-backend/internal/testutil/testdb"
)

func TestClosingService(t *testing.T) {
	ctx := context.Background()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	tenant, err := db.CreateTenant(ctx, h.DB, models.Tenant{
		Name: "Escola Fechamento", Slug: "fechamento",
		PrimaryColor: "#1f2937", SecondaryColor: "#f59e0b", SeatLimit: 50,
	})
	if err != nil {
		t.Fatal(err)
	}
	rate := 50.0
	teacher, err := db.CreateProfile(ctx, h.DB, models.Profile{
		TenantID: tenant, Role: models.RoleTeacher, Name: "Prof",
		Email: "prof.fech@example.com", PasswordHash: "x", HourlyRate: &rate,
	})
	if err != nil {
		t.Fatal(err)
	}
	student, err := db.CreateProfile(ctx, h.DB, models.Profile{
		TenantID: tenant, Role: models.RoleStudent, Name: "Aluno",
		Email: "aluno.fech@example.com", PasswordHash: "x",
	})
	if err != nil {
		t.Fatal(err)
	}

	// 12 logged lessons in July, 2 of them makeups
	rep := models.SubtypeReposicao
	for i := 1; i <= 12; i++ {
		l := models.ClassLog{
			TenantID: tenant, TeacherID: teacher, StudentID: student,
			ClassDate: fmt.Sprintf("2026-07-%02d", i), Presence: models.PresencePresenca,
		}
		if i <= 2 {
			l.Subtype = &rep
		}
		if _, err := db.InsertClassLog(ctx, h.DB, l); err != nil {
			t.Fatal(err)
		}
	}

	invoices, err := storage.NewInvoiceStore(t.TempDir(), "/files/invoices")
	if err != nil {
		t.Fatal(err)
	}
	svc := &closing.Service{DB: h.DB, Invoices: invoices, Log: zap.NewNop().Sugar()}

	var closingID uuid.UUID

	t.Run("totals_exclude_makeups", func(t *testing.T) {
		totals, err := svc.TotalsFor(ctx, tenant, teacher, "2026-07")
		if err != nil {
			t.Fatal(err)
		}
		if totals.Lessons != 10 || totals.Amount != 500 {
			t.Fatalf("got %+v, want 10 lessons / 500.00", totals)
		}
	})

	t.Run("confirm_is_idempotent", func(t *testing.T) {
		first, err := svc.Confirm(ctx, tenant, teacher, "2026-07")
		if err != nil {
			t.Fatal(err)
		}
		second, err := svc.Confirm(ctx, tenant, teacher, "2026-07")
		if err != nil {
			t.Fatal(err)
		}
		if first.ID != second.ID {
			t.Fatalf("confirm created two rows: %s vs %s", first.ID, second.ID)
		}
		if second.Status != models.ClosingPendente || second.ConfirmationStatus != models.ConfirmationOK {
			t.Fatalf("got %s/%s", second.Status, second.ConfirmationStatus)
		}
		closingID = second.ID
	})

	t.Run("paid_blocked_without_invoice", func(t *testing.T) {
		if _, err := svc.Acknowledge(ctx, tenant, closingID); err != nil {
			t.Fatal(err)
		}
		// drive the row to AGUARDANDO without ever attaching the PDF
		if _, err := db.TransitionClosing(ctx, h.DB, tenant, closingID, models.ClosingConfirmado, models.ClosingEmAnalise, nil); err != nil {
			t.Fatal(err)
		}
		if _, err := svc.Approve(ctx, tenant, closingID); err != nil {
			t.Fatal(err)
		}

		_, err := svc.MarkPaid(ctx, tenant, closingID)
		if !errors.Is(err, closing.ErrInvoiceRequired) {
			t.Fatalf("got %v, want ErrInvoiceRequired", err)
		}
	})

	t.Run("invoice_then_paid", func(t *testing.T) {
		c, err := svc.AttachInvoice(ctx, tenant, teacher, "2026-07", "application/pdf", []byte("%PDF-1.4"))
		if err != nil {
			t.Fatal(err)
		}
		if c.Status != models.ClosingEmAnalise || c.NFLink == nil {
			t.Fatalf("after upload: status=%s nf=%v", c.Status, c.NFLink)
		}

		if _, err := svc.Approve(ctx, tenant, closingID); err != nil {
			t.Fatal(err)
		}
		paid, err := svc.MarkPaid(ctx, tenant, closingID)
		if err != nil {
			t.Fatal(err)
		}
		if paid.Status != models.ClosingPago || paid.PaidAt == nil {
			t.Fatalf("got status=%s paid_at=%v", paid.Status, paid.PaidAt)
		}

		// terminal: nothing moves a paid closing
		if _, err := svc.Reject(ctx, tenant, closingID, "tarde demais"); !errors.Is(err, closing.ErrBadTransition) {
			t.Fatalf("got %v, want ErrBadTransition", err)
		}
	})

	t.Run("resubmission_cannot_reopen_paid_month", func(t *testing.T) {
		if _, err := svc.Confirm(ctx, tenant, teacher, "2026-07"); !errors.Is(err, closing.ErrBadTransition) {
			t.Fatalf("confirm: got %v, want ErrBadTransition", err)
		}
		if _, err := svc.Contest(ctx, tenant, teacher, "2026-07", "quero revisar"); !errors.Is(err, closing.ErrBadTransition) {
			t.Fatalf("contest: got %v, want ErrBadTransition", err)
		}

		got, err := db.GetClosing(ctx, h.DB, tenant, teacher, "2026-07")
		if err != nil {
			t.Fatal(err)
		}
		if got.Status != models.ClosingPago || got.PaidAt == nil || got.NFLink == nil {
			t.Fatalf("paid row was touched: status=%s paid_at=%v nf=%v", got.Status, got.PaidAt, got.NFLink)
		}
	})

	t.Run("resubmission_after_rejection_loops_back", func(t *testing.T) {
		c, err := svc.Confirm(ctx, tenant, teacher, "2026-06")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := svc.Reject(ctx, tenant, c.ID, "faltou detalhe"); err != nil {
			t.Fatal(err)
		}

		re, err := svc.Contest(ctx, tenant, teacher, "2026-06", "totais revisados")
		if err != nil {
			t.Fatal(err)
		}
		if re.Status != models.ClosingPendente || re.ConfirmationStatus != models.ConfirmationContested {
			t.Fatalf("got %s/%s, want PENDENTE/CONTESTADO", re.Status, re.ConfirmationStatus)
		}
	})

	t.Run("contest_requires_reason", func(t *testing.T) {
		if _, err := svc.Contest(ctx, tenant, teacher, "2026-07", ""); !errors.Is(err, closing.ErrReasonRequired) {
			t.Fatalf("got %v, want ErrReasonRequired", err)
		}
	})
}
