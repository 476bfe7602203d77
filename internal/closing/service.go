package closing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wisewolf/educore-backend/internal/ctxutil"
	"github.com/wisewolf/educore-backend/internal/db"
	"github.com/wisewolf/educore-backend/internal/models"
	"github.com/wisewolf/educore-backend/internal/storage"
)

type Service struct {
	DB       *sql.DB
	Invoices *storage.InvoiceStore
	Log      *zap.SugaredLogger
}

// TotalsFor recomputes the month from the ledger. There is deliberately no
// snapshot: logs edited after confirmation change the preview but not the
// already-written closing row.
func (s *Service) TotalsFor(ctx context.Context, tenantID, teacherID uuid.UUID, monthYear string) (Totals, error) {
	if _, err := time.Parse("2006-01", monthYear); err != nil {
		return Totals{}, fmt.Errorf("bad month %q: %w", monthYear, err)
	}

	dbCtx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	teacher, err := db.GetProfile(dbCtx, s.DB, tenantID, teacherID)
	if err != nil {
		return Totals{}, err
	}
	if teacher.HourlyRate == nil {
		return Totals{}, ErrNoHourlyRate
	}

	logs, err := db.ListClassLogsByMonth(dbCtx, s.DB, tenantID, teacherID, monthYear)
	if err != nil {
		return Totals{}, err
	}
	return Compute(logs, *teacher.HourlyRate), nil
}

// resubmittable guards the teacher's submission path: once the admin
// pipeline has moved past review, a re-confirm or re-contest must not drag
// the row back to PENDENTE. Re-submission after rejection is the one loop
// back in.
func (s *Service) resubmittable(ctx context.Context, tenantID, teacherID uuid.UUID, monthYear string) error {
	c, err := db.GetClosing(ctx, s.DB, tenantID, teacherID, monthYear)
	if errors.Is(err, db.ErrNotFound) {
		return nil // first submission for the month
	}
	if err != nil {
		return err
	}
	if c.Status != models.ClosingPendente && c.Status != models.ClosingRejeitado {
		return fmt.Errorf("%w: %s → %s", ErrBadTransition, c.Status, models.ClosingPendente)
	}
	return nil
}

// Confirm writes the teacher's agreement with the computed totals. Upserts on
// (teacher, month): confirming twice updates the same row.
func (s *Service) Confirm(ctx context.Context, tenantID, teacherID uuid.UUID, monthYear string) (*models.TeacherClosing, error) {
	totals, err := s.TotalsFor(ctx, tenantID, teacherID, monthYear)
	if err != nil {
		return nil, err
	}

	dbCtx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	if err := s.resubmittable(dbCtx, tenantID, teacherID, monthYear); err != nil {
		return nil, err
	}
	return s.upsert(dbCtx, models.TeacherClosing{
		TenantID:           tenantID,
		TeacherID:          teacherID,
		MonthYear:          monthYear,
		TotalClasses:       totals.Lessons,
		TotalAmount:        totals.Amount,
		Status:             models.ClosingPendente,
		ConfirmationStatus: models.ConfirmationOK,
	})
}

// Contest records the teacher's disagreement with the computed totals.
func (s *Service) Contest(ctx context.Context, tenantID, teacherID uuid.UUID, monthYear, reason string) (*models.TeacherClosing, error) {
	if reason == "" {
		return nil, ErrReasonRequired
	}
	totals, err := s.TotalsFor(ctx, tenantID, teacherID, monthYear)
	if err != nil {
		return nil, err
	}

	dbCtx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	if err := s.resubmittable(dbCtx, tenantID, teacherID, monthYear); err != nil {
		return nil, err
	}
	return s.upsert(dbCtx, models.TeacherClosing{
		TenantID:           tenantID,
		TeacherID:          teacherID,
		MonthYear:          monthYear,
		TotalClasses:       totals.Lessons,
		TotalAmount:        totals.Amount,
		Status:             models.ClosingPendente,
		ConfirmationStatus: models.ConfirmationContested,
		TeacherNotes:       &reason,
	})
}

// upsert backs Confirm/Contest. The statement itself refuses to touch rows
// past review, so a race with an admin transition surfaces as a conflict
// instead of a silent status reset.
func (s *Service) upsert(ctx context.Context, c models.TeacherClosing) (*models.TeacherClosing, error) {
	out, err := db.UpsertClosing(ctx, s.DB, c)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrConflict
	}
	return out, err
}

// AttachInvoice validates and stores the PDF, then forces the closing back to
// EM ANÁLISE with the file's public URL.
func (s *Service) AttachInvoice(ctx context.Context, tenantID, teacherID uuid.UUID, monthYear, contentType string, data []byte) (*models.TeacherClosing, error) {
	if err := ValidateInvoice(contentType, int64(len(data))); err != nil {
		return nil, err
	}

	dbCtx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	c, err := db.GetClosing(dbCtx, s.DB, tenantID, teacherID, monthYear)
	if err != nil {
		return nil, err
	}
	if !invoiceUploadAllowed(c.Status) {
		return nil, ErrInvoiceNotAllowed
	}

	url, err := s.Invoices.Save(tenantID, teacherID, monthYear, data)
	if err != nil {
		return nil, err
	}
	if err := db.SetClosingInvoice(dbCtx, s.DB, tenantID, c.ID, url); err != nil {
		return nil, err
	}
	s.Log.Infow("invoice attached", "closing", c.ID, "month", monthYear)
	return db.GetClosingByID(dbCtx, s.DB, tenantID, c.ID)
}

// transition reads the row, checks the machine, then applies the guarded
// update. A guard miss means someone else moved the row first.
func (s *Service) transition(ctx context.Context, tenantID, id uuid.UUID, to models.ClosingStatus, adminNotes *string) (*models.TeacherClosing, error) {
	dbCtx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	c, err := db.GetClosingByID(dbCtx, s.DB, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(c.Status, to) {
		return nil, fmt.Errorf("%w: %s → %s", ErrBadTransition, c.Status, to)
	}
	ok, err := db.TransitionClosing(dbCtx, s.DB, tenantID, id, c.Status, to, adminNotes)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConflict
	}
	return db.GetClosingByID(dbCtx, s.DB, tenantID, id)
}

// Acknowledge: admin accepts the submission (PENDENTE → CONFIRMADO), which
// unlocks the teacher's invoice upload.
func (s *Service) Acknowledge(ctx context.Context, tenantID, id uuid.UUID) (*models.TeacherClosing, error) {
	return s.transition(ctx, tenantID, id, models.ClosingConfirmado, nil)
}

// Approve: invoice reviewed, queue for payment (EM ANÁLISE → AGUARDANDO).
func (s *Service) Approve(ctx context.Context, tenantID, id uuid.UUID) (*models.TeacherClosing, error) {
	return s.transition(ctx, tenantID, id, models.ClosingAguardando, nil)
}

// Reject moves any non-terminal closing to REJEITADO; the note is mandatory.
func (s *Service) Reject(ctx context.Context, tenantID, id uuid.UUID, note string) (*models.TeacherClosing, error) {
	if note == "" {
		return nil, ErrNoteRequired
	}
	return s.transition(ctx, tenantID, id, models.ClosingRejeitado, &note)
}

// MarkPaid finishes the workflow. Payment is hard-blocked until the invoice
// is attached.
func (s *Service) MarkPaid(ctx context.Context, tenantID, id uuid.UUID) (*models.TeacherClosing, error) {
	dbCtx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	c, err := db.GetClosingByID(dbCtx, s.DB, tenantID, id)
	if err != nil {
		return nil, err
	}
	if c.Status != models.ClosingAguardando {
		return nil, fmt.Errorf("%w: %s → %s", ErrBadTransition, c.Status, models.ClosingPago)
	}
	if c.NFLink == nil || *c.NFLink == "" {
		return nil, ErrInvoiceRequired
	}
	ok, err := db.MarkClosingPaid(dbCtx, s.DB, tenantID, id, time.Now())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConflict
	}
	s.Log.Infow("closing paid", "closing", id)
	return db.GetClosingByID(dbCtx, s.DB, tenantID, id)
}
