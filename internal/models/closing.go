package models

import (
	"time"

	"github.com/google/uuid"
)

// Closing statuses. PENDENTE means "submitted, awaiting admin review";
// whether the teacher agreed or contested lives in ConfirmationStatus.
type ClosingStatus string

const (
	ClosingPendente   ClosingStatus = "PENDENTE"
	ClosingEmAnalise  ClosingStatus = "EM ANÁLISE"
	ClosingAguardando ClosingStatus = "AGUARDANDO_PAGAMENTO"
	ClosingPago       ClosingStatus = "PAGO"
	ClosingRejeitado  ClosingStatus = "REJEITADO"
	ClosingConfirmado ClosingStatus = "CONFIRMADO"
)

// Teacher confirmation outcome for a month.
type ConfirmationStatus string

const (
	ConfirmationOK        ConfirmationStatus = "OK"
	ConfirmationContested ConfirmationStatus = "CONTESTADO"
)

// TeacherClosing is one row per (teacher, month): the monthly reconciliation
// of billable lessons and pay. Never deleted.
type TeacherClosing struct {
	ID                 uuid.UUID          `db:"id"`
	TenantID           uuid.UUID          `db:"tenant_id"`
	TeacherID          uuid.UUID          `db:"teacher_id"`
	MonthYear          string             `db:"month_year"` // "YYYY-MM"
	TotalClasses       int                `db:"total_classes"`
	TotalAmount        float64            `db:"total_amount"`
	Status             ClosingStatus      `db:"status"`
	ConfirmationStatus ConfirmationStatus `db:"teacher_confirmation_status"`
	TeacherNotes       *string            `db:"teacher_notes"`
	AdminNotes         *string            `db:"admin_notes"`
	NFLink             *string            `db:"nf_link"` // invoice public URL
	PaidAt             *time.Time         `db:"paid_at"`
	CreatedAt          time.Time          `db:"created_at"`
	UpdatedAt          time.Time          `db:"updated_at"`
}
