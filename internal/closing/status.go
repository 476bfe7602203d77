package closing

import (
	"errors"

	"github.com/wisewolf/educore-backend/internal/models"
)

var (
	ErrBadTransition     = errors.New("transition not allowed for current status")
	ErrConflict          = errors.New("closing changed concurrently, reload and retry")
	ErrReasonRequired    = errors.New("contest reason is required")
	ErrNoteRequired      = errors.New("admin note is required to reject")
	ErrInvoiceRequired   = errors.New("invoice (nf_link) must be attached before marking paid")
	ErrInvoiceNotAllowed = errors.New("invoice upload not allowed for current status")
	ErrNotPDF            = errors.New("invoice must be a PDF")
	ErrInvoiceTooLarge   = errors.New("invoice exceeds the 5MB limit")
	ErrNoHourlyRate      = errors.New("teacher has no hourly rate configured")
)

// transitions is the single source of truth for the closing status machine.
// Teacher confirmation vs. contestation is carried separately in
// teacher_confirmation_status; a re-contest after rejection goes through the
// REJEITADO → PENDENTE edge.
var transitions = map[models.ClosingStatus][]models.ClosingStatus{
	models.ClosingPendente:   {models.ClosingConfirmado, models.ClosingRejeitado},
	models.ClosingConfirmado: {models.ClosingEmAnalise, models.ClosingRejeitado},
	models.ClosingEmAnalise:  {models.ClosingAguardando, models.ClosingRejeitado},
	models.ClosingAguardando: {models.ClosingPago, models.ClosingEmAnalise, models.ClosingRejeitado},
	models.ClosingRejeitado:  {models.ClosingPendente, models.ClosingEmAnalise},
	models.ClosingPago:       {}, // terminal
}

func CanTransition(from, to models.ClosingStatus) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is possible.
func Terminal(s models.ClosingStatus) bool { return len(transitions[s]) == 0 }

// invoiceUploadAllowed: the teacher may attach the PDF only after the admin
// has acted on the submission.
func invoiceUploadAllowed(s models.ClosingStatus) bool {
	switch s {
	case models.ClosingConfirmado, models.ClosingAguardando, models.ClosingPago, models.ClosingRejeitado:
		return true
	}
	return false
}

const maxInvoiceSize = 5 << 20 // 5MB

// ValidateInvoice enforces the upload constraints checked client-side in the
// legacy app: PDF MIME type, at most 5MB.
func ValidateInvoice(contentType string, size int64) error {
	if contentType != "application/pdf" {
		return ErrNotPDF
	}
	if size > maxInvoiceSize {
		return ErrInvoiceTooLarge
	}
	return nil
}
