package closing

import (
	"errors"
	"testing"

	"github.com/wisewolf/educore-backend/internal/models"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct {
		from, to models.ClosingStatus
	}{
		{models.ClosingPendente, models.ClosingConfirmado},
		{models.ClosingPendente, models.ClosingRejeitado},
		{models.ClosingConfirmado, models.ClosingEmAnalise},
		{models.ClosingEmAnalise, models.ClosingAguardando},
		{models.ClosingAguardando, models.ClosingPago},
		{models.ClosingAguardando, models.ClosingEmAnalise},
		{models.ClosingRejeitado, models.ClosingPendente},
		{models.ClosingRejeitado, models.ClosingEmAnalise},
	}
	for _, tc := range allowed {
		if !CanTransition(tc.from, tc.to) {
			t.Errorf("%s → %s should be allowed", tc.from, tc.to)
		}
	}

	denied := []struct {
		from, to models.ClosingStatus
	}{
		{models.ClosingPendente, models.ClosingPago},
		{models.ClosingPendente, models.ClosingAguardando},
		{models.ClosingConfirmado, models.ClosingPago},
		{models.ClosingPago, models.ClosingPendente},
		{models.ClosingPago, models.ClosingRejeitado},
		{models.ClosingEmAnalise, models.ClosingConfirmado},
	}
	for _, tc := range denied {
		if CanTransition(tc.from, tc.to) {
			t.Errorf("%s → %s should be denied", tc.from, tc.to)
		}
	}
}

func TestTerminal(t *testing.T) {
	if !Terminal(models.ClosingPago) {
		t.Fatal("PAGO must be terminal")
	}
	for _, s := range []models.ClosingStatus{
		models.ClosingPendente, models.ClosingConfirmado, models.ClosingEmAnalise,
		models.ClosingAguardando, models.ClosingRejeitado,
	} {
		if Terminal(s) {
			t.Errorf("%s must not be terminal", s)
		}
	}
}

func TestValidateInvoice(t *testing.T) {
	if err := ValidateInvoice("application/pdf", 1024); err != nil {
		t.Fatalf("valid pdf rejected: %v", err)
	}
	if err := ValidateInvoice("image/png", 1024); !errors.Is(err, ErrNotPDF) {
		t.Fatalf("got %v, want ErrNotPDF", err)
	}
	if err := ValidateInvoice("application/pdf", maxInvoiceSize+1); !errors.Is(err, ErrInvoiceTooLarge) {
		t.Fatalf("got %v, want ErrInvoiceTooLarge", err)
	}
	if err := ValidateInvoice("application/pdf", maxInvoiceSize); err != nil {
		t.Fatalf("exact limit rejected: %v", err)
	}
}

func TestInvoiceUploadAllowed(t *testing.T) {
	if invoiceUploadAllowed(models.ClosingPendente) {
		t.Fatal("upload must wait for admin acknowledgement")
	}
	if invoiceUploadAllowed(models.ClosingEmAnalise) {
		t.Fatal("upload during review would clobber the file under analysis")
	}
	for _, s := range []models.ClosingStatus{
		models.ClosingConfirmado, models.ClosingAguardando, models.ClosingPago, models.ClosingRejeitado,
	} {
		if !invoiceUploadAllowed(s) {
			t.Errorf("upload should be allowed in %s", s)
		}
	}
}
