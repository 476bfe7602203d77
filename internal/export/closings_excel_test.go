package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/wisewolf/educore-backend/internal/models"
)

func TestClosingsWorkbook(t *testing.T) {
	teacher := uuid.New()
	nf := "/files/invoices/x.pdf"
	paid := time.Date(2026, 8, 5, 0, 0, 0, 0, time.UTC)
	rows := []models.TeacherClosing{
		{
			TeacherID: teacher, MonthYear: "2026-07",
			TotalClasses: 12, TotalAmount: 960,
			Status:             models.ClosingPago,
			ConfirmationStatus: models.ConfirmationOK,
			NFLink:             &nf, PaidAt: &paid,
		},
		{
			TeacherID: uuid.New(), MonthYear: "2026-07",
			TotalClasses: 8, TotalAmount: 400,
			Status:             models.ClosingPendente,
			ConfirmationStatus: models.ConfirmationContested,
		},
	}

	buf, err := ClosingsWorkbook("2026-07", rows, map[string]string{teacher.String(): "Maria"})
	if err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = f.Close() }()

	sheet := "Fechamento 2026-07"
	got, err := f.GetCellValue(sheet, "A2")
	if err != nil {
		t.Fatal(err)
	}
	if got != "Maria" {
		t.Fatalf("A2 = %q, want the resolved teacher name", got)
	}

	// unknown teacher falls back to the id
	got, _ = f.GetCellValue(sheet, "A3")
	if got != rows[1].TeacherID.String() {
		t.Fatalf("A3 = %q, want raw teacher id", got)
	}

	got, _ = f.GetCellValue(sheet, "D2")
	if got != "960.00" {
		t.Fatalf("D2 = %q, want formatted amount", got)
	}
	got, _ = f.GetCellValue(sheet, "H2")
	if got != "05/08/2026" {
		t.Fatalf("H2 = %q, want paid date", got)
	}
	got, _ = f.GetCellValue(sheet, "H3")
	if got != "" {
		t.Fatalf("H3 = %q, want empty for unpaid", got)
	}
}

func TestColName(t *testing.T) {
	cases := map[int]string{1: "A", 8: "H", 26: "Z", 27: "AA", 52: "AZ"}
	for n, want := range cases {
		if got := colName(n); got != want {
			t.Errorf("colName(%d) = %q, want %q", n, got, want)
		}
	}
}
