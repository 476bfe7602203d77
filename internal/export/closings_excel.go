// Package export builds the admin-facing Excel report of monthly closings.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/wisewolf/educore-backend/internal/models"
)

var closingHeader = []string{
	"Professor", "Mês", "Aulas", "Valor (R$)", "Status", "Confirmação", "Nota Fiscal", "Pago em",
}

// ClosingsWorkbook renders one sheet per month with a styled header row and
// auto-filter.
func ClosingsWorkbook(monthYear string, rows []models.TeacherClosing, teacherNames map[string]string) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	sheet := "Fechamento " + monthYear
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	bold, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	for col, h := range closingHeader {
		cell := fmt.Sprintf("%s1", colName(col+1))
		if err := f.SetCellStr(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("set cell %s: %w", cell, err)
		}
	}
	end := colName(len(closingHeader)) + "1"
	_ = f.SetCellStyle(sheet, "A1", end, bold)
	_ = f.AutoFilter(sheet, "A1:"+end, nil)

	for i, c := range rows {
		name := teacherNames[c.TeacherID.String()]
		if name == "" {
			name = c.TeacherID.String()
		}
		nf := ""
		if c.NFLink != nil {
			nf = *c.NFLink
		}
		paidAt := ""
		if c.PaidAt != nil {
			paidAt = c.PaidAt.Format("02/01/2006")
		}
		vals := []string{
			name,
			c.MonthYear,
			fmt.Sprintf("%d", c.TotalClasses),
			fmt.Sprintf("%.2f", c.TotalAmount),
			string(c.Status),
			string(c.ConfirmationStatus),
			nf,
			paidAt,
		}
		for col, v := range vals {
			cell := fmt.Sprintf("%s%d", colName(col+1), i+2)
			if err := f.SetCellStr(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}

	// column width from header and first rows
	for c := 1; c <= len(closingHeader); c++ {
		w := float64(len(closingHeader[c-1])) * 1.2
		if w < 12 {
			w = 12
		}
		if w > 40 {
			w = 40
		}
		_ = f.SetColWidth(sheet, colName(c), colName(c), w)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return &buf, nil
}

// colName converts a 1-based column index to its Excel letter.
func colName(n int) string {
	s := ""
	for n > 0 {
		n--
		s = string(rune('A'+n%26)) + s
		n /= 26
	}
	return s
}
