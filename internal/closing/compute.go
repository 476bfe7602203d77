// Package closing implements the monthly financial-closing workflow: the
// teacher confirms or contests a computed earnings total, the admin reviews,
// approves and pays it.
package closing

import (
	"github.com/wisewolf/educore-backend/internal/models"
)

// Totals is the computed earnings summary for one teacher-month.
type Totals struct {
	Lessons int     `json:"lessons"`
	Amount  float64 `json:"amount"`
}

// Compute derives the month's totals from the class-log ledger. Professor
// absences and makeups ("REPOSIÇÃO") are never billable.
func Compute(logs []models.ClassLog, hourlyRate float64) Totals {
	n := 0
	for _, l := range logs {
		if l.Billable() {
			n++
		}
	}
	return Totals{Lessons: n, Amount: float64(n) * hourlyRate}
}
