package closing

import (
	"testing"

	"github.com/wisewolf/educore-backend/internal/models"
)

func log(presence string, subtype *string) models.ClassLog {
	return models.ClassLog{Presence: presence, Subtype: subtype}
}

func ptr(s string) *string { return &s }

func TestCompute(t *testing.T) {
	t.Run("professor_absence_not_billed", func(t *testing.T) {
		logs := []models.ClassLog{
			log(models.PresencePresenca, nil),
			log(models.PresenceFaltaProfessor, nil),
		}
		got := Compute(logs, 80)
		if got.Lessons != 1 || got.Amount != 80 {
			t.Fatalf("got %+v, want 1 lesson / 80.00", got)
		}
	})

	t.Run("student_absence_still_billed", func(t *testing.T) {
		logs := []models.ClassLog{
			log(models.PresenceFalta, nil),
			log(models.PresenceFaltaJustif, nil),
		}
		got := Compute(logs, 50)
		if got.Lessons != 2 || got.Amount != 100 {
			t.Fatalf("got %+v, want 2 lessons / 100.00", got)
		}
	})

	t.Run("makeups_not_billed", func(t *testing.T) {
		logs := make([]models.ClassLog, 0, 12)
		for i := 0; i < 10; i++ {
			logs = append(logs, log(models.PresencePresenca, nil))
		}
		logs = append(logs, log(models.PresencePresenca, ptr(models.SubtypeReposicao)))
		logs = append(logs, log(models.PresencePresenca, ptr(models.SubtypeReposicao)))

		got := Compute(logs, 50)
		if got.Lessons != 10 {
			t.Fatalf("lessons = %d, want 10", got.Lessons)
		}
		if got.Amount != 500 {
			t.Fatalf("amount = %.2f, want 500.00", got.Amount)
		}
	})

	t.Run("empty_month", func(t *testing.T) {
		got := Compute(nil, 120)
		if got.Lessons != 0 || got.Amount != 0 {
			t.Fatalf("got %+v, want zeroes", got)
		}
	})
}
