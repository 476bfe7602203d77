package models

import (
	"time"

	"github.com/google/uuid"
)

// Presence outcomes — a closed set of pt-BR strings, kept verbatim because
// they are persisted and shown to users as-is.
const (
	PresencePresenca       = "Presença"
	PresenceFalta          = "Falta"
	PresenceFaltaJustif    = "Falta Justificada"
	PresenceFaltaProfessor = "Falta do Professor"
	SubtypeReposicao       = "REPOSIÇÃO"
)

func ValidPresence(s string) bool {
	switch s {
	case PresencePresenca, PresenceFalta, PresenceFaltaJustif, PresenceFaltaProfessor:
		return true
	}
	return false
}

// ClassLog is one occurrence of a lesson: the append-only ledger from which
// pay and pending-lesson computations are derived.
type ClassLog struct {
	ID        uuid.UUID  `db:"id"`
	TenantID  uuid.UUID  `db:"tenant_id"`
	BookingID *uuid.UUID `db:"booking_id"`
	TeacherID uuid.UUID  `db:"teacher_id"`
	StudentID uuid.UUID  `db:"student_id"`
	ClassDate string     `db:"class_date"` // ISO date
	Presence  string     `db:"presence"`
	Subtype   *string    `db:"subtype"` // "REPOSIÇÃO" marks a makeup
	Content   *string    `db:"content"`
	CreatedAt time.Time  `db:"created_at"`
}

// Billable reports whether the log counts toward teacher pay. Professor
// absences and makeups never do.
func (l ClassLog) Billable() bool {
	if l.Presence == PresenceFaltaProfessor {
		return false
	}
	if l.Subtype != nil && *l.Subtype == SubtypeReposicao {
		return false
	}
	return true
}
