package models

import (
	"time"

	"github.com/google/uuid"
)

// CRMLead is a prospective student tracked by a school.
type CRMLead struct {
	ID        uuid.UUID `db:"id"`
	TenantID  uuid.UUID `db:"tenant_id"`
	Name      string    `db:"name"`
	Phone     *string   `db:"phone"`
	Email     *string   `db:"email"`
	Status    string    `db:"status"` // NOVO | CONTATADO | MATRICULADO | PERDIDO
	Notes     *string   `db:"notes"`
	CreatedAt time.Time `db:"created_at"`
}

// SaaSLead is a platform-level signup from the marketing page; not scoped to
// any tenant.
type SaaSLead struct {
	ID         uuid.UUID `db:"id"`
	SchoolName string    `db:"school_name"`
	Name       string    `db:"name"`
	Email      string    `db:"email"`
	Phone      *string   `db:"phone"`
	CreatedAt  time.Time `db:"created_at"`
}

// TrainingModule is platform-level teacher-training content.
type TrainingModule struct {
	ID        uuid.UUID `db:"id"`
	Title     string    `db:"title"`
	Content   string    `db:"content"`
	VideoURL  *string   `db:"video_url"`
	Position  int       `db:"position"`
	CreatedAt time.Time `db:"created_at"`
}

// StudentEvaluation is a periodic assessment entry.
type StudentEvaluation struct {
	ID        uuid.UUID `db:"id"`
	TenantID  uuid.UUID `db:"tenant_id"`
	StudentID uuid.UUID `db:"student_id"`
	TeacherID uuid.UUID `db:"teacher_id"`
	Period    string    `db:"period"` // "YYYY-MM"
	Score     int       `db:"score"`  // 0..100
	Notes     *string   `db:"notes"`
	CreatedAt time.Time `db:"created_at"`
}

// LessonPlan is per-module lesson plan content.
type LessonPlan struct {
	ID        uuid.UUID `db:"id"`
	TenantID  uuid.UUID `db:"tenant_id"`
	Module    string    `db:"module"`
	Title     string    `db:"title"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
}
