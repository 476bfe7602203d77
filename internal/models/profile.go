package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

// Profile is a person scoped to exactly one tenant. Role and tenant are
// immutable after creation.
type Profile struct {
	ID           uuid.UUID `db:"id"`
	TenantID     uuid.UUID `db:"tenant_id"`
	Role         Role      `db:"role"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Phone        *string   `db:"phone"`
	HourlyRate   *float64  `db:"hourly_rate"` // teachers
	Module       *string   `db:"module"`      // students
	XP           int       `db:"xp"`          // students, gamification
	Streak       int       `db:"streak"`
	IsActive     bool      `db:"is_active"`
	CreatedAt    time.Time `db:"created_at"`
}
