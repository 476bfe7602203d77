package models

import (
	"time"

	"github.com/google/uuid"
)

type WhatsAppInstance struct {
	ID           uuid.UUID `db:"id"`
	TenantID     uuid.UUID `db:"tenant_id"`
	OwnerID      uuid.UUID `db:"owner_id"` // teacher profile
	InstanceName string    `db:"instance_name"`
	Status       string    `db:"status"` // connected | connecting | disconnected
	Phone        *string   `db:"phone"`
	UpdatedAt    time.Time `db:"updated_at"`
	CreatedAt    time.Time `db:"created_at"`
}

const InstanceConnected = "connected"

// Message kinds recorded in whatsapp_logs.
const (
	WAKindReminder = "reminder"
	WAKindManual   = "manual"
)

// WhatsAppLog is the outbound-message audit row; the unique key
// (instance, student, date, time, kind) also dedupes lesson reminders.
type WhatsAppLog struct {
	ID         uuid.UUID `db:"id"`
	TenantID   uuid.UUID `db:"tenant_id"`
	InstanceID uuid.UUID `db:"instance_id"`
	StudentID  uuid.UUID `db:"student_id"`
	ClassDate  string    `db:"class_date"`
	ClassTime  string    `db:"class_time"`
	Kind       string    `db:"kind"`
	Message    string    `db:"message"`
	SentAt     time.Time `db:"sent_at"`
}
