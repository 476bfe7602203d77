package jobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wisewolf/educore-backend/internal/ctxutil"
	"github.com/wisewolf/educore-backend/internal/db"
	"github.com/wisewolf/educore-backend/internal/metrics"
	"github.com/wisewolf/educore-backend/internal/models"
	"github.com/wisewolf/educore-backend/internal/observability"
	"github.com/wisewolf/educore-backend/internal/whatsapp"
)

// ReminderJob sends a WhatsApp message to each student shortly before the
// lesson starts. One reminder per lesson per day, deduped by the
// whatsapp_logs unique key.
type ReminderJob struct {
	DB   *sql.DB
	Log  *zap.SugaredLogger
	Loc  *time.Location
	Lead time.Duration // how long before the lesson to send
	Tick time.Duration // runner interval; also the match tolerance

	// Now is overridable in tests.
	Now func() time.Time
}

func (j *ReminderJob) now() time.Time {
	if j.Now != nil {
		return j.Now()
	}
	return time.Now().In(j.Loc)
}

// Due reports whether a lesson starting at start should be reminded now:
// start-now falls within half a tick of the lead. A tick missed to drift
// beyond the tolerance skips the reminder — no catch-up.
func Due(now, start time.Time, lead, tick time.Duration) bool {
	diff := start.Sub(now)
	tol := tick / 2
	return diff >= lead-tol && diff <= lead+tol
}

func (j *ReminderJob) Run(ctx context.Context) error {
	dbCtx, cancel := ctxutil.WithDBTimeout(ctx)
	instances, err := db.ListConnectedWAInstances(dbCtx, j.DB)
	cancel()
	if err != nil {
		observability.CaptureErr(err)
		return err
	}

	var firstErr error
	for _, inst := range instances {
		if err := j.runInstance(ctx, inst); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (j *ReminderJob) runInstance(ctx context.Context, inst models.WhatsAppInstance) error {
	dbCtx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	tenant, err := db.GetTenant(dbCtx, j.DB, inst.TenantID)
	if err != nil {
		return err
	}
	client, err := whatsapp.ForTenant(tenant)
	if errors.Is(err, whatsapp.ErrNotConfigured) {
		return nil // no gateway for this school: watchdog is a no-op
	}
	if err != nil {
		return err
	}

	now := j.now()
	today := now.Format("2006-01-02")
	weekday := models.WeekdayName(now.Weekday())
	if weekday == "" {
		return nil
	}

	bookings, err := db.ListBookingsForWeekday(dbCtx, j.DB, inst.TenantID, inst.OwnerID, weekday)
	if err != nil {
		return err
	}
	for _, b := range bookings {
		if b.StartDate != nil && *b.StartDate > today {
			continue
		}
		if err := j.maybeRemind(ctx, client, inst, b.StudentID, today, b.Time, now); err != nil {
			j.Log.Warnw("reminder failed", "instance", inst.InstanceName, "student", b.StudentID, "err", err)
		}
	}

	reschedules, err := db.ListReschedulesByTeacherDate(dbCtx, j.DB, inst.TenantID, inst.OwnerID, today)
	if err != nil {
		return err
	}
	for _, r := range reschedules {
		if r.Time == nil {
			continue
		}
		if err := j.maybeRemind(ctx, client, inst, r.StudentID, today, *r.Time, now); err != nil {
			j.Log.Warnw("reminder failed", "instance", inst.InstanceName, "student", r.StudentID, "err", err)
		}
	}
	return nil
}

func (j *ReminderJob) maybeRemind(ctx context.Context, client *whatsapp.Client, inst models.WhatsAppInstance, studentID uuid.UUID, date, classTime string, now time.Time) error {
	start, err := lessonStart(date, classTime, j.Loc)
	if err != nil {
		return err
	}
	if !Due(now, start, j.Lead, j.Tick) {
		return nil
	}

	dbCtx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	sent, err := db.HasReminder(dbCtx, j.DB, inst.ID, studentID, date, classTime)
	if err != nil {
		return err
	}
	if sent {
		return nil
	}

	student, err := db.GetProfile(dbCtx, j.DB, inst.TenantID, studentID)
	if err != nil {
		return err
	}
	if student.Phone == nil || *student.Phone == "" {
		return nil
	}

	text := fmt.Sprintf("Olá, %s! Lembrete: sua aula de hoje começa às %s. Até já!", student.Name, classTime)
	if err := client.SendText(ctx, inst.InstanceName, *student.Phone, text); err != nil {
		metrics.WASends.WithLabelValues(models.WAKindReminder, "error").Inc()
		return err
	}
	metrics.WASends.WithLabelValues(models.WAKindReminder, "ok").Inc()

	// Recorded only after a successful send; the unique key absorbs the race
	// between overlapping ticks.
	_, err = db.RecordWAMessage(dbCtx, j.DB, models.WhatsAppLog{
		TenantID:   inst.TenantID,
		InstanceID: inst.ID,
		StudentID:  studentID,
		ClassDate:  date,
		ClassTime:  classTime,
		Kind:       models.WAKindReminder,
		Message:    text,
	})
	return err
}

func lessonStart(date, classTime string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", date+" "+classTime, loc)
}
