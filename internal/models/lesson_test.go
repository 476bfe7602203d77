package models

import (
	"testing"
	"time"
)

func TestWeekdayName(t *testing.T) {
	cases := map[time.Weekday]string{
		time.Monday:    Segunda,
		time.Tuesday:   Terca,
		time.Wednesday: Quarta,
		time.Thursday:  Quinta,
		time.Friday:    Sexta,
		time.Saturday:  Sabado,
		time.Sunday:    "",
	}
	for d, want := range cases {
		if got := WeekdayName(d); got != want {
			t.Errorf("WeekdayName(%v) = %q, want %q", d, got, want)
		}
	}
}

func TestClassLogBillable(t *testing.T) {
	rep := SubtypeReposicao
	cases := []struct {
		name string
		log  ClassLog
		want bool
	}{
		{"presence", ClassLog{Presence: PresencePresenca}, true},
		{"student_absence", ClassLog{Presence: PresenceFalta}, true},
		{"justified_absence", ClassLog{Presence: PresenceFaltaJustif}, true},
		{"professor_absence", ClassLog{Presence: PresenceFaltaProfessor}, false},
		{"makeup", ClassLog{Presence: PresencePresenca, Subtype: &rep}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.log.Billable(); got != tc.want {
				t.Fatalf("Billable() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRescheduleScheduled(t *testing.T) {
	if (Reschedule{Date: ReschedulePendingDate}).Scheduled() {
		t.Fatal("sentinel date must not count as scheduled")
	}
	if !(Reschedule{Date: "2026-08-24"}).Scheduled() {
		t.Fatal("concrete date must count as scheduled")
	}
}
