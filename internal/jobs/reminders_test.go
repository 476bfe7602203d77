package jobs

import (
	"testing"
	"time"
)

func TestDue(t *testing.T) {
	loc, _ := time.LoadLocation("America/Sao_Paulo")
	lead := 60 * time.Minute
	tick := time.Minute
	start := time.Date(2026, 8, 24, 15, 0, 0, 0, loc)

	t.Run("exactly_at_lead", func(t *testing.T) {
		now := start.Add(-lead)
		if !Due(now, start, lead, tick) {
			t.Fatal("lesson exactly one lead away must be due")
		}
	})

	t.Run("within_half_tick", func(t *testing.T) {
		if !Due(start.Add(-lead).Add(20*time.Second), start, lead, tick) {
			t.Fatal("20s past the lead is still inside the tolerance")
		}
		if !Due(start.Add(-lead).Add(-20*time.Second), start, lead, tick) {
			t.Fatal("20s before the lead is still inside the tolerance")
		}
	})

	t.Run("outside_tolerance", func(t *testing.T) {
		if Due(start.Add(-lead).Add(40*time.Second), start, lead, tick) {
			t.Fatal("40s past the lead with a 30s tolerance must not be due")
		}
		if Due(start.Add(-2*lead), start, lead, tick) {
			t.Fatal("two hours before must not be due")
		}
	})

	t.Run("lesson_already_started", func(t *testing.T) {
		if Due(start.Add(time.Minute), start, lead, tick) {
			t.Fatal("no reminder after the lesson started")
		}
	})
}

func TestLessonStart(t *testing.T) {
	loc, _ := time.LoadLocation("America/Sao_Paulo")
	got, err := lessonStart("2026-08-24", "15:30", loc)
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2026, 8, 24, 15, 30, 0, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	if _, err := lessonStart("2026-08-24", "25:99", loc); err == nil {
		t.Fatal("bad time must error")
	}
}
