package schedule

import (
	"testing"
	"time"

	"github.com/sadopc/uniflow/internal/store"
)

func at(day, hour, min int) time.Time {
	return time.Date(2025, time.June, day, hour, min, 0, 0, time.UTC)
}

func lecture(title string, start time.Time, mins int, rec store.Recurrence) store.Lecture {
	return store.Lecture{
		ID:         title,
		Title:      title,
		StartTime:  start,
		EndTime:    start.Add(time.Duration(mins) * time.Minute),
		Recurrence: rec,
	}
}

func titles(occ []Occurrence) []string {
	var out []string
	for _, o := range occ {
		out = append(out, o.Lecture.Title)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ============================================================
// Occurrences
// ============================================================

func TestOccurrencesByRecurrence(t *testing.T) {
	// June 2 2025 is a Monday.
	lectures := []store.Lecture{
		lecture("once", at(2, 9, 0), 60, store.RecurrenceNone),
		lecture("daily", at(2, 8, 0), 30, store.RecurrenceDaily),
		lecture("weekly", at(2, 13, 0), 90, store.RecurrenceWeekly),
	}
	cases := []struct {
		day  time.Time
		want []string
	}{
		{at(1, 12, 0), nil},                               // before every first date
		{at(2, 0, 0), []string{"daily", "once", "weekly"}}, // first day, ordered by start
		{at(3, 0, 0), []string{"daily"}},
		{at(9, 18, 0), []string{"daily", "weekly"}}, // next Monday
		{at(16, 0, 0), []string{"daily", "weekly"}},
	}
	for _, c := range cases {
		if got := titles(Occurrences(lectures, c.day)); !equal(got, c.want) {
			t.Errorf("Occurrences(%s) = %v, want %v", c.day.Format("Jan 02"), got, c.want)
		}
	}
}

func TestOccurrencesShiftTimesOntoDay(t *testing.T) {
	lectures := []store.Lecture{lecture("weekly", at(2, 13, 0), 90, store.RecurrenceWeekly)}
	occ := Occurrences(lectures, at(23, 7, 0))
	if len(occ) != 1 {
		t.Fatalf("expected 1 occurrence, got %d", len(occ))
	}
	if !occ[0].Start.Equal(at(23, 13, 0)) || !occ[0].End.Equal(at(23, 14, 30)) {
		t.Fatalf("occurrence = %v - %v", occ[0].Start, occ[0].End)
	}
	if !occ[0].Lecture.StartTime.Equal(at(2, 13, 0)) {
		t.Fatal("the lecture itself should keep its original times")
	}
}

func TestOccurrencesUnknownRecurrenceTreatedAsOnce(t *testing.T) {
	lectures := []store.Lecture{lecture("odd", at(2, 9, 0), 60, "")}
	if len(Occurrences(lectures, at(9, 0, 0))) != 0 {
		t.Fatal("a lecture without recurrence should not repeat")
	}
	if len(Occurrences(lectures, at(2, 0, 0))) != 1 {
		t.Fatal("a lecture without recurrence should occur on its own day")
	}
}

// ============================================================
// Week and Upcoming
// ============================================================

func TestWeek(t *testing.T) {
	for _, day := range []time.Time{at(2, 0, 0), at(5, 12, 0), at(8, 23, 59)} {
		week := Week(day)
		if !week[0].Equal(at(2, 0, 0)) || !week[6].Equal(at(8, 0, 0)) {
			t.Errorf("Week(%v) = %v .. %v", day, week[0], week[6])
		}
	}
}

func TestUpcoming(t *testing.T) {
	lectures := []store.Lecture{
		lecture("early", at(2, 8, 0), 60, store.RecurrenceDaily),
		lecture("mid", at(2, 10, 0), 60, store.RecurrenceDaily),
		lecture("late", at(2, 14, 0), 60, store.RecurrenceDaily),
	}
	now := at(4, 10, 30)
	got := Upcoming(lectures, now, 0)
	if !equal(titles(got), []string{"mid", "late"}) {
		t.Fatalf("Upcoming = %v", titles(got))
	}
	if !got[0].InProgress(now) || got[1].InProgress(now) {
		t.Fatal("only the 10:00 lecture should be in progress")
	}
	if len(Upcoming(lectures, now, 1)) != 1 {
		t.Fatal("limit not applied")
	}
	if len(Upcoming(lectures, at(4, 15, 0), 0)) != 0 {
		t.Fatal("a lecture that has ended should not be upcoming")
	}
}
