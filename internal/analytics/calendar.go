package analytics

import "time"

// DayStart returns midnight of t's calendar day in t's location.
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WeekStart returns midnight of the Monday starting the week that contains t.
func WeekStart(t time.Time) time.Time {
	day := DayStart(t)
	weekday := day.Weekday()
	if weekday == time.Sunday {
		weekday = 7
	}
	return day.AddDate(0, 0, -int(weekday-time.Monday))
}

// SameDay reports whether a and b fall on the same calendar day in b's location.
func SameDay(a, b time.Time) bool {
	a = a.In(b.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DaysUntil counts calendar days from now's day to t's day. Negative when t
// is on an earlier day.
func DaysUntil(t, now time.Time) int {
	from := DayStart(now)
	to := DayStart(t.In(now.Location()))
	// Round to absorb DST shifts.
	return int(to.Sub(from).Round(24*time.Hour) / (24 * time.Hour))
}
