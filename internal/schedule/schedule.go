// Package schedule expands lectures into the occurrences shown on a given
// day or week.
package schedule

import (
	"sort"
	"time"

	"github.com/sadopc/uniflow/internal/store"
)

// Occurrence is one lecture meeting on a concrete day.
type Occurrence struct {
	Lecture store.Lecture
	Start   time.Time
	End     time.Time
}

// Occurrences returns the lectures meeting on day, in day's location, ordered
// by start time. Recurring lectures never occur before their first date.
func Occurrences(lectures []store.Lecture, day time.Time) []Occurrence {
	loc := day.Location()
	target := dayStart(day)
	var out []Occurrence
	for _, l := range lectures {
		first := dayStart(l.StartTime.In(loc))
		if target.Before(first) {
			continue
		}
		var include bool
		switch l.Recurrence {
		case store.RecurrenceDaily:
			include = true
		case store.RecurrenceWeekly:
			include = first.Weekday() == target.Weekday()
		default:
			include = first.Equal(target)
		}
		if !include {
			continue
		}
		start := combine(target, l.StartTime.In(loc))
		end := start.Add(l.EndTime.Sub(l.StartTime))
		out = append(out, Occurrence{Lecture: l, Start: start, End: end})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out
}

// Week returns midnight of each day, Monday through Sunday, of the week
// containing day.
func Week(day time.Time) [7]time.Time {
	start := dayStart(day)
	weekday := start.Weekday()
	if weekday == time.Sunday {
		weekday = 7
	}
	start = start.AddDate(0, 0, -int(weekday-time.Monday))
	var days [7]time.Time
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

// Upcoming returns today's occurrences that have not ended by now, at most
// limit of them when limit is positive.
func Upcoming(lectures []store.Lecture, now time.Time, limit int) []Occurrence {
	var out []Occurrence
	for _, o := range Occurrences(lectures, now) {
		if !o.End.After(now) {
			continue
		}
		out = append(out, o)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// InProgress reports whether o is running at t.
func (o Occurrence) InProgress(t time.Time) bool {
	return !t.Before(o.Start) && t.Before(o.End)
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func combine(date, clock time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, clock.Hour(), clock.Minute(), clock.Second(), clock.Nanosecond(), date.Location())
}
