// Package analytics derives study and task statistics from the store's
// collections. Every function is pure and recomputes from its arguments.
package analytics

import (
	"sort"
	"time"

	"github.com/sadopc/uniflow/internal/store"
)

// DefaultSubject labels sessions recorded without a subject.
const DefaultSubject = "General"

type DayTotal struct {
	Date    time.Time
	Minutes int
}

type WeekTotal struct {
	Start   time.Time
	Minutes int
}

func (w WeekTotal) Hours() float64 {
	return float64(w.Minutes) / 60
}

type SubjectTotal struct {
	Subject string
	Minutes int
}

// TodayHours sums the sessions that started on now's calendar day.
func TodayHours(sessions []store.StudySession, now time.Time) float64 {
	total := 0
	for _, s := range sessions {
		if SameDay(s.StartTime, now) {
			total += s.Duration
		}
	}
	return float64(total) / 60
}

// WeekHours sums the sessions that started in the Monday-started week
// containing now.
func WeekHours(sessions []store.StudySession, now time.Time) float64 {
	start := WeekStart(now)
	return float64(minutesBetween(sessions, start, start.AddDate(0, 0, 7))) / 60
}

// WeekByDay returns per-day minutes for Monday through Sunday of now's week.
func WeekByDay(sessions []store.StudySession, now time.Time) [7]DayTotal {
	var days [7]DayTotal
	start := WeekStart(now)
	for i := range days {
		day := start.AddDate(0, 0, i)
		days[i] = DayTotal{
			Date:    day,
			Minutes: minutesBetween(sessions, day, day.AddDate(0, 0, 1)),
		}
	}
	return days
}

// AverageSessionLength is the mean duration in minutes, 0 without sessions.
func AverageSessionLength(sessions []store.StudySession) float64 {
	if len(sessions) == 0 {
		return 0
	}
	total := 0
	for _, s := range sessions {
		total += s.Duration
	}
	return float64(total) / float64(len(sessions))
}

// MostProductiveDay finds the calendar day with the most study minutes,
// judged in loc. Ties go to the earliest day. ok is false without sessions.
func MostProductiveDay(sessions []store.StudySession, loc *time.Location) (best DayTotal, ok bool) {
	for _, d := range DailyTotals(sessions, loc) {
		if !ok || d.Minutes > best.Minutes {
			best = d
			ok = true
		}
	}
	return best, ok
}

// DailyTotals groups session minutes by start day in loc, oldest first.
func DailyTotals(sessions []store.StudySession, loc *time.Location) []DayTotal {
	if loc == nil {
		loc = time.Local
	}
	byDay := make(map[time.Time]int)
	for _, s := range sessions {
		byDay[DayStart(s.StartTime.In(loc))] += s.Duration
	}
	totals := make([]DayTotal, 0, len(byDay))
	for day, mins := range byDay {
		totals = append(totals, DayTotal{Date: day, Minutes: mins})
	}
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].Date.Before(totals[j].Date)
	})
	return totals
}

// SubjectBreakdown maps subject to total minutes.
func SubjectBreakdown(sessions []store.StudySession) map[string]int {
	out := make(map[string]int)
	for _, s := range sessions {
		subject := s.Subject
		if subject == "" {
			subject = DefaultSubject
		}
		out[subject] += s.Duration
	}
	return out
}

// SubjectTotals is SubjectBreakdown ordered by minutes, then name.
func SubjectTotals(sessions []store.StudySession) []SubjectTotal {
	breakdown := SubjectBreakdown(sessions)
	totals := make([]SubjectTotal, 0, len(breakdown))
	for subject, mins := range breakdown {
		totals = append(totals, SubjectTotal{Subject: subject, Minutes: mins})
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Minutes != totals[j].Minutes {
			return totals[i].Minutes > totals[j].Minutes
		}
		return totals[i].Subject < totals[j].Subject
	})
	return totals
}

// WeeklyTrend returns study time for the given number of Monday-started
// weeks ending with now's week, oldest first.
func WeeklyTrend(sessions []store.StudySession, now time.Time, weeks int) []WeekTotal {
	if weeks <= 0 {
		return nil
	}
	current := WeekStart(now)
	trend := make([]WeekTotal, weeks)
	for i := range trend {
		start := current.AddDate(0, 0, -7*(weeks-1-i))
		trend[i] = WeekTotal{
			Start:   start,
			Minutes: minutesBetween(sessions, start, start.AddDate(0, 0, 7)),
		}
	}
	return trend
}

// StudyStreak counts consecutive days with at least one session, ending
// today, or yesterday while today has nothing recorded yet.
func StudyStreak(sessions []store.StudySession, now time.Time) int {
	studied := make(map[time.Time]bool)
	for _, s := range sessions {
		studied[DayStart(s.StartTime.In(now.Location()))] = true
	}
	day := DayStart(now)
	if !studied[day] {
		day = day.AddDate(0, 0, -1)
	}
	streak := 0
	for studied[day] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

func minutesBetween(sessions []store.StudySession, from, to time.Time) int {
	total := 0
	for _, s := range sessions {
		if !s.StartTime.Before(from) && s.StartTime.Before(to) {
			total += s.Duration
		}
	}
	return total
}
