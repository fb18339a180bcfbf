package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/sadopc/uniflow/internal/store"
)

type TaskFilter string

const (
	FilterAll       TaskFilter = "all"
	FilterActive    TaskFilter = "active"
	FilterCompleted TaskFilter = "completed"
	FilterOverdue   TaskFilter = "overdue"
)

var TaskFilters = []TaskFilter{FilterAll, FilterActive, FilterCompleted, FilterOverdue}

type Urgency int

const (
	UrgencyNone Urgency = iota
	UrgencyWeek
	UrgencySoon
	UrgencyOverdue
)

// CompletionRate is round(100 * completed / total), 0 for no tasks.
func CompletionRate(tasks []store.Task) int {
	if len(tasks) == 0 {
		return 0
	}
	done := 0
	for _, t := range tasks {
		if t.Completed {
			done++
		}
	}
	return int(math.Round(100 * float64(done) / float64(len(tasks))))
}

// IsOverdue reports whether an incomplete task's deadline has passed.
func IsOverdue(t store.Task, now time.Time) bool {
	return !t.Completed && t.Deadline != nil && t.Deadline.Before(now)
}

func FilterTasks(tasks []store.Task, f TaskFilter, now time.Time) []store.Task {
	var out []store.Task
	for _, t := range tasks {
		switch f {
		case FilterActive:
			if t.Completed {
				continue
			}
		case FilterCompleted:
			if !t.Completed {
				continue
			}
		case FilterOverdue:
			if !IsOverdue(t, now) {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

// CountTasks returns how many tasks each filter would show.
func CountTasks(tasks []store.Task, now time.Time) map[TaskFilter]int {
	counts := make(map[TaskFilter]int, len(TaskFilters))
	for _, f := range TaskFilters {
		counts[f] = len(FilterTasks(tasks, f, now))
	}
	return counts
}

// SortTasks orders incomplete tasks first, then by priority, then by the
// earlier deadline. The input slice is not modified.
func SortTasks(tasks []store.Task) []store.Task {
	out := make([]store.Task, len(tasks))
	copy(out, tasks)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Completed != b.Completed {
			return !a.Completed
		}
		if a.Priority.Rank() != b.Priority.Rank() {
			return a.Priority.Rank() < b.Priority.Rank()
		}
		if a.Deadline != nil && b.Deadline != nil {
			return a.Deadline.Before(*b.Deadline)
		}
		return false
	})
	return out
}

// UrgentTasks returns up to limit incomplete tasks due within the next seven
// days (overdue included), by deadline and then priority.
func UrgentTasks(tasks []store.Task, now time.Time, limit int) []store.Task {
	var out []store.Task
	for _, t := range tasks {
		if t.Completed || t.Deadline == nil {
			continue
		}
		if DaysUntil(*t.Deadline, now) <= 7 {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.Deadline.Equal(*b.Deadline) {
			return a.Deadline.Before(*b.Deadline)
		}
		return a.Priority.Rank() < b.Priority.Rank()
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// DeadlineText renders a deadline relative to now.
func DeadlineText(deadline, now time.Time) string {
	days := DaysUntil(deadline, now)
	switch {
	case days == 0:
		return "Due today"
	case days == 1:
		return "Due tomorrow"
	case days < 0:
		return fmt.Sprintf("Overdue by %d %s", -days, plural(-days, "day"))
	case days <= 7:
		return fmt.Sprintf("Due in %d %s", days, plural(days, "day"))
	}
	return "Due " + deadline.In(now.Location()).Format("Jan 02")
}

func DeadlineUrgency(deadline, now time.Time) Urgency {
	days := DaysUntil(deadline, now)
	switch {
	case days < 0:
		return UrgencyOverdue
	case days <= 1:
		return UrgencySoon
	case days <= 3:
		return UrgencyWeek
	}
	return UrgencyNone
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
