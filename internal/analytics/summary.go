package analytics

import (
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sadopc/uniflow/internal/store"
)

const trendWeeks = 4

// Summary bundles every derived statistic shown on the progress view.
type Summary struct {
	TodayHours        float64
	WeekHours         float64
	WeekByDay         [7]DayTotal
	CompletionRate    int
	AverageSession    float64
	MostProductive    DayTotal
	HasMostProductive bool
	Subjects          []SubjectTotal
	Trend             []WeekTotal
	Streak            int
	TotalSessions     int
	CompletedTasks    int
	TotalTasks        int
	UrgentTasks       []store.Task
}

func Summarize(tasks []store.Task, sessions []store.StudySession, now time.Time) Summary {
	best, ok := MostProductiveDay(sessions, now.Location())
	done := 0
	for _, t := range tasks {
		if t.Completed {
			done++
		}
	}
	return Summary{
		TodayHours:        TodayHours(sessions, now),
		WeekHours:         WeekHours(sessions, now),
		WeekByDay:         WeekByDay(sessions, now),
		CompletionRate:    CompletionRate(tasks),
		AverageSession:    AverageSessionLength(sessions),
		MostProductive:    best,
		HasMostProductive: ok,
		Subjects:          SubjectTotals(sessions),
		Trend:             WeeklyTrend(sessions, now, trendWeeks),
		Streak:            StudyStreak(sessions, now),
		TotalSessions:     len(sessions),
		CompletedTasks:    done,
		TotalTasks:        len(tasks),
		UrgentTasks:       UrgentTasks(tasks, now, 3),
	}
}

type memoKey struct {
	version uint64
	day     string
}

// Memo caches summaries by store version and calendar day. Nothing is
// invalidated explicitly: a mutation bumps the version and old entries age
// out of the LRU.
type Memo struct {
	cache *lru.Cache[memoKey, Summary]
}

func NewMemo(size int) (*Memo, error) {
	if size <= 0 {
		size = 8
	}
	c, err := lru.New[memoKey, Summary](size)
	if err != nil {
		return nil, fmt.Errorf("create summary cache: %w", err)
	}
	return &Memo{cache: c}, nil
}

// Summary returns the cached summary for (version, now's day), computing it
// on a miss.
func (m *Memo) Summary(version uint64, tasks []store.Task, sessions []store.StudySession, now time.Time) Summary {
	key := memoKey{version: version, day: now.Format("2006-01-02")}
	if s, ok := m.cache.Get(key); ok {
		return s
	}
	s := Summarize(tasks, sessions, now)
	m.cache.Add(key, s)
	return s
}

func (m *Memo) Len() int {
	return m.cache.Len()
}
