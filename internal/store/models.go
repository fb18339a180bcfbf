package store

import "time"

type Recurrence string

const (
	RecurrenceNone   Recurrence = "none"
	RecurrenceDaily  Recurrence = "daily"
	RecurrenceWeekly Recurrence = "weekly"
)

type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank orders priorities from most to least pressing. Unknown values sort last.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	}
	return 4
}

type ThemeMode string

const (
	ThemeLight  ThemeMode = "light"
	ThemeDark   ThemeMode = "dark"
	ThemeSystem ThemeMode = "system"
)

type Lecture struct {
	ID         string
	Title      string
	Professor  string
	Location   string
	StartTime  time.Time
	EndTime    time.Time
	Recurrence Recurrence
	Color      string
	Notes      string
}

type SubTask struct {
	ID        string
	Title     string
	Completed bool
}

type Task struct {
	ID          string
	Title       string
	Description string
	Deadline    *time.Time
	Priority    Priority
	Completed   bool
	Progress    int // percent, 0-100
	Subtasks    []SubTask
	CourseID    string
}

type StudySession struct {
	ID        string
	StartTime time.Time
	EndTime   time.Time
	Duration  int // minutes
	Subject   string
	Breaks    int
}

type PomodoroSettings struct {
	WorkDuration            int // minutes
	BreakDuration           int
	LongBreakDuration       int
	SessionsBeforeLongBreak int
}

// DoNotDisturb is a daily window during which notifications are suppressed.
// Start and End use "HH:MM".
type DoNotDisturb struct {
	Enabled bool
	Start   string
	End     string
}

type UserSettings struct {
	Theme         ThemeMode
	Notifications bool
	Pomodoro      PomodoroSettings
	DoNotDisturb  DoNotDisturb
}

// TimerState is the externally visible state of the study timer.
type TimerState struct {
	IsRunning      bool
	TimeRemaining  int // seconds
	CurrentSession int // 1-based
	IsBreak        bool
	TotalSessions  int
}

// DefaultPomodoro returns the classic 25/5/15 configuration with a long break
// after every fourth work phase.
func DefaultPomodoro() PomodoroSettings {
	return PomodoroSettings{
		WorkDuration:            25,
		BreakDuration:           5,
		LongBreakDuration:       15,
		SessionsBeforeLongBreak: 4,
	}
}

func DefaultSettings() UserSettings {
	return UserSettings{
		Theme:         ThemeSystem,
		Notifications: true,
		Pomodoro:      DefaultPomodoro(),
		DoNotDisturb: DoNotDisturb{
			Enabled: false,
			Start:   "22:00",
			End:     "08:00",
		},
	}
}

// Normalized replaces non-positive values with the defaults.
func (p PomodoroSettings) Normalized() PomodoroSettings {
	d := DefaultPomodoro()
	if p.WorkDuration <= 0 {
		p.WorkDuration = d.WorkDuration
	}
	if p.BreakDuration <= 0 {
		p.BreakDuration = d.BreakDuration
	}
	if p.LongBreakDuration <= 0 {
		p.LongBreakDuration = d.LongBreakDuration
	}
	if p.SessionsBeforeLongBreak <= 0 {
		p.SessionsBeforeLongBreak = d.SessionsBeforeLongBreak
	}
	return p
}

// Clamped applies the ranges the settings form enforces.
func (p PomodoroSettings) Clamped() PomodoroSettings {
	p.WorkDuration = clamp(p.WorkDuration, 1, 60)
	p.BreakDuration = clamp(p.BreakDuration, 1, 30)
	p.LongBreakDuration = clamp(p.LongBreakDuration, 5, 60)
	p.SessionsBeforeLongBreak = clamp(p.SessionsBeforeLongBreak, 2, 10)
	return p
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
