// Package timer implements the Pomodoro study timer: a countdown that
// alternates work and break phases and records a study session each time a
// work phase runs to zero.
package timer

import (
	"log/slog"
	"time"

	"github.com/sadopc/uniflow/internal/store"
)

// Recorder receives the study sessions produced by completed work phases.
type Recorder interface {
	AddSession(store.StudySession) store.StudySession
}

type Phase int

const (
	PhaseWork Phase = iota
	PhaseShortBreak
	PhaseLongBreak
)

var phaseNames = map[Phase]string{
	PhaseWork:       "WORK",
	PhaseShortBreak: "SHORT BREAK",
	PhaseLongBreak:  "LONG BREAK",
}

func (p Phase) String() string {
	return phaseNames[p]
}

func (p Phase) IsBreak() bool {
	return p != PhaseWork
}

// Event describes what a Tick or SkipBreak did.
type Event struct {
	Completed bool
	Ended     Phase
	Next      Phase
	Session   *store.StudySession
	At        time.Time
}

// Timer is the work/break state machine. It is driven by one event loop and
// is not safe for concurrent use.
type Timer struct {
	cfg       store.PomodoroSettings
	state     store.TimerState
	longBreak bool

	phaseStart *time.Time
	pauses     int
	subject    string

	rec    Recorder
	now    func() time.Time
	logger *slog.Logger
}

type Option func(*Timer)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Timer) {
		if now != nil {
			t.now = now
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(t *Timer) {
		if l != nil {
			t.logger = l
		}
	}
}

// New returns a timer in the initial state: work phase, paused, full work
// duration remaining, session 1.
func New(cfg store.PomodoroSettings, rec Recorder, opts ...Option) *Timer {
	t := &Timer{
		cfg:    cfg.Normalized(),
		rec:    rec,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = t.logger.With("component", "timer")
	t.ResetSession()
	return t
}

func (t *Timer) State() store.TimerState {
	return t.state
}

func (t *Timer) Settings() store.PomodoroSettings {
	return t.cfg
}

func (t *Timer) Phase() Phase {
	switch {
	case !t.state.IsBreak:
		return PhaseWork
	case t.longBreak:
		return PhaseLongBreak
	default:
		return PhaseShortBreak
	}
}

func (t *Timer) Subject() string {
	return t.subject
}

// SelectSubject sets the label stamped onto sessions recorded from now on.
func (t *Timer) SelectSubject(subject string) {
	t.subject = subject
}

// PhaseStart returns when the current work phase was first started.
func (t *Timer) PhaseStart() (time.Time, bool) {
	if t.phaseStart == nil {
		return time.Time{}, false
	}
	return *t.phaseStart, true
}

// PhaseDuration is the full length of the current phase in seconds.
func (t *Timer) PhaseDuration() int {
	return t.durationOf(t.Phase())
}

// Progress is the elapsed fraction of the current phase, 0 to 1.
func (t *Timer) Progress() float64 {
	total := t.PhaseDuration()
	if total <= 0 {
		return 0
	}
	return float64(total-t.state.TimeRemaining) / float64(total)
}

// Start resumes the countdown. Entering a work phase records its start time
// unless one is already held from before a pause.
func (t *Timer) Start() bool {
	if t.state.IsRunning || t.state.TimeRemaining <= 0 {
		return false
	}
	if !t.state.IsBreak && t.phaseStart == nil {
		at := t.now()
		t.phaseStart = &at
	}
	t.state.IsRunning = true
	return true
}

func (t *Timer) Pause() bool {
	if !t.state.IsRunning {
		return false
	}
	t.state.IsRunning = false
	if !t.state.IsBreak {
		t.pauses++
	}
	return true
}

func (t *Timer) Toggle() {
	if t.state.IsRunning {
		t.Pause()
		return
	}
	t.Start()
}

// Tick advances the countdown by one second. It is a no-op while paused.
func (t *Timer) Tick() Event {
	if !t.state.IsRunning {
		return Event{}
	}
	if t.state.TimeRemaining > 0 {
		t.state.TimeRemaining--
	}
	if t.state.TimeRemaining > 0 {
		return Event{}
	}
	t.state.IsRunning = false
	return t.complete()
}

// Reset restores the current phase to its full duration and drops the
// provisional start time. Session counters are untouched.
func (t *Timer) Reset() {
	t.state.IsRunning = false
	t.state.TimeRemaining = t.PhaseDuration()
	t.phaseStart = nil
	t.pauses = 0
}

// ResetSession returns to the initial state.
func (t *Timer) ResetSession() {
	t.state = store.TimerState{
		CurrentSession: 1,
		TimeRemaining:  t.cfg.WorkDuration * 60,
	}
	t.longBreak = false
	t.phaseStart = nil
	t.pauses = 0
}

// SkipBreak ends a break early and moves to the next work phase, paused.
func (t *Timer) SkipBreak() (Event, bool) {
	if !t.state.IsBreak {
		return Event{}, false
	}
	ended := t.Phase()
	t.startWorkPhase()
	t.logger.Debug("break skipped", "phase", ended.String(), "session", t.state.CurrentSession)
	return Event{Ended: ended, Next: PhaseWork, At: t.now()}, true
}

// Configure applies new durations. An idle timer sitting at the full length
// of its phase picks up the new length immediately.
func (t *Timer) Configure(cfg store.PomodoroSettings) {
	idle := !t.state.IsRunning && t.state.TimeRemaining == t.PhaseDuration()
	t.cfg = cfg.Normalized()
	if idle {
		t.state.TimeRemaining = t.PhaseDuration()
	}
}

func (t *Timer) complete() Event {
	at := t.now()
	ended := t.Phase()
	ev := Event{Completed: true, Ended: ended, At: at}

	switch ended {
	case PhaseWork:
		session := t.recordSession(at)
		ev.Session = &session
		t.state.TotalSessions++
		// Modulo on the number of the work phase that just ended.
		t.longBreak = t.state.CurrentSession%t.cfg.SessionsBeforeLongBreak == 0
		t.state.IsBreak = true
		t.state.TimeRemaining = t.PhaseDuration()
		t.phaseStart = nil
		t.pauses = 0
		t.logger.Info("work phase completed",
			"session", t.state.CurrentSession,
			"total", t.state.TotalSessions,
			"long_break", t.longBreak,
		)
	case PhaseShortBreak, PhaseLongBreak:
		t.startWorkPhase()
		t.logger.Info("break completed", "phase", ended.String(), "next_session", t.state.CurrentSession)
	}
	ev.Next = t.Phase()
	return ev
}

func (t *Timer) startWorkPhase() {
	t.state.IsBreak = false
	t.state.IsRunning = false
	t.longBreak = false
	t.state.CurrentSession++
	t.state.TimeRemaining = t.cfg.WorkDuration * 60
	t.phaseStart = nil
	t.pauses = 0
}

func (t *Timer) recordSession(end time.Time) store.StudySession {
	start := end.Add(-time.Duration(t.cfg.WorkDuration) * time.Minute)
	if t.phaseStart != nil {
		start = *t.phaseStart
	}
	session := store.StudySession{
		StartTime: start,
		EndTime:   end,
		Duration:  t.cfg.WorkDuration,
		Subject:   t.subject,
		Breaks:    t.pauses,
	}
	if t.rec != nil {
		session = t.rec.AddSession(session)
	}
	return session
}

func (t *Timer) durationOf(p Phase) int {
	switch p {
	case PhaseShortBreak:
		return t.cfg.BreakDuration * 60
	case PhaseLongBreak:
		return t.cfg.LongBreakDuration * 60
	default:
		return t.cfg.WorkDuration * 60
	}
}
