package timer

import (
	"testing"
	"time"

	"github.com/sadopc/uniflow/internal/store"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func newTestTimer(t *testing.T, cfg store.PomodoroSettings) (*Timer, *store.Store, *fakeClock) {
	t.Helper()
	s := store.New()
	clock := &fakeClock{t: time.Date(2025, time.June, 30, 9, 0, 0, 0, time.UTC)}
	return New(cfg, s, WithClock(clock.now)), s, clock
}

// runPhase starts the timer and ticks until the phase completes.
func runPhase(t *testing.T, tm *Timer, clock *fakeClock) Event {
	t.Helper()
	if !tm.Start() {
		t.Fatal("start should succeed on a paused timer")
	}
	n := tm.State().TimeRemaining
	for i := 0; i < n; i++ {
		clock.t = clock.t.Add(time.Second)
		ev := tm.Tick()
		if ev.Completed {
			if i != n-1 {
				t.Fatalf("phase completed after %d ticks, want %d", i+1, n)
			}
			return ev
		}
	}
	t.Fatal("phase never completed")
	return Event{}
}

// ============================================================
// Initial state
// ============================================================

func TestNewTimerInitialState(t *testing.T) {
	tm, _, _ := newTestTimer(t, store.DefaultPomodoro())
	st := tm.State()
	if st.IsRunning || st.IsBreak {
		t.Fatalf("initial state should be work-paused: %+v", st)
	}
	if st.TimeRemaining != 1500 {
		t.Fatalf("TimeRemaining = %d, want 1500", st.TimeRemaining)
	}
	if st.CurrentSession != 1 || st.TotalSessions != 0 {
		t.Fatalf("counters = %d/%d, want 1/0", st.CurrentSession, st.TotalSessions)
	}
	if tm.Phase() != PhaseWork {
		t.Fatalf("phase = %v, want WORK", tm.Phase())
	}
}

func TestNewTimerNormalizesConfig(t *testing.T) {
	tm, _, _ := newTestTimer(t, store.PomodoroSettings{})
	if tm.Settings() != store.DefaultPomodoro() {
		t.Fatalf("zero config should fall back to defaults, got %+v", tm.Settings())
	}
}

// ============================================================
// Start / Tick / Pause
// ============================================================

func TestStartRecordsPhaseStart(t *testing.T) {
	tm, _, clock := newTestTimer(t, store.DefaultPomodoro())
	if _, ok := tm.PhaseStart(); ok {
		t.Fatal("no phase start before Start")
	}
	tm.Start()
	start, ok := tm.PhaseStart()
	if !ok || !start.Equal(clock.t) {
		t.Fatalf("phase start = %v, want %v", start, clock.t)
	}
	if tm.Start() {
		t.Fatal("start on a running timer should be a no-op")
	}
}

func TestTickWhilePausedIsNoop(t *testing.T) {
	tm, _, _ := newTestTimer(t, store.DefaultPomodoro())
	ev := tm.Tick()
	if ev.Completed || tm.State().TimeRemaining != 1500 {
		t.Fatal("tick on a paused timer must not change anything")
	}
}

func TestTickDecrements(t *testing.T) {
	tm, _, _ := newTestTimer(t, store.DefaultPomodoro())
	tm.Start()
	tm.Tick()
	tm.Tick()
	if got := tm.State().TimeRemaining; got != 1498 {
		t.Fatalf("TimeRemaining = %d, want 1498", got)
	}
}

func TestPauseResumePreservesRemaining(t *testing.T) {
	tm, _, clock := newTestTimer(t, store.DefaultPomodoro())
	tm.Start()
	for i := 0; i < 100; i++ {
		tm.Tick()
	}
	firstStart, _ := tm.PhaseStart()

	tm.Pause()
	before := tm.State().TimeRemaining
	tm.Tick()
	tm.Tick()
	clock.t = clock.t.Add(10 * time.Minute)
	tm.Start()
	if got := tm.State().TimeRemaining; got != before {
		t.Fatalf("TimeRemaining across pause = %d, want %d", got, before)
	}
	if s, _ := tm.PhaseStart(); !s.Equal(firstStart) {
		t.Fatal("resume must keep the original phase start")
	}
}

func TestToggle(t *testing.T) {
	tm, _, _ := newTestTimer(t, store.DefaultPomodoro())
	tm.Toggle()
	if !tm.State().IsRunning {
		t.Fatal("toggle should start")
	}
	tm.Toggle()
	if tm.State().IsRunning {
		t.Fatal("toggle should pause")
	}
}

// ============================================================
// Completion
// ============================================================

func TestWorkPhaseRecordsOneSession(t *testing.T) {
	tm, s, clock := newTestTimer(t, store.DefaultPomodoro())
	tm.SelectSubject("Calculus")
	start := clock.t

	ev := runPhase(t, tm, clock)
	if ev.Ended != PhaseWork || ev.Next != PhaseShortBreak {
		t.Fatalf("transition %v -> %v, want WORK -> SHORT BREAK", ev.Ended, ev.Next)
	}
	if ev.Session == nil {
		t.Fatal("work completion should carry the session")
	}

	sessions := s.Sessions()
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
	got := sessions[0]
	if got.Duration != 25 || got.Subject != "Calculus" || got.ID == "" {
		t.Fatalf("unexpected session: %+v", got)
	}
	if !got.StartTime.Equal(start) || !got.EndTime.Equal(start.Add(25*time.Minute)) {
		t.Fatalf("session spans %v - %v", got.StartTime, got.EndTime)
	}

	st := tm.State()
	if st.IsRunning || !st.IsBreak || st.TimeRemaining != 300 || st.TotalSessions != 1 {
		t.Fatalf("unexpected state after work phase: %+v", st)
	}
}

func TestBreakPhaseRecordsNoSession(t *testing.T) {
	tm, s, clock := newTestTimer(t, store.DefaultPomodoro())
	runPhase(t, tm, clock)
	ev := runPhase(t, tm, clock)
	if ev.Session != nil {
		t.Fatal("break completion must not produce a session")
	}
	if len(s.Sessions()) != 1 {
		t.Fatalf("expected still 1 session, got %d", len(s.Sessions()))
	}
	st := tm.State()
	if st.IsBreak || st.CurrentSession != 2 || st.TimeRemaining != 1500 {
		t.Fatalf("unexpected state after break: %+v", st)
	}
}

func TestPausesCountAsBreaks(t *testing.T) {
	tm, s, clock := newTestTimer(t, store.PomodoroSettings{WorkDuration: 1, BreakDuration: 1, LongBreakDuration: 5, SessionsBeforeLongBreak: 4})
	tm.Start()
	tm.Tick()
	tm.Pause()
	tm.Start()
	tm.Pause()
	tm.Start()
	for len(s.Sessions()) == 0 {
		clock.t = clock.t.Add(time.Second)
		tm.Tick()
	}
	if got := s.Sessions()[0].Breaks; got != 2 {
		t.Fatalf("Breaks = %d, want 2", got)
	}
}

func TestFullCycleLongBreak(t *testing.T) {
	tm, s, clock := newTestTimer(t, store.DefaultPomodoro())

	var breaks []int
	for i := 0; i < 4; i++ {
		runPhase(t, tm, clock)
		breaks = append(breaks, tm.State().TimeRemaining)
		if i < 3 && tm.Phase() != PhaseShortBreak {
			t.Fatalf("break %d should be short", i+1)
		}
		runPhase(t, tm, clock)
	}

	want := []int{300, 300, 300, 900}
	for i := range want {
		if breaks[i] != want[i] {
			t.Fatalf("break %d = %ds, want %ds", i+1, breaks[i], want[i])
		}
	}
	st := tm.State()
	if st.TotalSessions != 4 || st.CurrentSession != 5 {
		t.Fatalf("counters = total %d current %d, want 4/5", st.TotalSessions, st.CurrentSession)
	}
	if len(s.Sessions()) != 4 {
		t.Fatalf("expected 4 sessions, got %d", len(s.Sessions()))
	}
}

func TestLongBreakUsesConfiguredCount(t *testing.T) {
	cfg := store.PomodoroSettings{WorkDuration: 1, BreakDuration: 1, LongBreakDuration: 5, SessionsBeforeLongBreak: 2}
	tm, _, clock := newTestTimer(t, cfg)

	runPhase(t, tm, clock)
	if tm.Phase() != PhaseShortBreak {
		t.Fatal("first break should be short")
	}
	runPhase(t, tm, clock)
	runPhase(t, tm, clock)
	if tm.Phase() != PhaseLongBreak || tm.State().TimeRemaining != 300 {
		t.Fatalf("second break should be long, phase %v remaining %d", tm.Phase(), tm.State().TimeRemaining)
	}
}

// ============================================================
// Reset
// ============================================================

func TestResetRestoresCurrentPhase(t *testing.T) {
	tm, _, clock := newTestTimer(t, store.DefaultPomodoro())
	runPhase(t, tm, clock)
	tm.Start()
	for i := 0; i < 42; i++ {
		tm.Tick()
	}
	tm.Reset()

	st := tm.State()
	if st.IsRunning || !st.IsBreak || st.TimeRemaining != 300 {
		t.Fatalf("reset should restore the full break: %+v", st)
	}
	if st.TotalSessions != 1 || st.CurrentSession != 1 {
		t.Fatalf("reset must not touch counters: %+v", st)
	}
}

func TestResetDiscardsPhaseStart(t *testing.T) {
	tm, _, _ := newTestTimer(t, store.DefaultPomodoro())
	tm.Start()
	tm.Tick()
	tm.Reset()
	if _, ok := tm.PhaseStart(); ok {
		t.Fatal("reset should discard the provisional start")
	}
	if tm.State().TimeRemaining != 1500 {
		t.Fatal("reset should restore the work duration")
	}
}

func TestResetSession(t *testing.T) {
	tm, _, clock := newTestTimer(t, store.DefaultPomodoro())
	runPhase(t, tm, clock)
	runPhase(t, tm, clock)
	runPhase(t, tm, clock)
	tm.ResetSession()

	st := tm.State()
	want := store.TimerState{TimeRemaining: 1500, CurrentSession: 1}
	if st != want {
		t.Fatalf("state after ResetSession = %+v, want %+v", st, want)
	}
}

// ============================================================
// Skip / Configure
// ============================================================

func TestSkipBreak(t *testing.T) {
	tm, s, clock := newTestTimer(t, store.DefaultPomodoro())
	if _, ok := tm.SkipBreak(); ok {
		t.Fatal("cannot skip a work phase")
	}
	runPhase(t, tm, clock)
	ev, ok := tm.SkipBreak()
	if !ok || ev.Next != PhaseWork {
		t.Fatal("skip should move to work")
	}
	st := tm.State()
	if st.IsBreak || st.CurrentSession != 2 || st.TotalSessions != 1 || st.IsRunning {
		t.Fatalf("unexpected state after skip: %+v", st)
	}
	if len(s.Sessions()) != 1 {
		t.Fatal("skipping a break records nothing")
	}
}

func TestConfigureIdleFollowsNewDuration(t *testing.T) {
	tm, _, _ := newTestTimer(t, store.DefaultPomodoro())
	cfg := store.DefaultPomodoro()
	cfg.WorkDuration = 50
	tm.Configure(cfg)
	if got := tm.State().TimeRemaining; got != 3000 {
		t.Fatalf("TimeRemaining = %d, want 3000", got)
	}
}

func TestConfigureMidPhaseKeepsRemaining(t *testing.T) {
	tm, _, _ := newTestTimer(t, store.DefaultPomodoro())
	tm.Start()
	tm.Tick()
	cfg := store.DefaultPomodoro()
	cfg.WorkDuration = 50
	tm.Configure(cfg)
	if got := tm.State().TimeRemaining; got != 1499 {
		t.Fatalf("TimeRemaining = %d, want 1499", got)
	}
}

func TestProgress(t *testing.T) {
	tm, _, _ := newTestTimer(t, store.PomodoroSettings{WorkDuration: 1, BreakDuration: 1, LongBreakDuration: 5, SessionsBeforeLongBreak: 4})
	if tm.Progress() != 0 {
		t.Fatal("progress should start at 0")
	}
	tm.Start()
	for i := 0; i < 30; i++ {
		tm.Tick()
	}
	if got := tm.Progress(); got != 0.5 {
		t.Fatalf("Progress = %v, want 0.5", got)
	}
}

func TestPhaseNames(t *testing.T) {
	if PhaseWork.String() != "WORK" || PhaseLongBreak.String() != "LONG BREAK" {
		t.Fatal("unexpected phase names")
	}
	if PhaseWork.IsBreak() || !PhaseShortBreak.IsBreak() {
		t.Fatal("IsBreak mismatch")
	}
}
