package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/uniflow/internal/analytics"
	"github.com/sadopc/uniflow/internal/store"
	"github.com/sadopc/uniflow/internal/timer"
)

// timerModel renders the Pomodoro timer and maps keys onto it. Ticks are
// delivered by the App so the countdown runs whichever view is open.
type timerModel struct {
	store  *store.Store
	timer  *timer.Timer
	width  int
	height int

	bar progress.Model

	formActive bool
	form       *huh.Form

	// Form value as pointer (survives value copies)
	formSubject *string
}

func newTimerModel(s *store.Store, tm *timer.Timer) timerModel {
	subject := ""
	return timerModel{
		store:       s,
		timer:       tm,
		bar:         newBar(40),
		formSubject: &subject,
	}
}

func (m *timerModel) setSize(w, h int) {
	m.width = w
	m.height = h
	m.bar = newBar(max(10, w-16))
}

func newBar(width int) progress.Model {
	return progress.New(
		progress.WithSolidFill(string(colorPrimary)),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
}

func (m timerModel) update(msg tea.Msg) (timerModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, keys.Toggle):
		m.timer.Toggle()
	case key.Matches(keyMsg, keys.Reset):
		m.timer.Reset()
		return m, status("Timer reset")
	case key.Matches(keyMsg, keys.ResetSession):
		m.timer.ResetSession()
		return m, status("Session reset")
	case key.Matches(keyMsg, keys.SkipBreak):
		if _, ok := m.timer.SkipBreak(); ok {
			return m, status("Break skipped")
		}
	case key.Matches(keyMsg, keys.Subject):
		return m.showSubjectForm()
	}
	return m, nil
}

// subjectOptions lists lecture titles and previously used subjects.
func (m timerModel) subjectOptions() []string {
	seen := make(map[string]bool)
	var subjects []string
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			return
		}
		seen[s] = true
		subjects = append(subjects, s)
	}
	for _, l := range m.store.Lectures() {
		add(l.Title)
	}
	for _, s := range m.store.Sessions() {
		add(s.Subject)
	}
	if cur := m.timer.Subject(); cur != "" {
		add(cur)
	}
	sort.Strings(subjects)
	return subjects
}

func (m timerModel) showSubjectForm() (timerModel, tea.Cmd) {
	*m.formSubject = m.timer.Subject()

	options := []huh.Option[string]{huh.NewOption(analytics.DefaultSubject+" (none)", "")}
	for _, s := range m.subjectOptions() {
		options = append(options, huh.NewOption(s, s))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Study subject").Options(options...).Value(m.formSubject),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m timerModel) updateForm(msg tea.Msg) (timerModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		m.form = nil
		m.timer.SelectSubject(*m.formSubject)
		return m, status("Subject: " + subjectLabel(*m.formSubject))
	}

	return m, cmd
}

func subjectLabel(s string) string {
	if s == "" {
		return analytics.DefaultSubject
	}
	return s
}

func (m timerModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Select Subject"), "", m.form.View()),
		)
	}

	st := m.timer.State()
	phase := m.timer.Phase()

	phaseStyle := accentStyle.Bold(true)
	switch phase {
	case timer.PhaseShortBreak:
		phaseStyle = successStyle.Bold(true)
	case timer.PhaseLongBreak:
		phaseStyle = highlightStyle.Bold(true)
	}

	clockStyle := timerPausedStyle
	indicator := warningStyle.Render("⏸  PAUSED")
	if st.IsRunning {
		clockStyle = timerRunningStyle
		indicator = successStyle.Render("●  RUNNING")
	} else if st.TimeRemaining == m.timer.PhaseDuration() {
		clockStyle = timerStyle
		indicator = mutedStyle.Render("Ready to start")
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render("Study Timer"),
		"",
		phaseStyle.Render(phase.String()),
		clockStyle.Width(max(1, w-6)).Render(formatClock(st.TimeRemaining)),
		indicator,
		"",
		m.bar.ViewAs(m.timer.Progress()),
		"",
		m.renderCycle(),
		mutedStyle.Render(fmt.Sprintf("Session %d · %d completed", st.CurrentSession, st.TotalSessions)),
		highlightStyle.Render("Subject: "+subjectLabel(m.timer.Subject())),
	)

	var controls string
	if phase.IsBreak() {
		controls = mutedStyle.Render("space: start/pause  b: skip break  r: reset  R: reset session  c: subject")
	} else {
		controls = mutedStyle.Render("space: start/pause  r: reset  R: reset session  c: subject")
	}

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Center, content, "", controls),
	)
}

// renderCycle draws one dot per work phase in the current long-break cycle.
func (m timerModel) renderCycle() string {
	st := m.timer.State()
	n := m.timer.Settings().SessionsBeforeLongBreak
	done := (st.CurrentSession - 1) % n
	if st.IsBreak {
		done++
	}
	var parts []string
	for i := 0; i < n; i++ {
		switch {
		case i < done:
			parts = append(parts, successStyle.Render("●"))
		case i == done && !st.IsBreak:
			parts = append(parts, accentStyle.Render("◐"))
		default:
			parts = append(parts, mutedStyle.Render("○"))
		}
	}
	return strings.Join(parts, " ") + mutedStyle.Render(fmt.Sprintf("  %d/%d", done, n))
}

func status(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

func errStatus(err error) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true} }
}
