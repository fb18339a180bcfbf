package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/uniflow/internal/store"
	"github.com/sadopc/uniflow/internal/theme"
	"github.com/sadopc/uniflow/internal/timer"
)

type settingsModel struct {
	store  *store.Store
	timer  *timer.Timer
	width  int
	height int

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	pomodoroWork      *string
	pomodoroBreak     *string
	pomodoroLongBreak *string
	pomodoroCount     *string
	notifications     *bool
	dndEnabled        *bool
	dndStart          *string
	dndEnd            *string
	themeMode         *store.ThemeMode
}

func newSettingsModel(s *store.Store, tm *timer.Timer) settingsModel {
	pw, pb, plb, pc := "", "", "", ""
	notify, dnd := false, false
	dndStart, dndEnd := "", ""
	mode := store.ThemeSystem
	return settingsModel{
		store:             s,
		timer:             tm,
		pomodoroWork:      &pw,
		pomodoroBreak:     &pb,
		pomodoroLongBreak: &plb,
		pomodoroCount:     &pc,
		notifications:     &notify,
		dndEnabled:        &dnd,
		dndStart:          &dndStart,
		dndEnd:            &dndEnd,
		themeMode:         &mode,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	us := s.store.Settings()
	*s.pomodoroWork = strconv.Itoa(us.Pomodoro.WorkDuration)
	*s.pomodoroBreak = strconv.Itoa(us.Pomodoro.BreakDuration)
	*s.pomodoroLongBreak = strconv.Itoa(us.Pomodoro.LongBreakDuration)
	*s.pomodoroCount = strconv.Itoa(us.Pomodoro.SessionsBeforeLongBreak)
	*s.notifications = us.Notifications
	*s.dndEnabled = us.DoNotDisturb.Enabled
	*s.dndStart = us.DoNotDisturb.Start
	*s.dndEnd = us.DoNotDisturb.End
	*s.themeMode = us.Theme

	wholeNumber := func(s string) error {
		_, err := parseMinutes(s)
		return err
	}
	themeOptions := make([]huh.Option[store.ThemeMode], len(theme.Modes))
	for i, m := range theme.Modes {
		themeOptions[i] = huh.NewOption(string(m), m)
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Work (min, 1-60)").Value(s.pomodoroWork).Validate(wholeNumber),
			huh.NewInput().Title("Break (min, 1-30)").Value(s.pomodoroBreak).Validate(wholeNumber),
			huh.NewInput().Title("Long break (min, 5-60)").Value(s.pomodoroLongBreak).Validate(wholeNumber),
			huh.NewInput().Title("Sessions before long break (2-10)").Value(s.pomodoroCount).Validate(wholeNumber),
		).Title("Pomodoro"),
		huh.NewGroup(
			huh.NewConfirm().Title("Notifications").Value(s.notifications),
			huh.NewConfirm().Title("Do not disturb").Value(s.dndEnabled),
			huh.NewInput().Title("Quiet from (HH:MM)").Value(s.dndStart).Validate(validateClock),
			huh.NewInput().Title("Quiet until (HH:MM)").Value(s.dndEnd).Validate(validateClock),
		).Title("Notifications"),
		huh.NewGroup(
			huh.NewSelect[store.ThemeMode]().Title("Theme").Options(themeOptions...).Value(s.themeMode),
		).Title("Appearance"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.form = nil
		return s, s.save()
	}

	return s, cmd
}

// save applies the submitted form. Out-of-range durations are clamped.
func (s settingsModel) save() tea.Cmd {
	atoi := func(v string) int {
		n, _ := parseMinutes(v)
		return n
	}
	pomodoro := store.PomodoroSettings{
		WorkDuration:            atoi(*s.pomodoroWork),
		BreakDuration:           atoi(*s.pomodoroBreak),
		LongBreakDuration:       atoi(*s.pomodoroLongBreak),
		SessionsBeforeLongBreak: atoi(*s.pomodoroCount),
	}.Clamped()

	prev := s.store.Settings()
	s.store.UpdateSettings(func(us *store.UserSettings) {
		us.Pomodoro = pomodoro
		us.Notifications = *s.notifications
		us.DoNotDisturb = store.DoNotDisturb{
			Enabled: *s.dndEnabled,
			Start:   *s.dndStart,
			End:     *s.dndEnd,
		}
	})
	if pomodoro != prev.Pomodoro {
		s.timer.Configure(pomodoro)
	}

	cmds := []tea.Cmd{status("Settings saved")}
	if *s.themeMode != prev.Theme {
		mode := *s.themeMode
		cmds = append(cmds, func() tea.Msg { return setThemeMsg{mode: mode} })
	}
	return tea.Batch(cmds...)
}

func (s settingsModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Settings")

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	us := s.store.Settings()
	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}
	dnd := onOff(us.DoNotDisturb.Enabled)
	if us.DoNotDisturb.Enabled {
		dnd = fmt.Sprintf("%s - %s", us.DoNotDisturb.Start, us.DoNotDisturb.End)
	}

	items := [][2]string{
		{"Work", fmt.Sprintf("%d min", us.Pomodoro.WorkDuration)},
		{"Break", fmt.Sprintf("%d min", us.Pomodoro.BreakDuration)},
		{"Long break", fmt.Sprintf("%d min", us.Pomodoro.LongBreakDuration)},
		{"Sessions before long break", strconv.Itoa(us.Pomodoro.SessionsBeforeLongBreak)},
		{"Notifications", onOff(us.Notifications)},
		{"Do not disturb", dnd},
		{"Theme", string(us.Theme)},
	}

	rows := []string{title, ""}
	for _, it := range items {
		label := lipgloss.NewStyle().Width(28).Render(it[0])
		rows = append(rows, fmt.Sprintf("  %s %s", label, highlightStyle.Render(it[1])))
	}
	rows = append(rows, "", mutedStyle.Render("Press enter to edit settings · t to cycle the theme"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
