package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/uniflow/internal/analytics"
	"github.com/sadopc/uniflow/internal/export"
	"github.com/sadopc/uniflow/internal/logging"
	"github.com/sadopc/uniflow/internal/store"
	"github.com/sadopc/uniflow/internal/theme"
	"github.com/sadopc/uniflow/internal/timer"
)

// Config wires the App to its collaborators. Only Store is required.
type Config struct {
	Store      *store.Store
	Timer      *timer.Timer
	Prefs      theme.Preferences // nil disables persisting the theme
	ThemeMode  store.ThemeMode
	SystemDark bool
	ExportDir  string
	Now        func() time.Time
	Bell       io.Writer // receives the terminal bell; defaults to stderr
}

// App is the root Bubble Tea model.
type App struct {
	ctx        context.Context
	store      *store.Store
	timer      *timer.Timer
	prefs      theme.Preferences
	memo       *analytics.Memo
	now        func() time.Time
	exportDir  string
	systemDark bool
	bell       io.Writer

	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	home      homeModel
	schedule  scheduleModel
	tasks     tasksModel
	timerView timerModel
	progress  progressModel
	settings  settingsModel

	help      help.Model
	status    string
	statusErr bool
}

func NewApp(ctx context.Context, cfg Config) (App, error) {
	if cfg.Store == nil {
		return App{}, errors.New("new app: store is required")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Timer == nil {
		cfg.Timer = timer.New(cfg.Store.Settings().Pomodoro, cfg.Store,
			timer.WithClock(cfg.Now), timer.WithLogger(logging.FromContext(ctx)))
	}
	if cfg.ThemeMode == "" {
		cfg.ThemeMode = store.ThemeSystem
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = "."
		if home, err := os.UserHomeDir(); err == nil {
			cfg.ExportDir = home
		}
	}
	if cfg.Bell == nil {
		cfg.Bell = os.Stderr
	}
	memo, err := analytics.NewMemo(16)
	if err != nil {
		return App{}, fmt.Errorf("new app: %w", err)
	}

	cfg.Store.UpdateSettings(func(us *store.UserSettings) { us.Theme = cfg.ThemeMode })
	applyPalette(theme.For(theme.IsDark(cfg.ThemeMode, cfg.SystemDark)))

	h := help.New()
	h.ShowAll = false

	s, tm := cfg.Store, cfg.Timer
	return App{
		ctx:        ctx,
		store:      s,
		timer:      tm,
		prefs:      cfg.Prefs,
		memo:       memo,
		now:        cfg.Now,
		exportDir:  cfg.ExportDir,
		systemDark: cfg.SystemDark,
		bell:       cfg.Bell,
		activeView: viewHome,
		home:       newHomeModel(s, tm, cfg.Now),
		schedule:   newScheduleModel(s, cfg.Now),
		tasks:      newTasksModel(s, cfg.Now),
		timerView:  newTimerModel(s, tm),
		progress:   newProgressModel(),
		settings:   newSettingsModel(s, tm),
		help:       h,
	}, nil
}

func (a App) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		a.resize()
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// A child view capturing input (e.g. a form) sees every key.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Theme):
			cmd := a.setTheme(nextMode(a.store.Settings().Theme))
			return a, cmd
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewHome
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewSchedule
			return a, nil
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewTasks
			return a, nil
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewTimer
			return a, nil
		case key.Matches(msg, keys.Tab5):
			a.activeView = viewProgress
			return a, nil
		case key.Matches(msg, keys.Tab6):
			a.activeView = viewSettings
			return a, nil
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			return a, nil
		}

	case tickMsg:
		cmds := []tea.Cmd{tickCmd()}
		if ev := a.timer.Tick(); ev.Completed {
			cmds = append(cmds, a.phaseDone(ev))
		}
		return a, tea.Batch(cmds...)

	case statusMsg:
		a.status = msg.text
		a.statusErr = msg.isError
		return a, nil

	case setThemeMsg:
		cmd := a.setTheme(msg.mode)
		return a, cmd

	case themeSavedMsg:
		if msg.err != nil {
			a.status = "Theme not saved: " + msg.err.Error()
			a.statusErr = true
			return a, nil
		}
		a.status = "Theme: " + string(msg.mode)
		a.statusErr = false
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusErr = false
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a *App) resize() {
	contentHeight := a.height - 4 // header + footer
	a.home.setSize(a.width, contentHeight)
	a.schedule.setSize(a.width, contentHeight)
	a.tasks.setSize(a.width, contentHeight)
	a.timerView.setSize(a.width, contentHeight)
	a.progress.setSize(a.width, contentHeight)
	a.settings.setSize(a.width, contentHeight)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewSchedule:
		a.schedule, cmd = a.schedule.update(msg)
	case viewTasks:
		a.tasks, cmd = a.tasks.update(msg)
	case viewTimer:
		a.timerView, cmd = a.timerView.update(msg)
	case viewProgress:
		a.progress, cmd = a.progress.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewSchedule:
		return a.schedule.formActive
	case viewTasks:
		return a.tasks.formActive
	case viewTimer:
		return a.timerView.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) summary() analytics.Summary {
	return a.memo.Summary(a.store.Version(), a.store.Tasks(), a.store.Sessions(), a.now())
}

// phaseDone reports a finished phase and rings the bell when notifications
// are allowed at that moment.
func (a App) phaseDone(ev timer.Event) tea.Cmd {
	text := "Break over. Back to work"
	if ev.Ended == timer.PhaseWork {
		text = fmt.Sprintf("Session complete. Time for a %s", lowerPhase(ev.Next))
		if ev.Session != nil {
			text = fmt.Sprintf("%s (%s)", text, formatMinutes(ev.Session.Duration))
		}
	}
	cmds := []tea.Cmd{status(text)}
	if a.shouldRing(ev.At) {
		w := a.bell
		cmds = append(cmds, func() tea.Msg {
			_, _ = io.WriteString(w, "\a")
			return nil
		})
	}
	return tea.Batch(cmds...)
}

func (a App) shouldRing(at time.Time) bool {
	return a.store.Settings().ShouldNotify(at)
}

func lowerPhase(p timer.Phase) string {
	switch p {
	case timer.PhaseLongBreak:
		return "long break"
	case timer.PhaseShortBreak:
		return "short break"
	}
	return "work"
}

func nextMode(m store.ThemeMode) store.ThemeMode {
	for i, mode := range theme.Modes {
		if mode == m {
			return theme.Modes[(i+1)%len(theme.Modes)]
		}
	}
	return theme.Modes[0]
}

// setTheme switches the palette now and persists the mode in the background.
func (a *App) setTheme(mode store.ThemeMode) tea.Cmd {
	a.store.UpdateSettings(func(us *store.UserSettings) { us.Theme = mode })
	applyPalette(theme.For(theme.IsDark(mode, a.systemDark)))
	a.resize()

	ctx, p := a.ctx, a.prefs
	return func() tea.Msg {
		if p == nil {
			return themeSavedMsg{mode: mode}
		}
		return themeSavedMsg{mode: mode, err: theme.Save(ctx, p, mode)}
	}
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewHome:
		content = a.home.view(a.summary())
	case viewSchedule:
		content = a.schedule.view()
	case viewTasks:
		content = a.tasks.view()
	case viewTimer:
		content = a.timerView.view()
	case viewProgress:
		content = a.progress.view(a.summary())
	case viewSettings:
		content = a.settings.view()
	}

	contentHeight := max(1, a.height-lipgloss.Height(header)-lipgloss.Height(footer))

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("uniflow")
	gap := max(1, a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.statusErr {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	// Timer indicator in footer
	timerInfo := ""
	st := a.timer.State()
	clock := fmt.Sprintf("%s %s", a.timer.Phase(), formatClock(st.TimeRemaining))
	switch {
	case st.IsRunning:
		timerInfo = successStyle.Render(" ● " + clock)
	case st.TimeRemaining != a.timer.PhaseDuration():
		timerInfo = warningStyle.Render(" ⏸ " + clock)
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + status

	gap := max(1, a.width-lipgloss.Width(left)-lipgloss.Width(right)-2)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	rows := []string{titleStyle.Render("Export Study Sessions"), ""}
	for i, f := range export.Formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+string(f)))
	}
	rows = append(rows, "",
		mutedStyle.Render("  Saved to "+a.exportDir),
		mutedStyle.Render("  enter: export  esc: cancel"),
	)

	return activePanelStyle.Width(a.width - 4).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(export.Formats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(export.Formats[a.exportCursor])
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

// doExport snapshots the sessions now and writes them off the event loop.
func (a App) doExport(format export.Format) tea.Cmd {
	sessions := a.store.Sessions()
	path := export.Path(a.exportDir, format, a.now())
	dir := a.exportDir
	log := logging.FromContext(a.ctx).With("component", "export")

	return func() tea.Msg {
		if len(sessions) == 0 {
			return statusMsg{text: "No study sessions to export", isError: true}
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Error("failed to create export directory", "dir", dir, "error", err)
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		if err := export.Write(format, sessions, path); err != nil {
			log.Error("export failed", "format", format, "path", path, "error", err)
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		log.Info("sessions exported", "format", format, "path", path, "count", len(sessions))
		return exportDoneMsg{path: path}
	}
}
