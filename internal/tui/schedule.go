package tui

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/uniflow/internal/analytics"
	"github.com/sadopc/uniflow/internal/schedule"
	"github.com/sadopc/uniflow/internal/store"
)

var lectureColors = []string{"#4361EE", "#FF006E", "#B5E48C", "#FFC107", "#4CAF50", "#FF5252", "#7209B7", "#4CC9F0"}

var recurrences = []store.Recurrence{store.RecurrenceNone, store.RecurrenceDaily, store.RecurrenceWeekly}

type scheduleModel struct {
	store  *store.Store
	now    func() time.Time
	width  int
	height int

	dayOffset int // days from today
	cursor    int

	formActive bool
	form       *huh.Form
	editingID  string // lecture being edited, empty for a new one

	// Form field pointers (survive value copies)
	formTitle      *string
	formProfessor  *string
	formLocation   *string
	formDate       *string
	formStart      *string
	formEnd        *string
	formRecurrence *store.Recurrence
	formColor      *string
	formNotes      *string
}

func newScheduleModel(s *store.Store, now func() time.Time) scheduleModel {
	title, prof, loc, date, start, end, color, notes := "", "", "", "", "", "", lectureColors[0], ""
	rec := store.RecurrenceWeekly
	return scheduleModel{
		store:          s,
		now:            now,
		formTitle:      &title,
		formProfessor:  &prof,
		formLocation:   &loc,
		formDate:       &date,
		formStart:      &start,
		formEnd:        &end,
		formRecurrence: &rec,
		formColor:      &color,
		formNotes:      &notes,
	}
}

func (m *scheduleModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m scheduleModel) selectedDay() time.Time {
	return analytics.DayStart(m.now()).AddDate(0, 0, m.dayOffset)
}

func (m scheduleModel) occurrences() []schedule.Occurrence {
	return schedule.Occurrences(m.store.Lectures(), m.selectedDay())
}

func (m scheduleModel) update(msg tea.Msg) (scheduleModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, keys.Left):
		m.dayOffset--
		m.cursor = 0
	case key.Matches(keyMsg, keys.Right):
		m.dayOffset++
		m.cursor = 0
	case key.Matches(keyMsg, keys.Back):
		m.dayOffset = 0
		m.cursor = 0
	case key.Matches(keyMsg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, keys.Down):
		if m.cursor < len(m.occurrences())-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, keys.New):
		return m.showLectureForm(nil)
	case key.Matches(keyMsg, keys.Enter):
		occ := m.occurrences()
		if m.cursor < len(occ) {
			l := occ[m.cursor].Lecture
			return m.showLectureForm(&l)
		}
	case key.Matches(keyMsg, keys.Delete):
		occ := m.occurrences()
		if m.cursor < len(occ) {
			l := occ[m.cursor].Lecture
			if err := m.store.DeleteLecture(l.ID); err != nil {
				return m, errStatus(err)
			}
			if m.cursor > 0 && m.cursor >= len(occ)-1 {
				m.cursor--
			}
			return m, status("Deleted " + l.Title)
		}
	}
	return m, nil
}

// showLectureForm opens the lecture form, prefilled from l when editing.
func (m scheduleModel) showLectureForm(l *store.Lecture) (scheduleModel, tea.Cmd) {
	m.editingID = ""
	*m.formTitle = ""
	*m.formProfessor = ""
	*m.formLocation = ""
	*m.formDate = m.selectedDay().Format("2006-01-02")
	*m.formStart = "09:00"
	*m.formEnd = "10:30"
	*m.formRecurrence = store.RecurrenceWeekly
	*m.formColor = lectureColors[0]
	*m.formNotes = ""
	if l != nil {
		loc := m.now().Location()
		m.editingID = l.ID
		*m.formTitle = l.Title
		*m.formProfessor = l.Professor
		*m.formLocation = l.Location
		*m.formDate = l.StartTime.In(loc).Format("2006-01-02")
		*m.formStart = l.StartTime.In(loc).Format("15:04")
		*m.formEnd = l.EndTime.In(loc).Format("15:04")
		*m.formRecurrence = l.Recurrence
		*m.formColor = l.Color
		*m.formNotes = l.Notes
	}

	recOptions := make([]huh.Option[store.Recurrence], len(recurrences))
	for i, r := range recurrences {
		recOptions[i] = huh.NewOption(string(r), r)
	}
	colorOptions := make([]huh.Option[string], len(lectureColors))
	for i, c := range lectureColors {
		colorOptions[i] = huh.NewOption(fmt.Sprintf("● %s", c), c)
	}
	if *m.formColor != "" && !slices.Contains(lectureColors, *m.formColor) {
		colorOptions = append(colorOptions, huh.NewOption("● "+*m.formColor, *m.formColor))
	}

	loc := m.now().Location()
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(m.formTitle).Validate(required),
			huh.NewInput().Title("Professor").Value(m.formProfessor),
			huh.NewInput().Title("Location").Value(m.formLocation),
		),
		huh.NewGroup(
			huh.NewInput().Title("Date (YYYY-MM-DD)").Value(m.formDate).
				Validate(func(s string) error {
					d, err := parseDate(s, loc)
					if err == nil && d == nil {
						return errors.New("required")
					}
					return err
				}),
			huh.NewInput().Title("Starts (HH:MM)").Value(m.formStart).Validate(validateClock),
			huh.NewInput().Title("Ends (HH:MM)").Value(m.formEnd).Validate(validateClock),
			huh.NewSelect[store.Recurrence]().Title("Repeats").Options(recOptions...).Value(m.formRecurrence),
		),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Color").Options(colorOptions...).Value(m.formColor),
			huh.NewText().Title("Notes").Value(m.formNotes),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m scheduleModel) updateForm(msg tea.Msg) (scheduleModel, tea.Cmd) {
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
		l, err := m.saveLecture()
		if err != nil {
			return m, errStatus(err)
		}
		if m.editingID != "" {
			m.editingID = ""
			return m, status("Updated " + l.Title)
		}
		return m, status("Added " + l.Title)
	}

	return m, cmd
}

// saveLecture adds a lecture from the form, or replaces the one being edited.
func (m scheduleModel) saveLecture() (store.Lecture, error) {
	loc := m.now().Location()
	day, err := parseDate(*m.formDate, loc)
	if err != nil {
		return store.Lecture{}, fmt.Errorf("parse lecture date: %w", err)
	}
	if day == nil {
		return store.Lecture{}, errors.New("lecture date is required")
	}
	startMin, err := store.ParseClock(*m.formStart)
	if err != nil {
		return store.Lecture{}, err
	}
	endMin, err := store.ParseClock(*m.formEnd)
	if err != nil {
		return store.Lecture{}, err
	}
	if endMin <= startMin {
		return store.Lecture{}, errors.New("lecture must end after it starts")
	}
	start := day.Add(time.Duration(startMin) * time.Minute)
	end := day.Add(time.Duration(endMin) * time.Minute)
	l := store.Lecture{
		ID:         m.editingID,
		Title:      strings.TrimSpace(*m.formTitle),
		Professor:  strings.TrimSpace(*m.formProfessor),
		Location:   strings.TrimSpace(*m.formLocation),
		StartTime:  start,
		EndTime:    end,
		Recurrence: *m.formRecurrence,
		Color:      *m.formColor,
		Notes:      strings.TrimSpace(*m.formNotes),
	}
	if m.editingID == "" {
		return m.store.AddLecture(l)
	}
	return l, m.store.UpdateLecture(l)
}

func (m scheduleModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(m.formTitleText()), "", m.form.View()),
		)
	}

	day := m.selectedDay()
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Schedule"), "  ", mutedStyle.Render(day.Format("Monday, January 2, 2006")),
	)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
		header, "", m.renderWeek(w-4), "", m.renderDay(w-4), "",
		mutedStyle.Render("  ←/→: day  esc: today  n: new lecture  enter: edit  d: delete"),
	))
}

// renderWeek draws a Monday-to-Sunday strip with the number of lectures per day.
func (m scheduleModel) renderWeek(w int) string {
	lectures := m.store.Lectures()
	today := analytics.DayStart(m.now())
	selected := m.selectedDay()
	colWidth := max(6, w/7)

	var cols []string
	for _, d := range schedule.Week(selected) {
		n := len(schedule.Occurrences(lectures, d))
		label := d.Format("Mon 02")
		count := mutedStyle.Render("-")
		if n > 0 {
			count = highlightStyle.Render(fmt.Sprintf("%d", n))
		}
		style := inactiveTabStyle
		if d.Equal(selected) {
			style = activeTabStyle
		} else if d.Equal(today) {
			style = inactiveTabStyle.Foreground(colorPrimary)
		}
		cols = append(cols, lipgloss.JoinVertical(lipgloss.Center,
			style.Width(colWidth).Align(lipgloss.Center).Render(label),
			lipgloss.NewStyle().Width(colWidth).Align(lipgloss.Center).Render(count),
		))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (m scheduleModel) renderDay(w int) string {
	occ := m.occurrences()
	if len(occ) == 0 {
		return mutedStyle.Render("No classes on this day. Press n to add one.")
	}

	now := m.now()
	var rows []string
	for i, o := range occ {
		l := o.Lecture
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		badge := ""
		if o.InProgress(now) {
			badge = successStyle.Render("  now")
		}
		rows = append(rows, fmt.Sprintf("%s%s %s  %s%s",
			cursor, dot(palette.LectureColor(l)), mutedStyle.Render(timeRange(o.Start, o.End)),
			style.Render(truncate(l.Title, max(10, w-30))), badge,
		))

		var details []string
		if l.Professor != "" {
			details = append(details, l.Professor)
		}
		if l.Location != "" {
			details = append(details, l.Location)
		}
		if l.Recurrence != store.RecurrenceNone && l.Recurrence != "" {
			details = append(details, string(l.Recurrence))
		}
		if len(details) > 0 {
			rows = append(rows, mutedStyle.Render("      "+strings.Join(details, " · ")))
		}
		if i == m.cursor && l.Notes != "" {
			rows = append(rows, subtitleStyle.Italic(true).Render("      "+l.Notes))
		}
	}
	return strings.Join(rows, "\n")
}

func (m scheduleModel) formTitleText() string {
	if m.editingID != "" {
		return "Edit Lecture"
	}
	return "New Lecture"
}
