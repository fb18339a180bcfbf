package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/uniflow/internal/analytics"
	"github.com/sadopc/uniflow/internal/store"
)

var priorities = []store.Priority{store.PriorityUrgent, store.PriorityHigh, store.PriorityMedium, store.PriorityLow}

const progressStep = 10

type tasksModel struct {
	store  *store.Store
	now    func() time.Time
	width  int
	height int

	filter          analytics.TaskFilter
	cursor          int
	subCursor       int
	viewingSubtasks bool
	taskID          string // task whose subtasks are shown

	formActive bool
	form       *huh.Form
	formType   string // "task", "subtask"

	// Form field pointers (survive value copies)
	formTitle       *string
	formDescription *string
	formPriority    *store.Priority
	formDeadline    *string
	formCourse      *string
	formSubtasks    *string
}

func newTasksModel(s *store.Store, now func() time.Time) tasksModel {
	title, desc, deadline, course, subs := "", "", "", "", ""
	pr := store.PriorityMedium
	return tasksModel{
		store:           s,
		now:             now,
		filter:          analytics.FilterAll,
		formTitle:       &title,
		formDescription: &desc,
		formPriority:    &pr,
		formDeadline:    &deadline,
		formCourse:      &course,
		formSubtasks:    &subs,
	}
}

func (m *tasksModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

// visible returns the tasks shown under the current filter, in display order.
func (m tasksModel) visible() []store.Task {
	return analytics.SortTasks(analytics.FilterTasks(m.store.Tasks(), m.filter, m.now()))
}

func (m tasksModel) selected() (store.Task, bool) {
	tasks := m.visible()
	if m.cursor < 0 || m.cursor >= len(tasks) {
		return store.Task{}, false
	}
	return tasks[m.cursor], true
}

func (m *tasksModel) clampCursor() {
	n := len(m.visible())
	if m.cursor >= n {
		m.cursor = max(0, n-1)
	}
}

func (m tasksModel) update(msg tea.Msg) (tasksModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.viewingSubtasks {
		return m.updateSubtaskView(keyMsg)
	}
	return m.updateTaskList(keyMsg)
}

func (m tasksModel) updateTaskList(msg tea.KeyMsg) (tasksModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Filter):
		m.filter = nextFilter(m.filter)
		m.cursor = 0
	case key.Matches(msg, keys.Enter):
		if t, ok := m.selected(); ok {
			m.viewingSubtasks = true
			m.taskID = t.ID
			m.subCursor = 0
		}
	case key.Matches(msg, keys.Complete):
		if t, ok := m.selected(); ok {
			if _, err := m.store.ToggleTask(t.ID); err != nil {
				return m, errStatus(err)
			}
			m.clampCursor()
		}
	case key.Matches(msg, keys.More), key.Matches(msg, keys.Less):
		if t, ok := m.selected(); ok {
			step := progressStep
			if key.Matches(msg, keys.Less) {
				step = -progressStep
			}
			_, err := m.store.SetTaskProgress(t.ID, t.Progress+step)
			if errors.Is(err, store.ErrDerivedProgress) {
				return m, status("Progress follows the subtasks")
			}
			if err != nil {
				return m, errStatus(err)
			}
			m.clampCursor()
		}
	case key.Matches(msg, keys.New):
		return m.showNewTaskForm()
	case key.Matches(msg, keys.Delete):
		if t, ok := m.selected(); ok {
			if err := m.store.DeleteTask(t.ID); err != nil {
				return m, errStatus(err)
			}
			m.clampCursor()
			return m, status("Deleted " + t.Title)
		}
	}
	return m, nil
}

func (m tasksModel) updateSubtaskView(msg tea.KeyMsg) (tasksModel, tea.Cmd) {
	t, err := m.store.GetTask(m.taskID)
	if err != nil {
		m.viewingSubtasks = false
		return m, nil
	}
	switch {
	case key.Matches(msg, keys.Back):
		m.viewingSubtasks = false
		m.clampCursor()
	case key.Matches(msg, keys.Up):
		if m.subCursor > 0 {
			m.subCursor--
		}
	case key.Matches(msg, keys.Down):
		if m.subCursor < len(t.Subtasks)-1 {
			m.subCursor++
		}
	case key.Matches(msg, keys.Complete), key.Matches(msg, keys.Enter):
		if m.subCursor < len(t.Subtasks) {
			if _, err := m.store.ToggleSubtask(t.ID, t.Subtasks[m.subCursor].ID); err != nil {
				return m, errStatus(err)
			}
		}
	case key.Matches(msg, keys.New):
		return m.showNewSubtaskForm()
	}
	return m, nil
}

func nextFilter(f analytics.TaskFilter) analytics.TaskFilter {
	for i, candidate := range analytics.TaskFilters {
		if candidate == f {
			return analytics.TaskFilters[(i+1)%len(analytics.TaskFilters)]
		}
	}
	return analytics.FilterAll
}

func (m tasksModel) showNewTaskForm() (tasksModel, tea.Cmd) {
	*m.formTitle = ""
	*m.formDescription = ""
	*m.formPriority = store.PriorityMedium
	*m.formDeadline = ""
	*m.formCourse = ""
	*m.formSubtasks = ""
	m.formType = "task"

	priorityOptions := make([]huh.Option[store.Priority], len(priorities))
	for i, p := range priorities {
		priorityOptions[i] = huh.NewOption(string(p), p)
	}

	loc := m.now().Location()
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(m.formTitle).Validate(required),
			huh.NewText().Title("Description").Value(m.formDescription),
			huh.NewSelect[store.Priority]().Title("Priority").Options(priorityOptions...).Value(m.formPriority),
			huh.NewInput().Title("Deadline (YYYY-MM-DD, optional)").Value(m.formDeadline).
				Validate(func(s string) error {
					_, err := parseDate(s, loc)
					return err
				}),
			huh.NewInput().Title("Course").Value(m.formCourse),
		),
		huh.NewGroup(
			huh.NewText().Title("Subtasks (one per line)").Value(m.formSubtasks),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m tasksModel) showNewSubtaskForm() (tasksModel, tea.Cmd) {
	*m.formTitle = ""
	m.formType = "subtask"

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Subtask").Value(m.formTitle).Validate(required),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	return nil
}

func (m tasksModel) updateForm(msg tea.Msg) (tasksModel, tea.Cmd) {
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
		switch m.formType {
		case "task":
			t, err := m.createTask()
			if err != nil {
				return m, errStatus(err)
			}
			return m, status("Added " + t.Title)
		case "subtask":
			if _, err := m.store.AddSubtask(m.taskID, strings.TrimSpace(*m.formTitle)); err != nil {
				return m, errStatus(err)
			}
		}
		return m, nil
	}

	return m, cmd
}

func (m tasksModel) createTask() (store.Task, error) {
	deadline, err := parseDate(*m.formDeadline, m.now().Location())
	if err != nil {
		return store.Task{}, fmt.Errorf("parse deadline: %w", err)
	}
	if deadline != nil {
		// Due at the end of the chosen day.
		d := deadline.Add(24*time.Hour - time.Minute)
		deadline = &d
	}
	t := store.Task{
		Title:       strings.TrimSpace(*m.formTitle),
		Description: strings.TrimSpace(*m.formDescription),
		Priority:    *m.formPriority,
		Deadline:    deadline,
		CourseID:    strings.TrimSpace(*m.formCourse),
	}
	for _, line := range strings.Split(*m.formSubtasks, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			t.Subtasks = append(t.Subtasks, store.SubTask{Title: line})
		}
	}
	return m.store.AddTask(t)
}

func (m tasksModel) view() string {
	if m.formActive && m.form != nil {
		title := titleStyle.Render("New Task")
		if m.formType == "subtask" {
			title = titleStyle.Render("New Subtask")
		}
		return panelStyle.Width(m.width - 4).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View()),
		)
	}

	if m.viewingSubtasks {
		if t, err := m.store.GetTask(m.taskID); err == nil {
			return m.renderSubtaskView(t)
		}
	}
	return m.renderTaskList()
}

func (m tasksModel) renderFilterTabs() string {
	counts := analytics.CountTasks(m.store.Tasks(), m.now())
	var tabs []string
	for _, f := range analytics.TaskFilters {
		label := fmt.Sprintf("%s (%d)", strings.ToUpper(string(f[:1]))+string(f[1:]), counts[f])
		if f == m.filter {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)
}

func (m tasksModel) renderTaskList() string {
	w := m.width - 4
	now := m.now()
	tasks := m.visible()

	var rows []string
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Bottom, titleStyle.Render("Tasks"), "  ", m.renderFilterTabs()))
	rows = append(rows, "")

	if len(tasks) == 0 {
		rows = append(rows, mutedStyle.Render("No tasks here. Press n to add one."))
		return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
	}

	titleWidth := max(12, w-58)
	for i, t := range tasks {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		check := "[ ]"
		if t.Completed {
			check = successStyle.Render("[x]")
		}
		title := truncate(t.Title, titleWidth)
		if t.Completed {
			title = mutedStyle.Strikethrough(true).Width(titleWidth).Render(title)
		} else {
			title = style.Width(titleWidth).Render(title)
		}
		bar := progress.New(
			progress.WithSolidFill(string(palette.PriorityColor(t.Priority))),
			progress.WithWidth(12),
			progress.WithoutPercentage(),
		)
		subs := ""
		if len(t.Subtasks) > 0 {
			subs = mutedStyle.Render(fmt.Sprintf(" %d/%d", doneSubtasks(t), len(t.Subtasks)))
		}
		row := fmt.Sprintf("%s%s %s %s %s %3d%%%s  %s",
			cursor, check, dot(palette.PriorityColor(t.Priority)),
			title, bar.ViewAs(float64(t.Progress)/100), t.Progress, subs,
			renderDeadline(t, now),
		)
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  x: done  +/-: progress  f: filter  enter: subtasks  d: delete"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (m tasksModel) renderSubtaskView(t store.Task) string {
	w := m.width - 4
	now := m.now()

	var rows []string
	rows = append(rows, titleStyle.Render(fmt.Sprintf("%s %s", dot(palette.PriorityColor(t.Priority)), t.Title)))
	meta := []string{string(t.Priority)}
	if t.CourseID != "" {
		meta = append(meta, t.CourseID)
	}
	if t.Deadline != nil {
		meta = append(meta, analytics.DeadlineText(*t.Deadline, now))
	}
	rows = append(rows, mutedStyle.Render(strings.Join(meta, " · ")))
	if t.Description != "" {
		rows = append(rows, "", t.Description)
	}
	bar := progress.New(progress.WithSolidFill(string(colorPrimary)), progress.WithWidth(max(10, w-20)))
	rows = append(rows, "", bar.ViewAs(float64(t.Progress)/100), "")

	if len(t.Subtasks) == 0 {
		rows = append(rows, mutedStyle.Render("No subtasks. Press n to add one."))
	}
	for i, sub := range t.Subtasks {
		cursor := "  "
		style := normalItemStyle
		if i == m.subCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		check := "[ ]"
		if sub.Completed {
			check = successStyle.Render("[x]")
		}
		rows = append(rows, fmt.Sprintf("%s%s %s", cursor, check, style.Render(sub.Title)))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new subtask  x/enter: toggle  esc: back"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func doneSubtasks(t store.Task) int {
	n := 0
	for _, s := range t.Subtasks {
		if s.Completed {
			n++
		}
	}
	return n
}

func renderDeadline(t store.Task, now time.Time) string {
	if t.Deadline == nil {
		return ""
	}
	text := analytics.DeadlineText(*t.Deadline, now)
	if t.Completed {
		return mutedStyle.Render(text)
	}
	switch analytics.DeadlineUrgency(*t.Deadline, now) {
	case analytics.UrgencyOverdue:
		return errorStyle.Render(text)
	case analytics.UrgencySoon:
		return accentStyle.Render(text)
	case analytics.UrgencyWeek:
		return warningStyle.Render(text)
	}
	return mutedStyle.Render(text)
}
