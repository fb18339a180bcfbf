package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/uniflow/internal/analytics"
	"github.com/sadopc/uniflow/internal/schedule"
	"github.com/sadopc/uniflow/internal/store"
	"github.com/sadopc/uniflow/internal/timer"
)

// homeModel is the landing view: the rest of the day at a glance.
type homeModel struct {
	store  *store.Store
	timer  *timer.Timer
	now    func() time.Time
	width  int
	height int
}

func newHomeModel(s *store.Store, tm *timer.Timer, now func() time.Time) homeModel {
	return homeModel{store: s, timer: tm, now: now}
}

func (h *homeModel) setSize(w, hgt int) {
	h.width = w
	h.height = hgt
}

func greeting(t time.Time) string {
	switch hour := t.Hour(); {
	case hour < 12:
		return "Good morning"
	case hour < 18:
		return "Good afternoon"
	}
	return "Good evening"
}

func (h homeModel) view(sum analytics.Summary) string {
	if h.width < 20 {
		return "Terminal too small"
	}
	w := h.width - 4
	now := h.now()

	header := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(greeting(now)),
		mutedStyle.Render(now.Format("Monday, January 2")),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		panelStyle.Width(w).Render(header),
		h.renderClasses(w, now),
		h.renderUrgent(w, sum, now),
		h.renderStats(w, sum),
		h.renderTimer(w),
	)
}

func (h homeModel) renderClasses(w int, now time.Time) string {
	title := titleStyle.Render("Today's Classes")
	upcoming := schedule.Upcoming(h.store.Lectures(), now, 0)
	if len(upcoming) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, mutedStyle.Render("No more classes today"),
		))
	}

	rows := []string{title}
	for _, o := range upcoming {
		l := o.Lecture
		badge := ""
		if o.InProgress(now) {
			badge = successStyle.Render("  now")
		}
		where := ""
		if l.Location != "" {
			where = mutedStyle.Render("  " + l.Location)
		}
		rows = append(rows, fmt.Sprintf("  %s %s  %s%s%s",
			dot(palette.LectureColor(l)), mutedStyle.Render(timeRange(o.Start, o.End)),
			normalItemStyle.Render(l.Title), where, badge,
		))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (h homeModel) renderUrgent(w int, sum analytics.Summary, now time.Time) string {
	title := titleStyle.Render("Due Soon")
	if len(sum.UrgentTasks) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, mutedStyle.Render("Nothing due this week"),
		))
	}

	rows := []string{title}
	for _, t := range sum.UrgentTasks {
		rows = append(rows, fmt.Sprintf("  %s %s  %s",
			dot(palette.PriorityColor(t.Priority)),
			normalItemStyle.Render(truncate(t.Title, max(10, w-30))),
			renderDeadline(t, now),
		))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (h homeModel) renderStats(w int, sum analytics.Summary) string {
	stat := func(label, value string) string {
		return lipgloss.JoinVertical(lipgloss.Left,
			highlightStyle.Bold(true).Render(value),
			mutedStyle.Render(label),
		)
	}
	cols := []string{
		stat("today", formatHours(sum.TodayHours)),
		stat("this week", formatHours(sum.WeekHours)),
		stat("tasks done", fmt.Sprintf("%d%%", sum.CompletionRate)),
		stat("day streak", fmt.Sprintf("%d", sum.Streak)),
	}
	colWidth := max(12, (w-6)/len(cols))
	for i := range cols {
		cols[i] = lipgloss.NewStyle().Width(colWidth).Render(cols[i])
	}
	return panelStyle.Width(w).Render(lipgloss.JoinHorizontal(lipgloss.Top, cols...))
}

func (h homeModel) renderTimer(w int) string {
	st := h.timer.State()
	phase := h.timer.Phase()

	line := mutedStyle.Render("■  Timer idle · press 4 to focus")
	style := panelStyle
	switch {
	case st.IsRunning:
		line = successStyle.Render(fmt.Sprintf("●  %s %s", phase, formatClock(st.TimeRemaining)))
		style = activePanelStyle
	case st.TimeRemaining != h.timer.PhaseDuration():
		line = warningStyle.Render(fmt.Sprintf("⏸  %s %s", phase, formatClock(st.TimeRemaining)))
	}
	subject := mutedStyle.Render("  " + subjectLabel(h.timer.Subject()))
	return style.Width(w).Render(line + subject)
}
