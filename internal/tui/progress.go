package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/uniflow/internal/analytics"
)

type chartMode int

const (
	chartWeek chartMode = iota
	chartTrend
	chartSubjects
)

var chartNames = []string{"This Week", "4 Weeks", "Subjects"}

// progressModel shows study statistics and one bar chart at a time.
type progressModel struct {
	width  int
	height int
	mode   chartMode
}

func newProgressModel() progressModel {
	return progressModel{}
}

func (p *progressModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

func (p progressModel) update(msg tea.Msg) (progressModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	n := chartMode(len(chartNames))
	switch {
	case key.Matches(keyMsg, keys.Right):
		p.mode = (p.mode + 1) % n
	case key.Matches(keyMsg, keys.Left):
		p.mode = (p.mode + n - 1) % n
	}
	return p, nil
}

func (p progressModel) view(sum analytics.Summary) string {
	w := p.width - 4

	var tabs []string
	for i, name := range chartNames {
		if chartMode(i) == p.mode {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Progress"), "  ", lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...),
	)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
		header, "",
		p.renderCards(w-4, sum), "",
		p.renderChart(w-4, sum), "",
		p.renderLegend(sum),
		mutedStyle.Render("  ←/→: switch chart"),
	))
}

func (p progressModel) renderCards(w int, sum analytics.Summary) string {
	best := "-"
	if sum.HasMostProductive {
		best = fmt.Sprintf("%s (%s)", sum.MostProductive.Date.Format("Mon Jan 02"), formatMinutes(sum.MostProductive.Minutes))
	}
	cards := [][2]string{
		{"Today", formatHours(sum.TodayHours)},
		{"This week", formatHours(sum.WeekHours)},
		{"Avg session", fmt.Sprintf("%.0fm", sum.AverageSession)},
		{"Tasks done", fmt.Sprintf("%d%% (%d/%d)", sum.CompletionRate, sum.CompletedTasks, sum.TotalTasks)},
		{"Streak", fmt.Sprintf("%d days", sum.Streak)},
		{"Best day", best},
	}

	perRow := 3
	colWidth := max(14, w/perRow)
	var rows []string
	for i := 0; i < len(cards); i += perRow {
		var cols []string
		for _, c := range cards[i:min(i+perRow, len(cards))] {
			cols = append(cols, lipgloss.NewStyle().Width(colWidth).Render(lipgloss.JoinVertical(lipgloss.Left,
				highlightStyle.Bold(true).Render(c[1]),
				mutedStyle.Render(c[0]),
			)))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cols...))
	}
	return strings.Join(rows, "\n")
}

// chartBars converts the summary into bars for the current mode. Values are
// hours.
func (p progressModel) chartBars(sum analytics.Summary) []barchart.BarData {
	var bars []barchart.BarData
	bar := func(label string, minutes int, c lipgloss.Color) {
		bars = append(bars, barchart.BarData{
			Label: label,
			Values: []barchart.BarValue{{
				Name:  label,
				Value: float64(minutes) / 60,
				Style: lipgloss.NewStyle().Foreground(c),
			}},
		})
	}

	switch p.mode {
	case chartTrend:
		for _, wk := range sum.Trend {
			bar(wk.Start.Format("Jan 02"), wk.Minutes, colorSecondary)
		}
	case chartSubjects:
		for _, s := range sum.Subjects {
			bar(truncate(s.Subject, 10), s.Minutes, colorAccent)
		}
	default:
		for _, d := range sum.WeekByDay {
			bar(d.Date.Format("Mon"), d.Minutes, colorPrimary)
		}
	}
	return bars
}

func (p progressModel) renderChart(w int, sum analytics.Summary) string {
	bars := p.chartBars(sum)
	if len(bars) == 0 {
		return mutedStyle.Render("  No study sessions yet")
	}

	height := 10
	if p.height > 36 {
		height = 14
	}
	chart := barchart.New(max(20, w), height)
	chart.PushAll(bars)
	chart.Draw()
	return chart.View()
}

func (p progressModel) renderLegend(sum analytics.Summary) string {
	var parts []string
	switch p.mode {
	case chartTrend:
		for _, wk := range sum.Trend {
			parts = append(parts, fmt.Sprintf("%s %s", wk.Start.Format("Jan 02"), formatHours(wk.Hours())))
		}
	case chartSubjects:
		for _, s := range sum.Subjects {
			parts = append(parts, fmt.Sprintf("%s %s", s.Subject, formatMinutes(s.Minutes)))
		}
	default:
		for _, d := range sum.WeekByDay {
			parts = append(parts, fmt.Sprintf("%s %s", d.Date.Format("Mon"), formatMinutes(d.Minutes)))
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return mutedStyle.Render("  " + strings.Join(parts, "  "))
}
