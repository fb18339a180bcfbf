package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sadopc/uniflow/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewHome viewState = iota
	viewSchedule
	viewTasks
	viewTimer
	viewProgress
	viewSettings
)

var viewNames = []string{"Home", "Schedule", "Tasks", "Timer", "Progress", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

// setThemeMsg asks the App to switch and persist the theme.
type setThemeMsg struct {
	mode store.ThemeMode
}

type themeSavedMsg struct {
	mode store.ThemeMode
	err  error
}

// --- Helpers ---

// formatClock renders seconds as MM:SS.
func formatClock(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

func formatHours(h float64) string {
	return fmt.Sprintf("%.1fh", h)
}

func formatMinutes(mins int) string {
	if mins < 60 {
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%dh %02dm", mins/60, mins%60)
}

func timeRange(start, end time.Time) string {
	return start.Format("15:04") + " - " + end.Format("15:04")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

// parseMinutes reads a whole number of minutes from a form field.
func parseMinutes(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.New("enter a whole number")
	}
	return n, nil
}

func validateClock(s string) error {
	if _, err := store.ParseClock(s); err != nil {
		return errors.New("use HH:MM")
	}
	return nil
}

// parseDate reads an optional YYYY-MM-DD date in loc. An empty string means
// no date.
func parseDate(s string, loc *time.Location) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return nil, errors.New("use YYYY-MM-DD")
	}
	return &d, nil
}
