// Package theme resolves the light/dark/system preference into a colour
// palette and persists the choice.
package theme

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/uniflow/internal/logging"
	"github.com/sadopc/uniflow/internal/prefs"
	"github.com/sadopc/uniflow/internal/store"
)

// PrefKey is the preferences key holding the theme mode.
const PrefKey = "themeMode"

var ErrUnknownMode = errors.New("theme: unknown mode")

// Modes lists the selectable modes in display order.
var Modes = []store.ThemeMode{store.ThemeLight, store.ThemeDark, store.ThemeSystem}

// Preferences is the subset of the preferences store the theme needs.
type Preferences interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// Parse validates a mode name, case-insensitively.
func Parse(s string) (store.ThemeMode, error) {
	mode := store.ThemeMode(strings.ToLower(strings.TrimSpace(s)))
	for _, m := range Modes {
		if m == mode {
			return m, nil
		}
	}
	return "", fmt.Errorf("parse theme %q: %w", s, ErrUnknownMode)
}

// IsDark resolves a mode against the terminal's background.
func IsDark(mode store.ThemeMode, systemDark bool) bool {
	return mode == store.ThemeDark || (mode == store.ThemeSystem && systemDark)
}

// Load reads the saved mode. Read failures and unknown values are logged and
// yield the system mode; a missing key yields it silently.
func Load(ctx context.Context, p Preferences) store.ThemeMode {
	log := logging.FromContext(ctx).With("component", "theme")
	raw, err := p.Get(PrefKey)
	if errors.Is(err, prefs.ErrNotFound) {
		return store.ThemeSystem
	}
	if err != nil {
		log.Warn("failed to load theme preference", "error", err)
		return store.ThemeSystem
	}
	mode, err := Parse(raw)
	if err != nil {
		log.Warn("ignoring saved theme preference", "value", raw, "error", err)
		return store.ThemeSystem
	}
	return mode
}

// Save persists mode. A failure is logged and returned; callers keep using
// the new mode in memory either way.
func Save(ctx context.Context, p Preferences, mode store.ThemeMode) error {
	if err := p.Set(PrefKey, string(mode)); err != nil {
		logging.FromContext(ctx).With("component", "theme").
			Error("failed to save theme preference", "mode", mode, "error", err)
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}

// Palette is the set of colours the interface is drawn with.
type Palette struct {
	Primary       lipgloss.Color
	Secondary     lipgloss.Color
	Accent        lipgloss.Color
	Background    lipgloss.Color
	Surface       lipgloss.Color
	Text          lipgloss.Color
	TextSecondary lipgloss.Color
	Border        lipgloss.Color
	Error         lipgloss.Color
	Success       lipgloss.Color
	Warning       lipgloss.Color
}

var (
	electricBlue = lipgloss.Color("#4361EE")
	neonPink     = lipgloss.Color("#FF006E")
	limeGreen    = lipgloss.Color("#B5E48C")
	darkGray     = lipgloss.Color("#2B2D42")
	white        = lipgloss.Color("#FFFFFF")
	lightGray    = lipgloss.Color("#F8F9FA")
	mediumGray   = lipgloss.Color("#CED4DA")
)

var Light = Palette{
	Primary:       electricBlue,
	Secondary:     neonPink,
	Accent:        limeGreen,
	Background:    white,
	Surface:       lightGray,
	Text:          darkGray,
	TextSecondary: lipgloss.Color("#757575"),
	Border:        mediumGray,
	Error:         lipgloss.Color("#FF5252"),
	Success:       lipgloss.Color("#4CAF50"),
	Warning:       lipgloss.Color("#FFC107"),
}

var Dark = Palette{
	Primary:       electricBlue,
	Secondary:     neonPink,
	Accent:        limeGreen,
	Background:    darkGray,
	Surface:       lipgloss.Color("#3A3B50"),
	Text:          white,
	TextSecondary: lipgloss.Color("#AAAAAA"),
	Border:        lipgloss.Color("#4A4B61"),
	Error:         lipgloss.Color("#FF5252"),
	Success:       lipgloss.Color("#4CAF50"),
	Warning:       lipgloss.Color("#FFC107"),
}

// For returns the palette for a resolved darkness.
func For(dark bool) Palette {
	if dark {
		return Dark
	}
	return Light
}

// PriorityColor picks the badge colour for a task priority.
func (p Palette) PriorityColor(pr store.Priority) lipgloss.Color {
	switch pr {
	case store.PriorityUrgent:
		return p.Error
	case store.PriorityHigh:
		return p.Secondary
	case store.PriorityMedium:
		return p.Warning
	case store.PriorityLow:
		return p.Success
	}
	return p.TextSecondary
}

// LectureColor returns the lecture's own colour, or the primary colour when
// none is set.
func (p Palette) LectureColor(l store.Lecture) lipgloss.Color {
	if l.Color == "" {
		return p.Primary
	}
	return lipgloss.Color(l.Color)
}
