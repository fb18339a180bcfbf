package store

import (
	"fmt"
	"time"
)

// ParseClock parses "HH:MM" into minutes after midnight.
func ParseClock(v string) (int, error) {
	t, err := time.Parse("15:04", v)
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", v, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Active reports whether the clock time of t falls inside [Start, End).
// Windows whose end is before their start wrap past midnight.
func (d DoNotDisturb) Active(t time.Time) bool {
	if !d.Enabled {
		return false
	}
	start, err := ParseClock(d.Start)
	if err != nil {
		return false
	}
	end, err := ParseClock(d.End)
	if err != nil {
		return false
	}
	now := t.Hour()*60 + t.Minute()
	switch {
	case start == end:
		return false
	case start < end:
		return now >= start && now < end
	default:
		return now >= start || now < end
	}
}

// ShouldNotify reports whether a notification may be delivered at t.
func (us UserSettings) ShouldNotify(t time.Time) bool {
	return us.Notifications && !us.DoNotDisturb.Active(t)
}
