package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/uniflow/internal/analytics"
	"github.com/sadopc/uniflow/internal/config"
	"github.com/sadopc/uniflow/internal/store"
)

// isolate points every path the commands touch into a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("UNIFLOW_PREFS_PATH", filepath.Join(dir, "prefs.db"))
	t.Setenv("UNIFLOW_LOG_PATH", filepath.Join(dir, "uniflow.log"))
	t.Setenv("UNIFLOW_EXPORT_DIR", filepath.Join(dir, "exports"))
	return dir
}

func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	// Flag variables outlive a single Execute.
	statsJSON, versionShort = false, false
	exportFormat, exportDir = "csv", ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", filepath.Join(dir, "missing.yaml")}, args...))
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

// ============================================================
// version
// ============================================================

func TestVersion(t *testing.T) {
	dir := isolate(t)
	out, err := run(t, dir, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "uniflow version "+buildVersion) {
		t.Fatalf("output = %q", out)
	}

	out, err = run(t, dir, "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != buildVersion {
		t.Fatalf("short output = %q", out)
	}
}

// ============================================================
// theme
// ============================================================

func TestThemeGetSet(t *testing.T) {
	dir := isolate(t)

	out, err := run(t, dir, "theme", "get")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "system" {
		t.Fatalf("default theme = %q, want system", out)
	}

	if _, err := run(t, dir, "theme", "set", "DARK"); err != nil {
		t.Fatal(err)
	}
	out, err = run(t, dir, "theme", "get")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "dark" {
		t.Fatalf("theme = %q, want dark", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "prefs.db")); err != nil {
		t.Fatalf("preferences database not created: %v", err)
	}
}

func TestThemeSetRejectsUnknownMode(t *testing.T) {
	dir := isolate(t)
	if _, err := run(t, dir, "theme", "set", "sepia"); err == nil {
		t.Fatal("expected an error for an unknown mode")
	}
}

// ============================================================
// stats
// ============================================================

func TestStatsJSONReportsDemoData(t *testing.T) {
	dir := isolate(t)
	out, err := run(t, dir, "stats", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var r statsReport
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if r.TotalSessions == 0 || r.TotalTasks == 0 {
		t.Fatalf("demo data missing: %+v", r)
	}
	if len(r.Trend) != 4 {
		t.Fatalf("trend has %d weeks, want 4", len(r.Trend))
	}
}

func TestStatsWithoutDemoData(t *testing.T) {
	dir := isolate(t)
	t.Setenv("UNIFLOW_SEED_DEMO", "false")
	out, err := run(t, dir, "stats")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Sessions:       0") || !strings.Contains(out, "Tasks done:     0% (0/0)") {
		t.Fatalf("output = %q", out)
	}
}

func TestWriteStats(t *testing.T) {
	day := time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)
	sum := analytics.Summary{
		TodayHours:        1.5,
		WeekHours:         6,
		AverageSession:    25,
		CompletionRate:    50,
		CompletedTasks:    1,
		TotalTasks:        2,
		Streak:            3,
		TotalSessions:     12,
		MostProductive:    analytics.DayTotal{Date: day, Minutes: 120},
		HasMostProductive: true,
		Subjects:          []analytics.SubjectTotal{{Subject: "Physics", Minutes: 200}},
		Trend:             []analytics.WeekTotal{{Start: day, Minutes: 360}},
	}
	var buf bytes.Buffer
	if err := writeStats(&buf, sum); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Today:          1.5h", "Tasks done:     50% (1/2)", "Best day:       Mon Jun 30 (120m)", "Physics", "Jun 30  6.0h"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output missing %q:\n%s", want, buf.String())
		}
	}
}

// ============================================================
// export
// ============================================================

func TestExportWritesDemoSessions(t *testing.T) {
	dir := isolate(t)
	out, err := run(t, dir, "export", "--format", "yaml")
	if err != nil {
		t.Fatal(err)
	}
	matches, _ := filepath.Glob(filepath.Join(dir, "exports", "uniflow-sessions-*.yaml"))
	if len(matches) != 1 {
		t.Fatalf("expected one yaml export, got %v", matches)
	}
	if !strings.Contains(out, matches[0]) {
		t.Fatalf("output should name the file: %q", out)
	}
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	dir := isolate(t)
	if _, err := run(t, dir, "export", "--format", "xml"); err == nil {
		t.Fatal("expected an error for an unknown format")
	}
}

func TestNewStoreSeedsOnlyWhenAsked(t *testing.T) {
	cfg := config.Config{Pomodoro: store.DefaultPomodoro(), Notifications: true}
	s := newStore(cfg, time.Now())
	if len(s.Lectures()) != 0 || len(s.Tasks()) != 0 {
		t.Fatal("store should be empty without seeding")
	}

	cfg.SeedDemo = true
	s = newStore(cfg, time.Now())
	if len(s.Lectures()) == 0 {
		t.Fatal("seeded store should have lectures")
	}
	if s.Settings().Pomodoro != store.DefaultPomodoro() {
		t.Fatalf("pomodoro = %+v", s.Settings().Pomodoro)
	}
}
