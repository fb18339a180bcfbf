package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/uniflow/internal/store"
	"gopkg.in/yaml.v3"
)

func sampleData() []store.StudySession {
	end := time.Date(2025, time.July, 1, 11, 30, 0, 0, time.UTC)
	return []store.StudySession{
		{
			ID:        "s1",
			StartTime: end.Add(-90 * time.Minute),
			EndTime:   end,
			Duration:  90,
			Subject:   "Psychology",
			Breaks:    2,
		},
		{
			ID:        "s2",
			StartTime: end.Add(time.Hour),
			EndTime:   end.Add(time.Hour + 25*time.Minute),
			Duration:  25,
		},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return records
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.csv")
	if err := ToCSV(sampleData(), path); err != nil {
		t.Fatalf("ToCSV: %v", err)
	}

	records := readCSV(t, path)
	if len(records) != 3 {
		t.Fatalf("expected 3 rows (1 header + 2 data), got %d", len(records))
	}

	expectedHeader := []string{"ID", "Subject", "Start", "End", "Duration (min)", "Breaks"}
	for i, h := range expectedHeader {
		if records[0][i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, records[0][i], h)
		}
	}

	row := records[1]
	if row[0] != "s1" || row[1] != "Psychology" || row[4] != "90" || row[5] != "2" {
		t.Fatalf("unexpected first row: %v", row)
	}
	start, err := time.Parse(time.RFC3339, row[2])
	if err != nil || !start.Equal(sampleData()[0].StartTime) {
		t.Fatalf("Start = %q, %v", row[2], err)
	}
}

func TestToCSVMissingSubjectIsGeneral(t *testing.T) {
	path := filepath.Join(t.TempDir(), "general.csv")
	if err := ToCSV(sampleData(), path); err != nil {
		t.Fatal(err)
	}
	if got := readCSV(t, path)[2][1]; got != "General" {
		t.Fatalf("expected 'General' for a missing subject, got %q", got)
	}
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := ToCSV(nil, path); err != nil {
		t.Fatal(err)
	}
	if records := readCSV(t, path); len(records) != 1 {
		t.Fatalf("expected 1 row (header only), got %d", len(records))
	}
}

func TestToCSVBadPath(t *testing.T) {
	if err := ToCSV(nil, "/nonexistent/dir/file.csv"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToCSVSpecialCharacters(t *testing.T) {
	sessions := sampleData()[:1]
	sessions[0].Subject = `Stats "II", section B`
	path := filepath.Join(t.TempDir(), "special.csv")
	if err := ToCSV(sessions, path); err != nil {
		t.Fatal(err)
	}
	if got := readCSV(t, path)[1][1]; got != `Stats "II", section B` {
		t.Fatalf("subject mangled: %q", got)
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.json")
	if err := ToJSON(sampleData(), path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var result document
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if result.Count != 2 || len(result.Sessions) != 2 {
		t.Fatalf("count = %d, sessions = %d", result.Count, len(result.Sessions))
	}
	if result.TotalMinutes != 115 {
		t.Fatalf("total_minutes = %d, want 115", result.TotalMinutes)
	}
	if _, err := time.Parse(time.RFC3339, result.ExportedAt); err != nil {
		t.Fatalf("exported_at is not valid RFC3339: %q", result.ExportedAt)
	}

	s := result.Sessions[0]
	if s.ID != "s1" || s.Subject != "Psychology" || s.DurationMin != 90 || s.Breaks != 2 {
		t.Fatalf("unexpected session: %+v", s)
	}
	if s.Duration != "01:30:00" {
		t.Fatalf("Duration = %q, want 01:30:00", s.Duration)
	}
	if result.Sessions[1].Subject != "General" {
		t.Fatalf("expected 'General', got %q", result.Sessions[1].Subject)
	}
}

func TestToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := ToJSON(nil, path); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	var result document
	json.Unmarshal(data, &result)
	if result.Count != 0 || result.Sessions != nil {
		t.Fatalf("unexpected empty export: %+v", result)
	}
}

func TestToJSONBadPath(t *testing.T) {
	if err := ToJSON(nil, "/nonexistent/dir/file.json"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToJSONPrettyPrinted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pretty.json")
	ToJSON(nil, path)

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "\n  ") {
		t.Fatal("JSON should be indented with spaces")
	}
}

// ============================================================
// YAML
// ============================================================

func TestToYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.yaml")
	if err := ToYAML(sampleData(), path); err != nil {
		t.Fatalf("ToYAML: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var result document
	if err := yaml.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid YAML: %v", err)
	}
	if result.Count != 2 || result.Sessions[0].Subject != "Psychology" || result.Sessions[1].Breaks != 0 {
		t.Fatalf("unexpected document: %+v", result)
	}
	if !strings.Contains(string(data), "duration_minutes: 90") {
		t.Fatalf("expected snake_case keys:\n%s", data)
	}
}

func TestToYAMLBadPath(t *testing.T) {
	if err := ToYAML(nil, "/nonexistent/dir/file.yaml"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

// ============================================================
// Dispatch
// ============================================================

func TestWriteDispatches(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, time.July, 2, 15, 4, 5, 0, time.UTC)
	for _, f := range Formats {
		path := Path(dir, f, now)
		if err := Write(f, sampleData(), path); err != nil {
			t.Fatalf("Write(%s): %v", f, err)
		}
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("Write(%s) did not create %s", f, path)
		}
	}
	if err := Write("xml", nil, filepath.Join(dir, "x")); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestPath(t *testing.T) {
	now := time.Date(2025, time.July, 2, 15, 4, 5, 0, time.UTC)
	got := Path("/tmp", FormatYAML, now)
	if got != "/tmp/uniflow-sessions-20250702-150405.yaml" {
		t.Fatalf("Path = %q", got)
	}
}

// ============================================================
// formatDuration (internal helper)
// ============================================================

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		secs int64
		want string
	}{
		{0, "00:00:00"},
		{60, "00:01:00"},
		{1500, "00:25:00"},
		{3661, "01:01:01"},
		{90061, "25:01:01"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.secs); got != tt.want {
			t.Errorf("formatDuration(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}
