// Package export writes recorded study sessions to CSV, JSON or YAML files.
package export

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/sadopc/uniflow/internal/store"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var Formats = []Format{FormatCSV, FormatJSON, FormatYAML}

// Write dispatches to the writer for format.
func Write(format Format, sessions []store.StudySession, path string) error {
	switch format {
	case FormatCSV:
		return ToCSV(sessions, path)
	case FormatJSON:
		return ToJSON(sessions, path)
	case FormatYAML:
		return ToYAML(sessions, path)
	}
	return fmt.Errorf("export sessions: unknown format %q", format)
}

// Path names an export file in dir stamped with now, e.g.
// uniflow-sessions-20250702-150405.csv.
func Path(dir string, format Format, now time.Time) string {
	name := fmt.Sprintf("uniflow-sessions-%s.%s", now.Format("20060102-150405"), format)
	return filepath.Join(dir, name)
}
