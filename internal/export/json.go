package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/uniflow/internal/analytics"
	"github.com/sadopc/uniflow/internal/store"
)

type document struct {
	ExportedAt   string   `json:"exported_at" yaml:"exported_at"`
	Count        int      `json:"count" yaml:"count"`
	TotalMinutes int      `json:"total_minutes" yaml:"total_minutes"`
	Sessions     []record `json:"sessions" yaml:"sessions"`
}

type record struct {
	ID          string `json:"id" yaml:"id"`
	Subject     string `json:"subject" yaml:"subject"`
	StartTime   string `json:"start_time" yaml:"start_time"`
	EndTime     string `json:"end_time" yaml:"end_time"`
	DurationMin int    `json:"duration_minutes" yaml:"duration_minutes"`
	Duration    string `json:"duration" yaml:"duration"`
	Breaks      int    `json:"breaks" yaml:"breaks"`
}

func newDocument(sessions []store.StudySession) document {
	doc := document{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(sessions),
	}
	for _, s := range sessions {
		doc.TotalMinutes += s.Duration
		doc.Sessions = append(doc.Sessions, record{
			ID:          s.ID,
			Subject:     subject(s),
			StartTime:   s.StartTime.Local().Format(time.RFC3339),
			EndTime:     s.EndTime.Local().Format(time.RFC3339),
			DurationMin: s.Duration,
			Duration:    formatDuration(int64(s.Duration) * 60),
			Breaks:      s.Breaks,
		})
	}
	return doc
}

func subject(s store.StudySession) string {
	if s.Subject == "" {
		return analytics.DefaultSubject
	}
	return s.Subject
}

func ToJSON(sessions []store.StudySession, path string) error {
	data, err := json.MarshalIndent(newDocument(sessions), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
