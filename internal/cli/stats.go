package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sadopc/uniflow/internal/analytics"
	"github.com/spf13/cobra"
)

var statsJSON bool

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Print the statistics as JSON")
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print study statistics",
	Long: `Print the statistics shown on the progress view. Data lives only for
one run, so outside the interface this reports on the demo data when
seed_demo is enabled.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer e.close()

		now := time.Now()
		s := newStore(e.cfg, now)
		sum := analytics.Summarize(s.Tasks(), s.Sessions(), now)
		if statsJSON {
			return writeStatsJSON(cmd.OutOrStdout(), sum)
		}
		return writeStats(cmd.OutOrStdout(), sum)
	},
}

type statsReport struct {
	TodayHours     float64          `json:"today_hours"`
	WeekHours      float64          `json:"week_hours"`
	AverageSession float64          `json:"average_session_minutes"`
	CompletionRate int              `json:"completion_rate"`
	CompletedTasks int              `json:"completed_tasks"`
	TotalTasks     int              `json:"total_tasks"`
	Streak         int              `json:"streak_days"`
	TotalSessions  int              `json:"total_sessions"`
	MostProductive string           `json:"most_productive_day,omitempty"`
	Subjects       map[string]int   `json:"subject_minutes"`
	Trend          []trendWeekEntry `json:"weekly_trend"`
}

type trendWeekEntry struct {
	Week    string `json:"week"`
	Minutes int    `json:"minutes"`
}

func writeStatsJSON(w io.Writer, sum analytics.Summary) error {
	r := statsReport{
		TodayHours:     sum.TodayHours,
		WeekHours:      sum.WeekHours,
		AverageSession: sum.AverageSession,
		CompletionRate: sum.CompletionRate,
		CompletedTasks: sum.CompletedTasks,
		TotalTasks:     sum.TotalTasks,
		Streak:         sum.Streak,
		TotalSessions:  sum.TotalSessions,
		Subjects:       make(map[string]int, len(sum.Subjects)),
	}
	if sum.HasMostProductive {
		r.MostProductive = sum.MostProductive.Date.Format("2006-01-02")
	}
	for _, s := range sum.Subjects {
		r.Subjects[s.Subject] = s.Minutes
	}
	for _, wk := range sum.Trend {
		r.Trend = append(r.Trend, trendWeekEntry{Week: wk.Start.Format("2006-01-02"), Minutes: wk.Minutes})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}
	return nil
}

func writeStats(w io.Writer, sum analytics.Summary) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Today:          %.1fh\n", sum.TodayHours)
	fmt.Fprintf(&b, "This week:      %.1fh\n", sum.WeekHours)
	fmt.Fprintf(&b, "Avg session:    %.0fm\n", sum.AverageSession)
	fmt.Fprintf(&b, "Tasks done:     %d%% (%d/%d)\n", sum.CompletionRate, sum.CompletedTasks, sum.TotalTasks)
	fmt.Fprintf(&b, "Streak:         %d days\n", sum.Streak)
	fmt.Fprintf(&b, "Sessions:       %d\n", sum.TotalSessions)
	if sum.HasMostProductive {
		fmt.Fprintf(&b, "Best day:       %s (%dm)\n", sum.MostProductive.Date.Format("Mon Jan 02"), sum.MostProductive.Minutes)
	}
	if len(sum.Subjects) > 0 {
		b.WriteString("\nSubjects:\n")
		for _, s := range sum.Subjects {
			fmt.Fprintf(&b, "  %-20s %4dm\n", s.Subject, s.Minutes)
		}
	}
	if len(sum.Trend) > 0 {
		b.WriteString("\nWeekly trend:\n")
		for _, wk := range sum.Trend {
			fmt.Fprintf(&b, "  %s  %.1fh\n", wk.Start.Format("Jan 02"), wk.Hours())
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
