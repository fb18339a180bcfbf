package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/uniflow/internal/export"
	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportDir    string
)

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", string(export.FormatCSV), "Output format: csv, json or yaml")
	exportCmd.Flags().StringVarP(&exportDir, "dir", "d", "", "Output directory (default export_dir from the config)")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the demo study sessions to a file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := parseFormat(exportFormat)
		if err != nil {
			return err
		}
		e, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer e.close()

		dir := exportDir
		if dir == "" {
			dir = e.cfg.ExportDir
		}
		now := time.Now()
		sessions := newStore(e.cfg, now).Sessions()
		if len(sessions) == 0 {
			return errors.New("export: no study sessions (enable seed_demo to export the demo data)")
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export directory: %w", err)
		}
		path := export.Path(dir, format, now)
		if err := export.Write(format, sessions, path); err != nil {
			return err
		}
		e.log.Info("sessions exported", "format", format, "path", path, "count", len(sessions))
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d sessions to %s\n", len(sessions), path)
		return nil
	},
}

func parseFormat(s string) (export.Format, error) {
	for _, f := range export.Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown export format %q (want csv, json or yaml)", s)
}
