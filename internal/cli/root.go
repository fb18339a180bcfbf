package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/uniflow/internal/config"
	"github.com/sadopc/uniflow/internal/logging"
	"github.com/sadopc/uniflow/internal/prefs"
	"github.com/sadopc/uniflow/internal/store"
	"github.com/sadopc/uniflow/internal/theme"
	"github.com/sadopc/uniflow/internal/timer"
	"github.com/sadopc/uniflow/internal/tui"
	"github.com/spf13/cobra"
)

var (
	buildVersion = "dev"
	configFile   string
)

var rootCmd = &cobra.Command{
	Use:   "uniflow",
	Short: "Plan lectures, track tasks and study with a Pomodoro timer",
	Long: `uniflow is a terminal planner for students: a weekly lecture schedule,
a prioritised task list with subtasks, a Pomodoro study timer and progress
statistics built from the recorded study sessions.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default "+config.FilePath()+")")
}

// Execute runs the root command. version is injected via ldflags.
func Execute(version string) error {
	if version != "" {
		buildVersion = version
	}
	return rootCmd.Execute()
}

// env is what every command needs once configuration is loaded.
type env struct {
	cfg   config.Config
	ctx   context.Context
	log   *slog.Logger
	prefs *prefs.Store
	close func()
}

func setup(ctx context.Context) (*env, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	log, closeLog, err := logging.Open(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	p, err := prefs.New(cfg.PrefsPath)
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("open preferences: %w", err)
	}
	return &env{
		cfg:   cfg,
		ctx:   logging.ContextWithLogger(ctx, log),
		log:   log,
		prefs: p,
		close: func() {
			if err := p.Close(); err != nil {
				log.Warn("failed to close preferences", "error", err)
			}
			_ = closeLog()
		},
	}, nil
}

// newStore builds the in-memory store, seeded with the demo data when the
// config asks for it.
func newStore(cfg config.Config, now time.Time) *store.Store {
	s := store.New(store.WithSettings(cfg.Settings()))
	if cfg.SeedDemo {
		s.Seed(now)
	}
	return s
}

func runTUI(cmd *cobra.Command, _ []string) error {
	e, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer e.close()

	mode := theme.Load(e.ctx, e.prefs)
	s := newStore(e.cfg, time.Now())
	tm := timer.New(s.Settings().Pomodoro, s, timer.WithLogger(e.log))

	app, err := tui.NewApp(e.ctx, tui.Config{
		Store:      s,
		Timer:      tm,
		Prefs:      e.prefs,
		ThemeMode:  mode,
		SystemDark: lipgloss.HasDarkBackground(),
		ExportDir:  e.cfg.ExportDir,
	})
	if err != nil {
		return err
	}

	e.log.Info("starting", "version", buildVersion, "theme", mode, "seeded", e.cfg.SeedDemo)
	if _, err := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(e.ctx)).Run(); err != nil {
		return fmt.Errorf("run interface: %w", err)
	}
	e.log.Info("exiting", "sessions", len(s.Sessions()))
	return nil
}
