// Package config loads UniFlow's settings from an optional YAML file, the
// environment (UNIFLOW_*) and a local .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sadopc/uniflow/internal/store"
	"github.com/spf13/viper"
)

const (
	appName   = "uniflow"
	fileName  = "config"
	fileType  = "yaml"
	envPrefix = "UNIFLOW"
)

type Config struct {
	PrefsPath string
	LogPath   string
	LogLevel  string
	ExportDir string
	SeedDemo  bool

	Notifications bool
	Pomodoro      store.PomodoroSettings
	DoNotDisturb  store.DoNotDisturb
}

// Dir returns the UniFlow config directory (~/.config/uniflow).
func Dir() string {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "."+appName)
	}
	return filepath.Join(cfg, appName)
}

// FilePath returns the default config file path.
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

func setDefaults(v *viper.Viper) {
	d := store.DefaultSettings()
	v.SetDefault("prefs_path", filepath.Join(Dir(), "prefs.db"))
	v.SetDefault("log_path", filepath.Join(Dir(), appName+".log"))
	v.SetDefault("log_level", "info")
	v.SetDefault("export_dir", ".")
	v.SetDefault("seed_demo", true)
	v.SetDefault("notifications", d.Notifications)
	v.SetDefault("pomodoro.work_minutes", d.Pomodoro.WorkDuration)
	v.SetDefault("pomodoro.break_minutes", d.Pomodoro.BreakDuration)
	v.SetDefault("pomodoro.long_break_minutes", d.Pomodoro.LongBreakDuration)
	v.SetDefault("pomodoro.sessions_before_long_break", d.Pomodoro.SessionsBeforeLongBreak)
	v.SetDefault("do_not_disturb.enabled", d.DoNotDisturb.Enabled)
	v.SetDefault("do_not_disturb.start", d.DoNotDisturb.Start)
	v.SetDefault("do_not_disturb.end", d.DoNotDisturb.End)
}

// Load reads configuration from file (FilePath when empty), then the
// environment. A missing config or .env file is not an error.
func Load(file string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	if file == "" {
		file = FilePath()
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(file)
	v.SetConfigType(fileType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	cfg := Config{
		PrefsPath:     v.GetString("prefs_path"),
		LogPath:       v.GetString("log_path"),
		LogLevel:      v.GetString("log_level"),
		ExportDir:     v.GetString("export_dir"),
		SeedDemo:      v.GetBool("seed_demo"),
		Notifications: v.GetBool("notifications"),
		Pomodoro: store.PomodoroSettings{
			WorkDuration:            v.GetInt("pomodoro.work_minutes"),
			BreakDuration:           v.GetInt("pomodoro.break_minutes"),
			LongBreakDuration:       v.GetInt("pomodoro.long_break_minutes"),
			SessionsBeforeLongBreak: v.GetInt("pomodoro.sessions_before_long_break"),
		}.Normalized(),
		DoNotDisturb: store.DoNotDisturb{
			Enabled: v.GetBool("do_not_disturb.enabled"),
			Start:   v.GetString("do_not_disturb.start"),
			End:     v.GetString("do_not_disturb.end"),
		},
	}
	return cfg, nil
}

// Settings returns the initial user settings described by the config. The
// theme is not configured here; it comes from the preferences store.
func (c Config) Settings() store.UserSettings {
	us := store.DefaultSettings()
	us.Notifications = c.Notifications
	us.Pomodoro = c.Pomodoro
	us.DoNotDisturb = c.DoNotDisturb
	return us
}
