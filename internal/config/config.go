// Package config loads daybook configuration with Viper: defaults,
// then ~/.config/daybook/config.yaml, then DAYBOOK_* env vars.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/daybook-app/daybook/internal/layout"
)

// Config is the top-level application configuration.
type Config struct {
	// DatabasePath is the sqlite file location.
	DatabasePath string `mapstructure:"database_path"`

	// WeekStart is "sunday" or "monday" and controls which day the week
	// view opens on. The layout grid itself is always Sunday-aligned.
	WeekStart string `mapstructure:"week_start"`

	// HourHeight is the default pixels-per-hour zoom for calendar views.
	HourHeight float64 `mapstructure:"hour_height"`

	// DefaultView is the calendar view opened by `daybook cal` ("day" or "week").
	DefaultView string `mapstructure:"default_view"`

	// LogLevel is the minimum log level (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		DatabasePath: filepath.Join(home, ".daybook", "daybook.db"),
		WeekStart:    "monday",
		HourHeight:   layout.DefaultHourHeight,
		DefaultView:  "week",
		LogLevel:     "warn",
	}
}

// Load reads configuration with precedence defaults < file < env.
// A missing config file is not an error.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		v.AddConfigPath(filepath.Join(xdg, "daybook"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "daybook"))
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix("DAYBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("database_path", cfg.DatabasePath)
	v.SetDefault("week_start", cfg.WeekStart)
	v.SetDefault("hour_height", cfg.HourHeight)
	v.SetDefault("default_view", cfg.DefaultView)
	v.SetDefault("log_level", cfg.LogLevel)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.DatabasePath = expandTilde(cfg.DatabasePath)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enum fields and clamps the zoom default.
func (c *Config) Validate() error {
	switch c.WeekStart {
	case "sunday", "monday":
	default:
		return fmt.Errorf("config: week_start must be sunday or monday, got %q", c.WeekStart)
	}
	switch c.DefaultView {
	case "day", "week":
	default:
		return fmt.Errorf("config: default_view must be day or week, got %q", c.DefaultView)
	}
	c.HourHeight = layout.ClampHourHeight(c.HourHeight)
	return nil
}

// expandTilde expands ~ to the user's home directory.
func expandTilde(path string) string {
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}
