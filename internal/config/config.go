// Package config loads spanplan settings from YAML files and SPANPLAN_*
// environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alexanderramin/spanplan/internal/domain"
)

// Config is the full spanplan configuration.
type Config struct {
	// DBPath is the SQLite database file. Shared by every process that
	// edits the same timelines.
	DBPath string `yaml:"db" mapstructure:"db"`

	// View is the initial view mode of the TUI: day, week or month.
	View string `yaml:"view" mapstructure:"view"`

	// CommitMode controls whether drag ticks are written as they happen
	// ("live") or only on release ("release").
	CommitMode string `yaml:"commit_mode" mapstructure:"commit_mode"`

	// Watch enables refreshing open timelines when another process
	// writes the database.
	Watch bool `yaml:"watch" mapstructure:"watch"`

	Log    LogConfig    `yaml:"log" mapstructure:"log"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
}

// LogConfig selects the slog handler and its destination.
type LogConfig struct {
	Format string `yaml:"format" mapstructure:"format"` // text or json
	File   string `yaml:"file" mapstructure:"file"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		DBPath:     defaultDBPath(),
		View:       string(domain.ViewWeek),
		CommitMode: string(domain.CommitLive),
		Watch:      true,
		Log:        LogConfig{Format: "text"},
		Server:     ServerConfig{Addr: "127.0.0.1:8080"},
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "spanplan.db"
	}
	return filepath.Join(home, ".spanplan", "spanplan.db")
}

// ViewMode returns the parsed view mode.
func (c *Config) ViewMode() (domain.ViewMode, error) {
	return domain.ParseViewMode(c.View)
}

// Commit returns the parsed commit mode.
func (c *Config) Commit() (domain.CommitMode, error) {
	return domain.ParseCommitMode(c.CommitMode)
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db path is required")
	}
	if _, err := c.ViewMode(); err != nil {
		return err
	}
	if _, err := c.Commit(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q (want text or json)", c.Log.Format)
	}
	return nil
}
