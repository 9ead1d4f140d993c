package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. SPANPLAN_DB.
const EnvPrefix = "SPANPLAN"

// Load merges defaults, the global config, the project config and the
// environment, in that order.
func Load() (*Config, error) {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".spanplan", "config.yaml"))
	}
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".spanplan", "config.yaml"))
	}
	return LoadFrom(paths...)
}

// LoadFrom is Load with explicit config file paths. Missing files are
// skipped.
func LoadFrom(paths ...string) (*Config, error) {
	cfg := DefaultConfig()
	for _, path := range paths {
		if err := loadFile(path, cfg); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}
	applyEnv(cfg)
	cfg.DBPath = expandHome(cfg.DBPath)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return err
	}
	return v.Unmarshal(cfg)
}

// applyEnv copies set SPANPLAN_* variables over cfg.
func applyEnv(cfg *Config) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range []string{"db", "view", "commit_mode", "watch", "log_format", "log_file", "addr"} {
		_ = v.BindEnv(key)
	}

	if v.IsSet("db") {
		cfg.DBPath = v.GetString("db")
	}
	if v.IsSet("view") {
		cfg.View = strings.ToLower(v.GetString("view"))
	}
	if v.IsSet("commit_mode") {
		cfg.CommitMode = strings.ToLower(v.GetString("commit_mode"))
	}
	if v.IsSet("watch") {
		cfg.Watch = v.GetBool("watch")
	}
	if v.IsSet("log_format") {
		cfg.Log.Format = strings.ToLower(v.GetString("log_format"))
	}
	if v.IsSet("log_file") {
		cfg.Log.File = v.GetString("log_file")
	}
	if v.IsSet("addr") {
		cfg.Server.Addr = v.GetString("addr")
	}
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// GlobalConfigPath returns the path of the per-user config file.
func GlobalConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".spanplan", "config.yaml")
}
