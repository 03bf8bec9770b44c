// Package config loads billable's configuration from file, environment
// and defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mkeller/billable/internal/canonical"
	"github.com/mkeller/billable/internal/refresh"
)

// Config holds everything the CLI needs to run the pipeline.
type Config struct {
	// DBPath is the SQLite database location.
	DBPath string `mapstructure:"db_path"`

	Source SourceConfig `mapstructure:"source"`
	Sink   SinkConfig   `mapstructure:"sink"`

	// RefreshInterval is the minimum spacing between current-day fetches.
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`

	Filter FilterConfig `mapstructure:"filter"`
}

// SourceConfig configures the activity-tracking API client.
type SourceConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// SinkConfig configures the practice-management API client. Optional;
// submission commands fail cleanly when unset.
type SinkConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Token   string `mapstructure:"token"`
}

// FilterConfig tunes the noise filter.
type FilterConfig struct {
	MinTaskLength int      `mapstructure:"min_task_length"`
	AllowedApps   []string `mapstructure:"allowed_apps"`
}

// Load reads configuration from ~/.config/billable/config.yaml (or the
// path in BILLABLE_CONFIG), layered under environment variables with the
// BILLABLE_ prefix. Missing files are fine; defaults apply.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if path := os.Getenv("BILLABLE_CONFIG"); path != "" {
		v.SetConfigFile(path)
	} else if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "billable"))
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix("BILLABLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine either way viper reports it:
		// as ConfigFileNotFoundError when searching paths, or as a bare
		// fs error when BILLABLE_CONFIG names a nonexistent file.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	dbPath := "billable.db"
	if home, err := os.UserHomeDir(); err == nil {
		dbPath = filepath.Join(home, ".local", "share", "billable", "billable.db")
	}
	df := canonical.DefaultFilter()

	v.SetDefault("db_path", dbPath)
	v.SetDefault("refresh_interval", refresh.DefaultInterval)
	v.SetDefault("filter.min_task_length", df.MinTaskLength)
	v.SetDefault("filter.allowed_apps", df.AllowedApps)
}

// NoiseFilter builds the canonical.Filter the config describes.
func (c *Config) NoiseFilter() canonical.Filter {
	f := canonical.DefaultFilter()
	if c.Filter.MinTaskLength > 0 {
		f.MinTaskLength = c.Filter.MinTaskLength
	}
	if len(c.Filter.AllowedApps) > 0 {
		f.AllowedApps = c.Filter.AllowedApps
	}
	return f
}
