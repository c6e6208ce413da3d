package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// APIConfig holds connection settings for the platform REST API.
type APIConfig struct {
	// BaseURL is the root URL of the platform backend.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// TimeoutSec bounds a single HTTP request.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`

	// MaxRetries is how many times a rate-limited request is retried.
	MaxRetries int `mapstructure:"max_retries" yaml:"max_retries"`
}

// DashboardConfig controls how aggregates are derived and refreshed.
type DashboardConfig struct {
	// Year is the calendar year charted by the monthly trends.
	// Zero means the current year.
	Year int `mapstructure:"year" yaml:"year"`

	// RecentLimit caps the recent-activity feed.
	RecentLimit int `mapstructure:"recent_limit" yaml:"recent_limit"`

	// PollIntervalSec is how often (in seconds) the snapshot is refetched.
	PollIntervalSec int `mapstructure:"poll_interval_sec" yaml:"poll_interval_sec"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// LogConfig holds structured logging settings.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// StoreConfig locates the local bookmark database.
type StoreConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// ServerConfig holds settings for the local JSON gateway.
type ServerConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	API       APIConfig       `mapstructure:"api" yaml:"api"`
	Dashboard DashboardConfig `mapstructure:"dashboard" yaml:"dashboard"`
	Display   DisplayConfig   `mapstructure:"display" yaml:"display"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
	Store     StoreConfig     `mapstructure:"store" yaml:"store"`
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
}

// EnvPrefix is prepended to environment overrides, e.g.
// STUDYHUB_API_BASE_URL overrides api.base_url.
const EnvPrefix = "STUDYHUB"

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/studyhub/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "studyhub", "config.yaml")
}

// homePath joins elem under the user's home directory, falling back to
// the working directory.
func homePath(elem ...string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(append([]string{home}, elem...)...)
}

// DefaultAppConfig returns a sensible default configuration.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		API: APIConfig{
			BaseURL:    "http://localhost:5000",
			TimeoutSec: 30,
			MaxRetries: 3,
		},
		Dashboard: DashboardConfig{
			Year:            0,
			RecentLimit:     6,
			PollIntervalSec: 120,
		},
		Display: DisplayConfig{
			Theme: "default",
		},
		Log: LogConfig{
			Level: "info",
			File:  homePath(".local", "state", "studyhub", "studyhub.log"),
		},
		Store: StoreConfig{
			Path: homePath(".local", "share", "studyhub", "studyhub.db"),
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8089",
		},
	}
}

// setDefaults registers every default with v so that environment
// overrides are visible to Unmarshal even without a config file.
func setDefaults(v *viper.Viper, cfg *AppConfig) {
	v.SetDefault("api.base_url", cfg.API.BaseURL)
	v.SetDefault("api.timeout_sec", cfg.API.TimeoutSec)
	v.SetDefault("api.max_retries", cfg.API.MaxRetries)
	v.SetDefault("dashboard.year", cfg.Dashboard.Year)
	v.SetDefault("dashboard.recent_limit", cfg.Dashboard.RecentLimit)
	v.SetDefault("dashboard.poll_interval_sec", cfg.Dashboard.PollIntervalSec)
	v.SetDefault("display.theme", cfg.Display.Theme)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.file", cfg.Log.File)
	v.SetDefault("store.path", cfg.Store.Path)
	v.SetDefault("server.addr", cfg.Server.Addr)
}

// LoadConfig reads configuration from the given YAML file path using Viper,
// applying STUDYHUB_* environment overrides. If the file does not exist,
// defaults plus environment overrides are returned.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, DefaultAppConfig())

	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := DefaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Dashboard.RecentLimit <= 0 {
		cfg.Dashboard.RecentLimit = 6
	}
	if cfg.Dashboard.PollIntervalSec <= 0 {
		cfg.Dashboard.PollIntervalSec = 120
	}
	if cfg.API.TimeoutSec <= 0 {
		cfg.API.TimeoutSec = 30
	}
	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("api", cfg.API)
	v.Set("dashboard", cfg.Dashboard)
	v.Set("display", cfg.Display)
	v.Set("log", cfg.Log)
	v.Set("store", cfg.Store)
	v.Set("server", cfg.Server)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
