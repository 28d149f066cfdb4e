// Package config provides configuration management for the dashboard service.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server        ServerConfig       `mapstructure:"server"`
	Storage       StorageConfig      `mapstructure:"storage"`
	Flights       FlightConfig       `mapstructure:"flights"`
	UI            UIConfig           `mapstructure:"ui"`
	Notifications NotificationConfig `mapstructure:"notifications"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// StorageConfig holds persistence adapter configuration.
type StorageConfig struct {
	// Driver selects the persistence adapter: "sqlite" or "file".
	Driver string `mapstructure:"driver"`
	// Path is the database file for sqlite, or the data directory for file.
	Path string `mapstructure:"path"`
}

// FlightConfig holds flight monitor configuration.
type FlightConfig struct {
	// APIKey is the bearer credential required on the price-update endpoint.
	APIKey string `mapstructure:"api_key"`
	// FeedURL is an optional external price feed to poll. Empty disables polling.
	FeedURL string `mapstructure:"feed_url"`
	// PollInterval is the feed poll interval, e.g. "6h".
	PollInterval string `mapstructure:"poll_interval"`
	// HistoryDays caps the per-route price history length.
	HistoryDays int `mapstructure:"history_days"`
	// NearMargin is the "getting close" hint margin ratio.
	NearMargin float64 `mapstructure:"near_margin"`
}

// UIConfig holds terminal output configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
	TimeFormat   string `mapstructure:"time_format"`
}

// NotificationConfig holds notification configuration.
type NotificationConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Level   string        `mapstructure:"level"` // all, alerts_only, errors_only
	Webhook WebhookConfig `mapstructure:"webhook"`
}

// WebhookConfig holds webhook notification configuration.
type WebhookConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/mission-control"
	}
	return filepath.Join(home, ".config", "mission-control")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}

	if err := loadConfigFile(configDir, "config", cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	applyDefaults(cfg)
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir, name string, target interface{}) error {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	v.SetDefault("ui.color_enabled", true)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
		// Config file not found, create template
		if err := createTemplateConfig(configDir); err != nil {
			return err
		}
	}

	return v.Unmarshal(target)
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8710"
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "sqlite"
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = filepath.Join(DefaultConfigDir(), "mission-control.db")
	}
	if cfg.Flights.APIKey == "" {
		cfg.Flights.APIKey = "nero-update-key"
	}
	if cfg.Flights.PollInterval == "" {
		cfg.Flights.PollInterval = "6h"
	}
	if cfg.Flights.HistoryDays == 0 {
		cfg.Flights.HistoryDays = 14
	}
	if cfg.Flights.NearMargin == 0 {
		cfg.Flights.NearMargin = 0.10
	}
	if cfg.UI.DateFormat == "" {
		cfg.UI.DateFormat = "2006-01-02"
	}
	if cfg.UI.TimeFormat == "" {
		cfg.UI.TimeFormat = "15:04"
	}
	if cfg.Notifications.Level == "" {
		cfg.Notifications.Level = "all"
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MISSION_CONTROL_FLIGHT_API_KEY"); v != "" {
		cfg.Flights.APIKey = v
	}
	if v := os.Getenv("MISSION_CONTROL_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("MISSION_CONTROL_STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("MISSION_CONTROL_FEED_URL"); v != "" {
		cfg.Flights.FeedURL = v
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Storage.Driver) {
	case "sqlite", "file", "memory":
	default:
		return fmt.Errorf("storage.driver must be sqlite, file or memory, got %q", c.Storage.Driver)
	}

	if c.Flights.HistoryDays < 1 {
		return fmt.Errorf("flights.history_days must be positive, got %d", c.Flights.HistoryDays)
	}

	if c.Flights.NearMargin < 0 || c.Flights.NearMargin > 1 {
		return fmt.Errorf("flights.near_margin must be within [0, 1], got %.2f", c.Flights.NearMargin)
	}

	switch c.Notifications.Level {
	case "all", "alerts_only", "errors_only":
	default:
		return fmt.Errorf("notifications.level must be all, alerts_only or errors_only, got %q", c.Notifications.Level)
	}

	return nil
}
