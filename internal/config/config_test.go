package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_CreatesTemplateAndAppliesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Addr != ":8710" {
		t.Errorf("Addr = %s, want :8710", cfg.Server.Addr)
	}
	if cfg.Storage.Driver != "sqlite" {
		t.Errorf("Driver = %s, want sqlite", cfg.Storage.Driver)
	}
	if cfg.Flights.APIKey != "nero-update-key" {
		t.Errorf("APIKey = %s", cfg.Flights.APIKey)
	}
	if cfg.Flights.HistoryDays != 14 || cfg.Flights.NearMargin != 0.10 {
		t.Errorf("flights defaults = %d/%v", cfg.Flights.HistoryDays, cfg.Flights.NearMargin)
	}
	if !cfg.UI.ColorEnabled {
		t.Errorf("ColorEnabled = false on first run, want true")
	}

	if _, err := os.Stat(filepath.Join(dir, "config.toml")); err != nil {
		t.Errorf("template config not written: %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MISSION_CONTROL_FLIGHT_API_KEY", "secret-key")
	t.Setenv("MISSION_CONTROL_ADDR", ":9000")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Flights.APIKey != "secret-key" {
		t.Errorf("APIKey = %s, want env override", cfg.Flights.APIKey)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("Addr = %s, want :9000", cfg.Server.Addr)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)
		return cfg
	}

	if err := base().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}

	cfg := base()
	cfg.Storage.Driver = "redis"
	if err := cfg.Validate(); err == nil {
		t.Errorf("unknown driver accepted")
	}

	cfg = base()
	cfg.Flights.HistoryDays = 0
	if err := cfg.Validate(); err == nil {
		t.Errorf("zero history days accepted")
	}

	cfg = base()
	cfg.Flights.NearMargin = 1.5
	if err := cfg.Validate(); err == nil {
		t.Errorf("out-of-range near margin accepted")
	}

	cfg = base()
	cfg.Notifications.Level = "loud"
	if err := cfg.Validate(); err == nil {
		t.Errorf("unknown notification level accepted")
	}
}
