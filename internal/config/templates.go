package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Mission Control Configuration

[server]
# HTTP listen address for the dashboard API
addr = ":8710"

[storage]
# Persistence adapter: "sqlite" or "file"
driver = "sqlite"
# Database file (sqlite) or data directory (file)
# path = "~/.config/mission-control/mission-control.db"

[flights]
# Bearer credential required on the price-update endpoint.
# Override with MISSION_CONTROL_FLIGHT_API_KEY.
api_key = "nero-update-key"
# External price feed to poll; empty disables polling
feed_url = ""
# Feed poll interval
poll_interval = "6h"
# Price history cap per route
history_days = 14
# "Getting close" alert hint margin
near_margin = 0.10

[ui]
# Enable colored output
color_enabled = true
# Date format
date_format = "2006-01-02"
# Time format
time_format = "15:04"

[notifications]
# Enable notifications
enabled = false
# Notification level: all, alerts_only, errors_only
level = "all"

[notifications.webhook]
enabled = false
url = ""
`

// createTemplateConfig writes the default config.toml into configDir.
func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return nil
}
