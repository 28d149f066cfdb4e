package notify

import (
	"context"
	"fmt"
	"os"

	"mission-control/internal/models"
	"mission-control/pkg/utils"
)

// TerminalChannel prints notifications to stderr.
type TerminalChannel struct{}

// NewTerminalChannel creates a terminal notification channel.
func NewTerminalChannel() *TerminalChannel {
	return &TerminalChannel{}
}

// Name returns the channel name.
func (c *TerminalChannel) Name() string {
	return "terminal"
}

// IsEnabled always returns true for the terminal channel.
func (c *TerminalChannel) IsEnabled() bool {
	return true
}

// Send prints the notification.
func (c *TerminalChannel) Send(_ context.Context, n Notification) error {
	icon := "•"
	switch n.Type {
	case TypeAlert:
		icon = "🔔"
	case TypeError:
		icon = "✗"
	}
	_, err := fmt.Fprintf(os.Stderr, "%s %s — %s\n", icon, n.Title, n.Message)
	return err
}

// formatAlertMessage renders the fired-alert line shared by channels.
func formatAlertMessage(alert *models.PriceAlert, route models.Route) string {
	return fmt.Sprintf("%s → %s now %s, at or below your target %s",
		route.Origin,
		route.Destination,
		utils.FormatUSD(route.CurrentPrice),
		utils.FormatUSD(alert.TargetPrice),
	)
}
