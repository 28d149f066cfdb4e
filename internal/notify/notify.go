// Package notify provides notification fan-out for fired price alerts.
package notify

import (
	"context"
	"sync"
	"time"

	"mission-control/internal/config"
	"mission-control/internal/models"
)

// Notifier defines the interface for sending notifications.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
	SendAlert(ctx context.Context, alert *models.PriceAlert, route models.Route) error
	SendError(ctx context.Context, err error, context string) error
}

// Channel defines the interface for a notification channel.
type Channel interface {
	Name() string
	Send(ctx context.Context, n Notification) error
	IsEnabled() bool
}

// Notification represents a notification message.
type Notification struct {
	Type      Type
	Title     string
	Message   string
	Data      map[string]interface{}
	Timestamp time.Time
}

// Type represents the type of notification.
type Type string

const (
	TypeAlert Type = "alert"
	TypeError Type = "error"
	TypeInfo  Type = "info"
)

// Level represents the notification level filter.
type Level string

const (
	LevelAll        Level = "all"
	LevelAlertsOnly Level = "alerts_only"
	LevelErrorsOnly Level = "errors_only"
)

// MultiNotifier sends notifications to multiple channels.
type MultiNotifier struct {
	channels []Channel
	level    Level
	mu       sync.RWMutex
}

// NewMultiNotifier builds a notifier from the notification config.
// Disabled config yields a notifier that drops everything.
func NewMultiNotifier(cfg config.NotificationConfig) *MultiNotifier {
	m := &MultiNotifier{level: Level(cfg.Level)}
	if !cfg.Enabled {
		return m
	}

	m.AddChannel(NewTerminalChannel())
	if cfg.Webhook.Enabled && cfg.Webhook.URL != "" {
		m.AddChannel(NewWebhookChannel(cfg.Webhook.URL))
	}
	return m
}

// AddChannel registers a channel.
func (m *MultiNotifier) AddChannel(ch Channel) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.channels = append(m.channels, ch)
}

// Send fans a notification out to every enabled channel that passes the
// level filter. The first channel error is returned, after all channels
// were attempted.
func (m *MultiNotifier) Send(ctx context.Context, n Notification) error {
	if !m.shouldSend(n.Type) {
		return nil
	}

	m.mu.RLock()
	channels := make([]Channel, len(m.channels))
	copy(channels, m.channels)
	m.mu.RUnlock()

	var firstErr error
	for _, ch := range channels {
		if !ch.IsEnabled() {
			continue
		}
		if err := ch.Send(ctx, n); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (m *MultiNotifier) shouldSend(t Type) bool {
	switch m.level {
	case LevelAlertsOnly:
		return t == TypeAlert
	case LevelErrorsOnly:
		return t == TypeError
	default:
		return true
	}
}

// SendAlert sends a fired-alert notification.
func (m *MultiNotifier) SendAlert(ctx context.Context, alert *models.PriceAlert, route models.Route) error {
	return m.Send(ctx, Notification{
		Type:    TypeAlert,
		Title:   "Price alert: " + route.DestinationName,
		Message: formatAlertMessage(alert, route),
		Data: map[string]interface{}{
			"alert_id":      alert.ID,
			"route_id":      route.ID,
			"target_price":  alert.TargetPrice,
			"current_price": route.CurrentPrice,
		},
		Timestamp: time.Now(),
	})
}

// SendError sends an error notification.
func (m *MultiNotifier) SendError(ctx context.Context, err error, context string) error {
	return m.Send(ctx, Notification{
		Type:      TypeError,
		Title:     "Error: " + context,
		Message:   err.Error(),
		Timestamp: time.Now(),
	})
}
