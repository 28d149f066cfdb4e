package flights

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"mission-control/internal/errors"
	"mission-control/internal/logging"
	"mission-control/internal/models"
	"mission-control/internal/store"
)

// DefaultNearMargin is the "getting close" hint margin ratio.
const DefaultNearMargin = 0.10

// AlertNotifier receives newly fired alerts. Satisfied by notify.Notifier.
type AlertNotifier interface {
	SendAlert(ctx context.Context, alert *models.PriceAlert, route models.Route) error
}

// EvaluatorOption customizes an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithNotifier attaches a notifier invoked for each newly fired alert.
func WithNotifier(n AlertNotifier) EvaluatorOption {
	return func(e *Evaluator) { e.notifier = n }
}

// WithNearMargin overrides the near-threshold hint margin.
func WithNearMargin(m float64) EvaluatorOption {
	return func(e *Evaluator) {
		if m >= 0 {
			e.nearMargin = m
		}
	}
}

// WithEvaluatorClock overrides the evaluator's time source.
func WithEvaluatorClock(now func() time.Time) EvaluatorOption {
	return func(e *Evaluator) { e.now = now }
}

// Evaluator maintains per-route price alerts and detects the transition
// from armed to fired exactly once per alert instance.
//
// An alert lives in one of two states: armed (Triggered=false) and fired
// (Triggered=true). Fired is terminal; setting a new target creates a new
// armed alert and drops only the previous armed one. Fired alerts stay
// until explicitly removed.
type Evaluator struct {
	mu     sync.Mutex
	alerts []models.PriceAlert

	adapter    store.Adapter
	logger     zerolog.Logger
	notifier   AlertNotifier
	nearMargin float64
	now        func() time.Time
	lastID     string
	seq        int
}

// NewEvaluator builds an alert evaluator backed by adapter, loading any
// persisted alerts.
func NewEvaluator(ctx context.Context, adapter store.Adapter, logger zerolog.Logger, opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		adapter:    adapter,
		logger:     logging.WithWidget(logger, "alerts"),
		nearMargin: DefaultNearMargin,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.load(ctx)
	return e
}

func (e *Evaluator) load(ctx context.Context) {
	blob, err := e.adapter.Get(ctx, store.KeyAlerts)
	if err != nil {
		if !errors.Is(err, errors.ErrDataNotFound) {
			e.logger.Warn().Err(err).Msg("Storage unreachable, starting with no alerts")
		}
		return
	}
	if jsonErr := json.Unmarshal(blob, &e.alerts); jsonErr != nil {
		e.logger.Warn().Err(jsonErr).Msg("Corrupt alert data, starting with no alerts")
		e.alerts = nil
	}
}

// SetAlert arms a new target price for a route. A non-positive target is
// a silent no-op. Any existing armed alert for the route is replaced;
// fired alerts for the same route are left in place.
func (e *Evaluator) SetAlert(ctx context.Context, routeID string, targetPrice int) *models.PriceAlert {
	if targetPrice <= 0 {
		return nil
	}

	e.mu.Lock()

	kept := e.alerts[:0]
	for _, a := range e.alerts {
		if a.RouteID == routeID && a.Armed() {
			continue
		}
		kept = append(kept, a)
	}
	e.alerts = kept

	alert := models.PriceAlert{
		ID:          e.nextID(),
		RouteID:     routeID,
		TargetPrice: targetPrice,
		CreatedAt:   e.now(),
	}
	e.alerts = append(e.alerts, alert)
	snapshot := e.cloneLocked()
	e.mu.Unlock()

	e.logger.Info().
		Str("route_id", routeID).
		Int("target_price", targetPrice).
		Msg("Alert armed")
	e.persist(ctx, snapshot)

	return &alert
}

// Evaluate scans all armed alerts against the given routes and fires the
// ones whose condition is met, atomically with respect to this pass.
//
// A fired alert is reported exactly once: re-evaluating unchanged state
// returns nothing. Alerts whose route is missing are skipped, never an
// error.
func (e *Evaluator) Evaluate(ctx context.Context, routes []models.Route) []models.PriceAlert {
	byID := make(map[string]models.Route, len(routes))
	for _, r := range routes {
		byID[r.ID] = r
	}

	e.mu.Lock()
	var fired []models.PriceAlert
	now := e.now()
	for i := range e.alerts {
		alert := &e.alerts[i]
		if alert.Triggered {
			continue
		}
		route, ok := byID[alert.RouteID]
		if !ok {
			continue
		}
		if route.CurrentPrice <= alert.TargetPrice {
			alert.Triggered = true
			t := now
			alert.TriggeredAt = &t
			fired = append(fired, *alert)
			logging.LogAlert(e.logger, alert.ID, alert.RouteID, alert.TargetPrice, route.CurrentPrice)
		}
	}
	var snapshot []models.PriceAlert
	if len(fired) > 0 {
		snapshot = e.cloneLocked()
	}
	e.mu.Unlock()

	if len(fired) == 0 {
		return nil
	}

	e.persist(ctx, snapshot)

	if e.notifier != nil {
		for i := range fired {
			route := byID[fired[i].RouteID]
			if err := e.notifier.SendAlert(ctx, &fired[i], route); err != nil {
				e.logger.Warn().Err(err).Str("alert_id", fired[i].ID).Msg("Alert notification failed")
			}
		}
	}

	return fired
}

// RemoveAlert deletes all alerts, armed and fired, for a route.
func (e *Evaluator) RemoveAlert(ctx context.Context, routeID string) error {
	e.mu.Lock()

	kept := e.alerts[:0]
	removed := 0
	for _, a := range e.alerts {
		if a.RouteID == routeID {
			removed++
			continue
		}
		kept = append(kept, a)
	}
	e.alerts = kept
	snapshot := e.cloneLocked()
	e.mu.Unlock()

	if removed == 0 {
		return errors.Wrapf(errors.ErrAlertNotFound, "route %s", routeID)
	}

	e.logger.Info().Str("route_id", routeID).Int("removed", removed).Msg("Alerts removed")
	e.persist(ctx, snapshot)
	return nil
}

// Alerts returns a copy of all alerts, armed and fired.
func (e *Evaluator) Alerts() []models.PriceAlert {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cloneLocked()
}

// AlertsForRoute returns all alerts for a single route.
func (e *Evaluator) AlertsForRoute(routeID string) []models.PriceAlert {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []models.PriceAlert
	for _, a := range e.alerts {
		if a.RouteID == routeID {
			out = append(out, a)
		}
	}
	return out
}

// NearThreshold reports whether the route price is within the configured
// margin above the alert target. UI hint only, never a state transition.
func (e *Evaluator) NearThreshold(route models.Route, alert models.PriceAlert) bool {
	limit := float64(alert.TargetPrice) * (1 + e.nearMargin)
	return float64(route.CurrentPrice) <= limit
}

func (e *Evaluator) cloneLocked() []models.PriceAlert {
	out := make([]models.PriceAlert, len(e.alerts))
	copy(out, e.alerts)
	return out
}

// nextID derives a unique alert id from the clock. A sequence suffix
// keeps ids unique when two alerts land on the same tick.
func (e *Evaluator) nextID() string {
	id := e.now().Format("20060102150405.000000")
	if id == e.lastID {
		e.seq++
		e.lastID = id
		return fmt.Sprintf("%s-%d", id, e.seq)
	}
	e.seq = 0
	e.lastID = id
	return id
}

func (e *Evaluator) persist(ctx context.Context, alerts []models.PriceAlert) {
	blob, err := json.Marshal(alerts)
	if err != nil {
		e.logger.Error().Err(err).Msg("Failed to encode alerts")
		return
	}
	if err := e.adapter.Set(ctx, store.KeyAlerts, blob); err != nil {
		logging.LogStorageFailure(e.logger, "set", store.KeyAlerts, err)
	}
}
