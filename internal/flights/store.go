// Package flights implements the flight price monitor: the route store,
// the price-alert evaluator and the external feed poller.
package flights

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"mission-control/internal/errors"
	"mission-control/internal/logging"
	"mission-control/internal/models"
	"mission-control/internal/store"
)

// DefaultHistoryCap is the maximum number of price history entries kept
// per route. Oldest entries are dropped first, by position.
const DefaultHistoryCap = 14

// ChangeListener receives a notification after every applied price update.
type ChangeListener func(models.PriceChange)

// StoreOption customizes a Store.
type StoreOption func(*Store)

// WithHistoryCap overrides the price history cap.
func WithHistoryCap(n int) StoreOption {
	return func(s *Store) {
		if n > 0 {
			s.historyCap = n
		}
	}
}

// WithClock overrides the store's time source.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// Store holds the authoritative set of monitored routes and applies
// incoming price observations. Writes are serialized; persistence is
// best-effort and never fails the caller.
type Store struct {
	mu          sync.RWMutex
	routes      []models.Route
	index       map[string]int
	lastUpdated time.Time

	adapter    store.Adapter
	logger     zerolog.Logger
	historyCap int
	now        func() time.Time

	listenerMu sync.RWMutex
	listeners  []ChangeListener
}

// NewStore builds a route store backed by adapter. Previously persisted
// state is loaded when present; otherwise the fixed seed list is used.
func NewStore(ctx context.Context, adapter store.Adapter, logger zerolog.Logger, opts ...StoreOption) *Store {
	s := &Store{
		adapter:    adapter,
		logger:     logging.WithWidget(logger, "flights"),
		historyCap: DefaultHistoryCap,
		index:      make(map[string]int),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.load(ctx)
	return s
}

// load reads the persisted aggregate, falling back to seed data on any
// miss or decode failure.
func (s *Store) load(ctx context.Context) {
	var data models.FlightData

	blob, err := s.adapter.Get(ctx, store.KeyFlightData)
	switch {
	case err == nil:
		if jsonErr := json.Unmarshal(blob, &data); jsonErr != nil {
			s.logger.Warn().Err(jsonErr).Msg("Corrupt flight data, reseeding")
			data = models.FlightData{}
		}
	case errors.Is(err, errors.ErrDataNotFound):
		// First run.
	default:
		s.logger.Warn().Err(err).Msg("Storage unreachable, starting from seed data")
	}

	if len(data.Routes) == 0 {
		now := s.now()
		data = models.FlightData{Routes: seedRoutes(now), LastUpdated: now}
	}

	s.routes = data.Routes
	s.lastUpdated = data.LastUpdated
	for i := range s.routes {
		s.index[s.routes[i].ID] = i
	}
}

// Subscribe registers a listener invoked after every successful price
// update. Listeners run on the updating goroutine, outside the store lock.
func (s *Store) Subscribe(fn ChangeListener) {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// ApplyPriceUpdate applies one price observation to a route.
//
// The update is a single logical mutation: current price, optional
// airline/stops/duration, lastChecked, lowest-price floor, trend, and a
// same-date history upsert capped by position. Absent optional fields are
// left untouched.
func (s *Store) ApplyPriceUpdate(ctx context.Context, routeID string, patch models.RoutePatch) (*models.PriceChange, error) {
	if patch.Price <= 0 {
		return nil, errors.NewValidationError("price", patch.Price, "must be a positive integer")
	}

	s.mu.Lock()
	i, ok := s.index[routeID]
	if !ok {
		s.mu.Unlock()
		return nil, errors.Wrapf(errors.ErrRouteNotFound, "route %s", routeID)
	}

	route := &s.routes[i]
	now := s.now()
	oldPrice := route.CurrentPrice

	route.CurrentPrice = patch.Price
	if patch.Airline != nil {
		route.Airline = *patch.Airline
	}
	if patch.Stops != nil {
		route.Stops = *patch.Stops
	}
	if patch.Duration != nil {
		route.Duration = *patch.Duration
	}
	route.LastChecked = now

	if patch.Price < route.LowestPrice {
		route.LowestPrice = patch.Price
	}

	switch {
	case patch.Price < oldPrice:
		route.Trend = models.TrendDown
	case patch.Price > oldPrice:
		route.Trend = models.TrendUp
	default:
		route.Trend = models.TrendStable
	}

	upsertHistory(route, now.Format(models.HistoryDateFormat), patch.Price, s.historyCap)

	s.lastUpdated = now

	change := models.PriceChange{
		RouteID:     route.ID,
		Destination: route.DestinationName,
		OldPrice:    oldPrice,
		NewPrice:    patch.Price,
		Trend:       route.Trend,
	}
	snapshot := models.FlightData{Routes: s.cloneRoutesLocked(), LastUpdated: s.lastUpdated}
	s.mu.Unlock()

	logging.LogPriceUpdate(s.logger, change.RouteID, change.OldPrice, change.NewPrice, string(change.Trend))
	s.persist(ctx, snapshot)
	s.notify(change)

	return &change, nil
}

// upsertHistory records today's price: an existing entry for the date is
// overwritten in place, otherwise the point is appended and the history
// truncated to the most recent cap entries by position.
func upsertHistory(route *models.Route, date string, price, limit int) {
	for i := range route.PriceHistory {
		if route.PriceHistory[i].Date == date {
			route.PriceHistory[i].Price = price
			return
		}
	}
	route.PriceHistory = append(route.PriceHistory, models.PricePoint{Date: date, Price: price})
	if len(route.PriceHistory) > limit {
		route.PriceHistory = route.PriceHistory[len(route.PriceHistory)-limit:]
	}
}

// GetRoute returns a copy of the route with the given id.
func (s *Store) GetRoute(routeID string) (models.Route, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[routeID]
	if !ok {
		return models.Route{}, errors.Wrapf(errors.ErrRouteNotFound, "route %s", routeID)
	}
	return s.routes[i].Clone(), nil
}

// ListRoutes returns all routes in seed/insertion order.
func (s *Store) ListRoutes() []models.Route {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cloneRoutesLocked()
}

// LastUpdated returns the timestamp of the most recent applied update.
func (s *Store) LastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdated
}

// Snapshot returns the full aggregate for the read endpoint.
func (s *Store) Snapshot() models.FlightData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.FlightData{Routes: s.cloneRoutesLocked(), LastUpdated: s.lastUpdated}
}

func (s *Store) cloneRoutesLocked() []models.Route {
	out := make([]models.Route, len(s.routes))
	for i := range s.routes {
		out[i] = s.routes[i].Clone()
	}
	return out
}

// persist writes the whole aggregate back. Failures are logged, never
// returned: the in-memory snapshot stays authoritative.
func (s *Store) persist(ctx context.Context, data models.FlightData) {
	blob, err := json.Marshal(data)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode flight data")
		return
	}
	if err := s.adapter.Set(ctx, store.KeyFlightData, blob); err != nil {
		logging.LogStorageFailure(s.logger, "set", store.KeyFlightData, err)
	}
}

func (s *Store) notify(change models.PriceChange) {
	s.listenerMu.RLock()
	listeners := make([]ChangeListener, len(s.listeners))
	copy(listeners, s.listeners)
	s.listenerMu.RUnlock()

	for _, fn := range listeners {
		fn(change)
	}
}
