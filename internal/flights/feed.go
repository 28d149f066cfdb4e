package flights

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"mission-control/internal/errors"
	"mission-control/internal/logging"
	"mission-control/internal/models"
)

// FeedUpdate is one price observation from the external checker.
type FeedUpdate struct {
	RouteID  string  `json:"routeId"`
	Price    int     `json:"price"`
	Airline  *string `json:"airline,omitempty"`
	Stops    *int    `json:"stops,omitempty"`
	Duration *string `json:"duration,omitempty"`
}

// Patch converts the update to a route patch.
func (u FeedUpdate) Patch() models.RoutePatch {
	return models.RoutePatch{
		Price:    u.Price,
		Airline:  u.Airline,
		Stops:    u.Stops,
		Duration: u.Duration,
	}
}

// Poller periodically fetches the external price feed and applies the
// observations to the route store. Each poll is a single request with no
// retry or backoff; on failure the last known snapshot stands.
type Poller struct {
	url      string
	interval time.Duration
	client   *http.Client
	store    *Store
	logger   zerolog.Logger
}

// NewPoller builds a feed poller. url may be empty, in which case Run
// returns immediately.
func NewPoller(url string, interval time.Duration, st *Store, logger zerolog.Logger) *Poller {
	return &Poller{
		url:      url,
		interval: interval,
		client:   &http.Client{Timeout: 30 * time.Second},
		store:    st,
		logger:   logging.WithWidget(logger, "feed"),
	}
}

// Run polls until ctx is cancelled. One poll happens immediately.
func (p *Poller) Run(ctx context.Context) {
	if p.url == "" {
		return
	}

	p.poll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

// poll fetches the feed once and applies whatever it got. A failed fetch
// or a bad row never aborts the rest of the batch.
func (p *Poller) poll(ctx context.Context) {
	updates, err := p.fetch(ctx)
	if err != nil {
		p.logger.Warn().Err(err).Msg("Feed fetch failed, keeping last snapshot")
		return
	}

	applied := 0
	for _, u := range updates {
		if _, err := p.store.ApplyPriceUpdate(ctx, u.RouteID, u.Patch()); err != nil {
			p.logger.Warn().
				Err(err).
				Str("route_id", u.RouteID).
				Msg("Skipping feed update")
			continue
		}
		applied++
	}

	p.logger.Info().
		Int("received", len(updates)).
		Int("applied", applied).
		Msg("Feed poll complete")
}

func (p *Poller) fetch(ctx context.Context) ([]FeedUpdate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, errors.NewFeedError(p.url, "building request", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, errors.NewFeedError(p.url, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewFeedError(p.url, fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	var updates []FeedUpdate
	if err := json.NewDecoder(resp.Body).Decode(&updates); err != nil {
		return nil, errors.NewFeedError(p.url, "decoding response", err)
	}
	return updates, nil
}
