// Package stream fans out price change events to live dashboard clients.
package stream

import (
	"context"
	"sync"
	"time"

	"mission-control/internal/models"
)

// HubConfig holds configuration for the event hub.
type HubConfig struct {
	// BufferSize is the size of the internal event channel buffer.
	BufferSize int
	// SubscriberBufferSize is the size of each subscriber's channel buffer.
	SubscriberBufferSize int
}

// DefaultHubConfig returns the default hub configuration.
func DefaultHubConfig() HubConfig {
	return HubConfig{
		BufferSize:           256,
		SubscriberBufferSize: 16,
	}
}

// Hub distributes price changes to multiple consumers. Events from a
// single source fan out to every subscriber over channels; slow
// consumers lose events rather than blocking the rest.
type Hub struct {
	config      HubConfig
	mu          sync.RWMutex
	subscribers map[string]*Subscriber
	eventChan   chan models.PriceChange
	done        chan struct{}
	started     bool

	metricsMu      sync.RWMutex
	eventsReceived uint64
	eventsSent     uint64
	eventsDropped  uint64
}

// Subscriber is one connected event consumer.
type Subscriber struct {
	ID           string
	Channel      chan models.PriceChange
	DroppedCount int
	CreatedAt    time.Time
}

// NewHub creates an event hub with default configuration.
func NewHub() *Hub {
	return NewHubWithConfig(DefaultHubConfig())
}

// NewHubWithConfig creates an event hub with custom configuration.
func NewHubWithConfig(config HubConfig) *Hub {
	return &Hub{
		config:      config,
		subscribers: make(map[string]*Subscriber),
		eventChan:   make(chan models.PriceChange, config.BufferSize),
		done:        make(chan struct{}),
	}
}

// Start begins the distribution loop.
func (h *Hub) Start(ctx context.Context) {
	h.mu.Lock()
	if h.started {
		h.mu.Unlock()
		return
	}
	h.started = true
	h.mu.Unlock()

	go h.broadcastLoop(ctx)
}

func (h *Hub) broadcastLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-h.done:
			return
		case change := <-h.eventChan:
			h.metricsMu.Lock()
			h.eventsReceived++
			h.metricsMu.Unlock()

			h.broadcast(change)
		}
	}
}

// Stop stops the hub and closes all subscriber channels.
func (h *Hub) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.started {
		return
	}

	close(h.done)
	h.started = false

	for id, sub := range h.subscribers {
		close(sub.Channel)
		delete(h.subscribers, id)
	}
}

// Subscribe registers a consumer and returns its event channel.
// The id must be unique per consumer; an existing subscriber with the
// same id is replaced.
func (h *Hub) Subscribe(id string) <-chan models.PriceChange {
	ch := make(chan models.PriceChange, h.config.SubscriberBufferSize)
	sub := &Subscriber{
		ID:        id,
		Channel:   ch,
		CreatedAt: time.Now(),
	}

	h.mu.Lock()
	if old, ok := h.subscribers[id]; ok {
		close(old.Channel)
	}
	h.subscribers[id] = sub
	h.mu.Unlock()

	return ch
}

// Unsubscribe removes a consumer and closes its channel.
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if sub, ok := h.subscribers[id]; ok {
		close(sub.Channel)
		delete(h.subscribers, id)
	}
}

// Publish sends a price change to the hub for distribution.
// Non-blocking: if the internal buffer is full, the event is dropped.
func (h *Hub) Publish(change models.PriceChange) {
	select {
	case h.eventChan <- change:
	default:
		h.metricsMu.Lock()
		h.eventsDropped++
		h.metricsMu.Unlock()
	}
}

// broadcast sends an event to every subscriber. Non-blocking sends keep
// slow consumers from stalling the loop. The sends happen under the read
// lock: Unsubscribe and Stop close channels under the write lock, so a
// channel can never be closed mid-send.
func (h *Hub) broadcast(change models.PriceChange) {
	var sent, dropped uint64

	h.mu.RLock()
	for _, sub := range h.subscribers {
		select {
		case sub.Channel <- change:
			sent++
		default:
			sub.DroppedCount++
			dropped++
		}
	}
	h.mu.RUnlock()

	h.metricsMu.Lock()
	h.eventsSent += sent
	h.eventsDropped += dropped
	h.metricsMu.Unlock()
}

// SubscriberCount returns the number of connected consumers.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// IsStarted reports whether the distribution loop is running.
func (h *Hub) IsStarted() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.started
}

// HubMetrics contains hub counters.
type HubMetrics struct {
	EventsReceived uint64
	EventsSent     uint64
	EventsDropped  uint64
	Subscribers    int
}

// Metrics returns a snapshot of the hub counters.
func (h *Hub) Metrics() HubMetrics {
	h.metricsMu.RLock()
	m := HubMetrics{
		EventsReceived: h.eventsReceived,
		EventsSent:     h.eventsSent,
		EventsDropped:  h.eventsDropped,
	}
	h.metricsMu.RUnlock()

	m.Subscribers = h.SubscriberCount()
	return m
}
