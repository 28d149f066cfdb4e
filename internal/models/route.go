// Package models defines the core data types shared across widgets.
package models

import "time"

// Trend classifies a price movement relative to the previous price.
type Trend string

const (
	// TrendUp means the latest update raised the price.
	TrendUp Trend = "up"
	// TrendDown means the latest update lowered the price.
	TrendDown Trend = "down"
	// TrendStable means the latest update left the price unchanged.
	TrendStable Trend = "stable"
)

// HistoryDateFormat is the date layout used for price history entries.
const HistoryDateFormat = "2006-01-02"

// PricePoint is a single (date, price) entry in a route's history.
// At most one entry exists per date.
type PricePoint struct {
	Date  string `json:"date"`
	Price int    `json:"price"`
}

// Route is one monitored origin/destination flight pairing.
type Route struct {
	ID              string       `json:"id"`
	Origin          string       `json:"origin"`
	Destination     string       `json:"destination"`
	DestinationName string       `json:"destinationName"`
	CurrentPrice    int          `json:"currentPrice"`
	LowestPrice     int          `json:"lowestPrice"`
	Airline         string       `json:"airline"`
	Stops           int          `json:"stops"`
	Duration        string       `json:"duration"`
	PriceHistory    []PricePoint `json:"priceHistory"`
	LastChecked     time.Time    `json:"lastChecked"`
	Trend           Trend        `json:"trend"`
}

// Clone returns a deep copy of the route.
func (r *Route) Clone() Route {
	out := *r
	out.PriceHistory = make([]PricePoint, len(r.PriceHistory))
	copy(out.PriceHistory, r.PriceHistory)
	return out
}

// RoutePatch is a partial price update. Price is required; nil pointer
// fields mean "leave the current value untouched".
type RoutePatch struct {
	Price    int     `json:"price"`
	Airline  *string `json:"airline,omitempty"`
	Stops    *int    `json:"stops,omitempty"`
	Duration *string `json:"duration,omitempty"`
}

// PriceChange reports the outcome of a price update for the caller.
type PriceChange struct {
	RouteID     string `json:"id"`
	Destination string `json:"destination"`
	OldPrice    int    `json:"oldPrice"`
	NewPrice    int    `json:"newPrice"`
	Trend       Trend  `json:"trend"`
}

// FlightData is the persisted flight monitor aggregate.
type FlightData struct {
	Routes      []Route   `json:"routes"`
	LastUpdated time.Time `json:"lastUpdated"`
}
