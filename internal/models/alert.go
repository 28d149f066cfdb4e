package models

import "time"

// PriceAlert is a user-defined price watch on a route.
// An alert starts armed (Triggered=false) and fires at most once.
type PriceAlert struct {
	ID          string     `json:"id"`
	RouteID     string     `json:"routeId"`
	TargetPrice int        `json:"targetPrice"`
	Triggered   bool       `json:"triggered"`
	CreatedAt   time.Time  `json:"createdAt"`
	TriggeredAt *time.Time `json:"triggeredAt,omitempty"`
}

// Armed reports whether the alert is still waiting for its condition.
func (a *PriceAlert) Armed() bool {
	return !a.Triggered
}
