package flights

import (
	"time"

	"mission-control/internal/models"
)

// seedRoutes returns the fixed initial route list. Routes are created once
// at startup and never deleted; price updates are the only mutation.
func seedRoutes(now time.Time) []models.Route {
	return []models.Route{
		{
			ID:              "1",
			Origin:          "ORD",
			Destination:     "KOA",
			DestinationName: "Kona",
			CurrentPrice:    718,
			LowestPrice:     698,
			Airline:         "Delta",
			Stops:           1,
			Duration:        "16h 13min",
			PriceHistory: []models.PricePoint{
				{Date: "2026-02-15", Price: 755},
				{Date: "2026-02-16", Price: 742},
				{Date: "2026-02-17", Price: 738},
				{Date: "2026-02-18", Price: 725},
				{Date: "2026-02-19", Price: 718},
				{Date: "2026-02-20", Price: 718},
				{Date: "2026-02-21", Price: 718},
				{Date: "2026-02-22", Price: 718},
			},
			LastChecked: now,
			Trend:       models.TrendStable,
		},
		{
			ID:              "2",
			Origin:          "ORD",
			Destination:     "ITO",
			DestinationName: "Hilo",
			CurrentPrice:    825,
			LowestPrice:     799,
			Airline:         "Southwest",
			Stops:           2,
			Duration:        "16h 55min",
			PriceHistory: []models.PricePoint{
				{Date: "2026-02-15", Price: 899},
				{Date: "2026-02-16", Price: 885},
				{Date: "2026-02-17", Price: 865},
				{Date: "2026-02-18", Price: 855},
				{Date: "2026-02-19", Price: 835},
				{Date: "2026-02-20", Price: 835},
				{Date: "2026-02-21", Price: 825},
				{Date: "2026-02-22", Price: 825},
			},
			LastChecked: now,
			Trend:       models.TrendDown,
		},
	}
}
