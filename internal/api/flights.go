package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"mission-control/internal/models"
)

// initFlightRoutes registers the flight monitor endpoints.
func (c *Controller) initFlightRoutes(g *echo.Group) {
	g.GET("/flights", c.GetFlights)

	// The price checker authenticates with the configured bearer key.
	protected := g.Group("/flights", c.bearerAuth)
	protected.POST("", c.UpdateFlightPrice)
}

// GetFlights returns the full route collection and last-updated timestamp.
func (c *Controller) GetFlights(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, c.Routes.Snapshot())
}

// priceUpdateRequest is the inbound feed update body.
type priceUpdateRequest struct {
	RouteID  string  `json:"routeId"`
	Price    int     `json:"price"`
	Airline  *string `json:"airline,omitempty"`
	Stops    *int    `json:"stops,omitempty"`
	Duration *string `json:"duration,omitempty"`
}

// UpdateFlightPrice applies one price observation to a route and reports
// the before/after price and resulting trend.
func (c *Controller) UpdateFlightPrice(ctx echo.Context) error {
	var req priceUpdateRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	change, err := c.Routes.ApplyPriceUpdate(ctx.Request().Context(), req.RouteID, models.RoutePatch{
		Price:    req.Price,
		Airline:  req.Airline,
		Stops:    req.Stops,
		Duration: req.Duration,
	})
	if err != nil {
		return c.handleError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"route":   change,
	})
}
