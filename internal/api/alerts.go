package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"mission-control/internal/models"
)

// initAlertRoutes registers the price alert endpoints.
func (c *Controller) initAlertRoutes(g *echo.Group) {
	alerts := g.Group("/alerts")
	alerts.GET("", c.ListAlerts)
	alerts.POST("", c.SetAlert)
	alerts.DELETE("/:routeId", c.RemoveAlert)
}

// alertView decorates an alert with the near-threshold UI hint.
type alertView struct {
	models.PriceAlert
	NearThreshold bool `json:"nearThreshold"`
}

// ListAlerts returns all alerts, armed and fired, with near hints.
func (c *Controller) ListAlerts(ctx echo.Context) error {
	routes := c.Routes.ListRoutes()
	byID := make(map[string]models.Route, len(routes))
	for _, r := range routes {
		byID[r.ID] = r
	}

	alerts := c.Evaluator.Alerts()
	views := make([]alertView, 0, len(alerts))
	for _, a := range alerts {
		view := alertView{PriceAlert: a}
		if route, ok := byID[a.RouteID]; ok && a.Armed() {
			view.NearThreshold = c.Evaluator.NearThreshold(route, a)
		}
		views = append(views, view)
	}

	return ctx.JSON(http.StatusOK, map[string]interface{}{
		"alerts": views,
		"count":  len(views),
	})
}

type setAlertRequest struct {
	RouteID     string `json:"routeId"`
	TargetPrice int    `json:"targetPrice"`
}

// SetAlert arms a new target price for a route. A non-positive target is
// accepted and ignored, matching the widget's silent no-op behavior.
func (c *Controller) SetAlert(ctx echo.Context) error {
	var req setAlertRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	if _, err := c.Routes.GetRoute(req.RouteID); err != nil {
		return c.handleError(ctx, err)
	}

	alert := c.Evaluator.SetAlert(ctx.Request().Context(), req.RouteID, req.TargetPrice)
	if alert == nil {
		return ctx.JSON(http.StatusOK, map[string]interface{}{"success": false})
	}

	return ctx.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"alert":   alert,
	})
}

// RemoveAlert deletes all alerts for a route.
func (c *Controller) RemoveAlert(ctx echo.Context) error {
	routeID := trimmedParam(ctx, "routeId")
	if err := c.Evaluator.RemoveAlert(ctx.Request().Context(), routeID); err != nil {
		return c.handleError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, map[string]interface{}{"success": true})
}
