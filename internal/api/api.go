// Package api exposes the dashboard widgets over HTTP.
package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"mission-control/internal/capture"
	"mission-control/internal/config"
	"mission-control/internal/errors"
	"mission-control/internal/flights"
	"mission-control/internal/projects"
	"mission-control/internal/store"
	"mission-control/internal/stream"
)

// Controller wires the widget stores into echo handlers.
type Controller struct {
	Echo      *echo.Echo
	Routes    *flights.Store
	Evaluator *flights.Evaluator
	Projects  *projects.Store
	Captures  *capture.Store
	Adapter   store.Adapter
	Hub       *stream.Hub

	apiKey string
	logger zerolog.Logger
}

// New builds the controller and registers all routes. hub may be nil to
// disable the live event stream.
func New(cfg *config.Config, logger zerolog.Logger, routeStore *flights.Store, evaluator *flights.Evaluator, projectStore *projects.Store, captureStore *capture.Store, adapter store.Adapter, hub *stream.Hub) *Controller {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	c := &Controller{
		Echo:      e,
		Routes:    routeStore,
		Evaluator: evaluator,
		Projects:  projectStore,
		Captures:  captureStore,
		Adapter:   adapter,
		Hub:       hub,
		apiKey:    cfg.Flights.APIKey,
		logger:    logger.With().Str("component", "api").Logger(),
	}

	api := e.Group("/api")
	api.GET("/health", c.GetHealth)

	c.initFlightRoutes(api)
	c.initAlertRoutes(api)
	c.initProjectRoutes(api)
	c.initEventRoutes(api)

	return c
}

// Start runs the HTTP server until it fails or is shut down.
func (c *Controller) Start(addr string) error {
	c.logger.Info().Str("addr", addr).Msg("HTTP API listening")
	return c.Echo.Start(addr)
}

// bearerAuth rejects requests whose Authorization header does not carry
// the configured credential. Runs before any body parsing or mutation.
func (c *Controller) bearerAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		header := ctx.Request().Header.Get(echo.HeaderAuthorization)
		if header != "Bearer "+c.apiKey {
			return ctx.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		}
		return next(ctx)
	}
}

// handleError maps domain errors onto HTTP status codes.
func (c *Controller) handleError(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, errors.ErrRouteNotFound):
		return ctx.JSON(http.StatusNotFound, map[string]string{"error": "Route not found"})
	case errors.Is(err, errors.ErrAlertNotFound):
		return ctx.JSON(http.StatusNotFound, map[string]string{"error": "Alert not found"})
	case errors.Is(err, errors.ErrProjectNotFound):
		return ctx.JSON(http.StatusNotFound, map[string]string{"error": "Project not found"})
	case errors.Is(err, errors.ErrInvalidInput):
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	case errors.Is(err, errors.ErrUnauthorized):
		return ctx.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	default:
		c.logger.Error().Err(err).Str("path", ctx.Path()).Msg("Request failed")
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal error"})
	}
}

// trimmedParam returns a path parameter without surrounding whitespace.
func trimmedParam(ctx echo.Context, name string) string {
	return strings.TrimSpace(ctx.Param(name))
}
