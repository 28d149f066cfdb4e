package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// GetHealth reports storage connectivity.
func (c *Controller) GetHealth(ctx echo.Context) error {
	if err := c.Adapter.Ping(ctx.Request().Context()); err != nil {
		return ctx.JSON(http.StatusOK, map[string]string{
			"status":  "error",
			"message": "Storage unreachable: " + err.Error(),
		})
	}

	return ctx.JSON(http.StatusOK, map[string]string{
		"status":  "connected",
		"message": "Storage connected",
	})
}
