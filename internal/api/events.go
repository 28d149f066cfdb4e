package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// initEventRoutes registers the live event stream endpoint. Skipped when
// no hub is wired, e.g. in one-shot CLI invocations.
func (c *Controller) initEventRoutes(g *echo.Group) {
	if c.Hub == nil {
		return
	}
	g.GET("/events", c.StreamEvents)
}

// StreamEvents pushes price changes to the client as server-sent events.
// The connection stays open until the client disconnects or the server
// shuts down.
func (c *Controller) StreamEvents(ctx echo.Context) error {
	w := ctx.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	id := fmt.Sprintf("sse-%d", time.Now().UnixNano())
	events := c.Hub.Subscribe(id)
	defer c.Hub.Unsubscribe(id)

	c.logger.Debug().Str("subscriber", id).Msg("Event stream opened")

	for {
		select {
		case <-ctx.Request().Context().Done():
			return nil
		case change, ok := <-events:
			if !ok {
				return nil
			}
			blob, err := json.Marshal(change)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: price\ndata: %s\n\n", blob)
			w.Flush()
		}
	}
}
