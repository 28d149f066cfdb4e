package cli

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"mission-control/internal/api"
	"mission-control/internal/flights"
	"mission-control/internal/models"
	"mission-control/internal/stream"
)

// addServeCommand adds the HTTP server command.
func addServeCommand(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard HTTP API",
		Long: `Start the HTTP API that backs the dashboard widgets.

Endpoints:
  GET   /api/health      storage status
  GET   /api/flights     routes and last-updated timestamp
  POST  /api/flights     price update (bearer auth)
  GET   /api/alerts      alerts with near-threshold hints
  POST  /api/alerts      arm a target price
  GET   /api/projects    project tracker
  GET   /api/events      live price changes (server-sent events)`,
		Example: `  missionctl serve
  missionctl serve --addr :9000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			if addr == "" {
				addr = app.Config.Server.Addr
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			// Live event stream for connected dashboards.
			hub := stream.NewHub()
			hub.Start(ctx)
			defer hub.Stop()
			app.Routes.Subscribe(func(change models.PriceChange) {
				hub.Publish(change)
			})

			controller := api.New(app.Config, app.Logger, app.Routes, app.Evaluator, app.Projects, app.Captures, app.Adapter, hub)

			// Optional external feed poller.
			if app.Config.Flights.FeedURL != "" {
				interval, err := time.ParseDuration(app.Config.Flights.PollInterval)
				if err != nil {
					app.Logger.Warn().Err(err).Msg("Bad poll interval, defaulting to 6h")
					interval = 6 * time.Hour
				}
				poller := flights.NewPoller(app.Config.Flights.FeedURL, interval, app.Routes, app.Logger)
				go poller.Run(ctx)
			}

			errCh := make(chan error, 1)
			go func() {
				errCh <- controller.Start(addr)
			}()

			select {
			case err := <-errCh:
				if err != nil && err != http.ErrServerClosed {
					return err
				}
				return nil
			case <-ctx.Done():
				app.Logger.Info().Msg("Shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return controller.Echo.Shutdown(shutdownCtx)
			}
		},
	}

	cmd.Flags().String("addr", "", "listen address (default from config)")
	rootCmd.AddCommand(cmd)
}
