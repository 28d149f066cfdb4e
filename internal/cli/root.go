package cli

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"mission-control/internal/capture"
	"mission-control/internal/config"
	"mission-control/internal/flights"
	"mission-control/internal/logging"
	"mission-control/internal/models"
	"mission-control/internal/notify"
	"mission-control/internal/projects"
	"mission-control/internal/store"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2026-02-22"
)

// App holds the application dependencies.
type App struct {
	Config    *config.Config
	Logger    zerolog.Logger
	Adapter   store.Adapter
	Routes    *flights.Store
	Evaluator *flights.Evaluator
	Projects  *projects.Store
	Captures  *capture.Store
	Notifier  notify.Notifier
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	colorFromConfig = cfg.UI.ColorEnabled

	ctx := context.Background()

	// Open the persistence adapter. A broken adapter degrades to an
	// in-memory one: user actions keep working against the seed data.
	adapter, err := store.Open(cfg.Storage.Driver, cfg.Storage.Path)
	if err != nil {
		logger.Warn().Err(err).Msg("Storage unavailable, using in-memory fallback")
		adapter = store.NewMemoryAdapter()
	}
	app.Adapter = adapter

	app.Notifier = notify.NewMultiNotifier(cfg.Notifications)

	app.Routes = flights.NewStore(ctx, adapter, logger,
		flights.WithHistoryCap(cfg.Flights.HistoryDays))
	app.Evaluator = flights.NewEvaluator(ctx, adapter, logger,
		flights.WithNotifier(app.Notifier),
		flights.WithNearMargin(cfg.Flights.NearMargin))
	app.Projects = projects.NewStore(ctx, adapter, logger)
	app.Captures = capture.NewStore(ctx, adapter, logger)

	// Every applied price update re-scans the alerts. The evaluator is
	// idempotent, so extra scans are harmless.
	app.Routes.Subscribe(func(_ models.PriceChange) {
		app.Evaluator.Evaluate(ctx, app.Routes.ListRoutes())
	})

	rootCmd := &cobra.Command{
		Use:   "missionctl",
		Short: "Mission Control - personal dashboard CLI",
		Long: `Mission Control is a personal dashboard with independent widgets:
a flight price monitor with alerting, a project tracker and a
quick-capture notes/task list.

Use 'missionctl serve' to expose the widgets over HTTP, or drive them
directly from the terminal with the routes, alerts, capture and
projects commands.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Handle debug flag
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/mission-control)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	addCoreCommands(rootCmd, app)
	addServeCommand(rootCmd, app)
	addRouteCommands(rootCmd, app)
	addAlertCommands(rootCmd, app)
	addCaptureCommands(rootCmd, app)
	addProjectCommands(rootCmd, app)

	return rootCmd
}

// addCoreCommands adds core utility commands.
func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("Mission Control v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			return showConfig(output, app.Config)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) error {
	output.Bold("Server")
	output.Printf("  Addr:            %s\n", cfg.Server.Addr)
	output.Println()

	output.Bold("Storage")
	output.Printf("  Driver:          %s\n", cfg.Storage.Driver)
	output.Printf("  Path:            %s\n", cfg.Storage.Path)
	output.Println()

	output.Bold("Flights")
	output.Printf("  Feed URL:        %s\n", cfg.Flights.FeedURL)
	output.Printf("  Poll Interval:   %s\n", cfg.Flights.PollInterval)
	output.Printf("  History Days:    %d\n", cfg.Flights.HistoryDays)
	output.Printf("  Near Margin:     %.0f%%\n", cfg.Flights.NearMargin*100)
	output.Println()

	output.Bold("Notifications")
	output.Printf("  Enabled:         %v\n", cfg.Notifications.Enabled)
	output.Printf("  Level:           %s\n", cfg.Notifications.Level)
	output.Printf("  Webhook:         %v\n", cfg.Notifications.Webhook.Enabled)

	return nil
}
