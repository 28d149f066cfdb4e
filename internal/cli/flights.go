package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"mission-control/internal/errors"
	"mission-control/internal/models"
	"mission-control/pkg/utils"
)

// addRouteCommands adds the flight route commands.
func addRouteCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Monitored flight routes",
	}

	cmd.AddCommand(newRoutesListCmd(app))
	cmd.AddCommand(newRoutesShowCmd(app))
	cmd.AddCommand(newRoutesUpdateCmd(app))
	rootCmd.AddCommand(cmd)
}

func newRoutesListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List monitored routes with current prices",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			routes := app.Routes.ListRoutes()

			if output.IsJSON() {
				return output.JSON(app.Routes.Snapshot())
			}

			table := NewTable(output, "ID", "Route", "Destination", "Price", "Lowest", "Trend", "Airline", "Checked")
			for _, r := range routes {
				table.AddRow(
					r.ID,
					fmt.Sprintf("%s → %s", r.Origin, r.Destination),
					r.DestinationName,
					output.ColoredString(output.TrendColor(r.Trend), utils.FormatUSD(r.CurrentPrice)),
					utils.FormatUSD(r.LowestPrice),
					output.FormatTrend(r.Trend),
					fmt.Sprintf("%s · %d stop(s)", r.Airline, r.Stops),
					utils.FormatTimeAgo(r.LastChecked),
				)
			}
			table.Render()
			return nil
		},
	}
}

func newRoutesShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <route-id>",
		Short: "Show one route with its price history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			route, err := app.Routes.GetRoute(args[0])
			if err != nil {
				output.Error("Route %s not found", args[0])
				return err
			}

			if output.IsJSON() {
				return output.JSON(route)
			}

			output.Bold("%s (%s → %s)", route.DestinationName, route.Origin, route.Destination)
			output.Printf("  Current: %s   Lowest: %s   Trend: %s\n",
				utils.FormatUSD(route.CurrentPrice),
				utils.FormatUSD(route.LowestPrice),
				output.FormatTrend(route.Trend))
			output.Printf("  %s · %d stop(s) · %s\n", route.Airline, route.Stops, route.Duration)
			output.Println()

			table := NewTable(output, "Date", "Price")
			for _, p := range route.PriceHistory {
				table.AddRow(p.Date, utils.FormatUSD(p.Price))
			}
			table.Render()
			output.Println()
			output.Dim("Last checked: %s", utils.FormatTimeAgo(route.LastChecked))
			return nil
		},
	}
}

func newRoutesUpdateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <route-id> <price>",
		Short: "Apply a price observation to a route",
		Example: `  missionctl routes update 1 695
  missionctl routes update 2 810 --airline United --stops 1 --duration "15h 40min"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			price, err := strconv.Atoi(args[1])
			if err != nil {
				output.Error("Price must be a whole number: %v", err)
				return errors.NewValidationError("price", args[1], "not a number")
			}

			patch := models.RoutePatch{Price: price}
			if cmd.Flags().Changed("airline") {
				v, _ := cmd.Flags().GetString("airline")
				patch.Airline = &v
			}
			if cmd.Flags().Changed("stops") {
				v, _ := cmd.Flags().GetInt("stops")
				patch.Stops = &v
			}
			if cmd.Flags().Changed("duration") {
				v, _ := cmd.Flags().GetString("duration")
				patch.Duration = &v
			}

			change, err := app.Routes.ApplyPriceUpdate(context.Background(), args[0], patch)
			if err != nil {
				output.Error("Update failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(change)
			}

			output.Success("%s: %s → %s (%s)",
				change.Destination,
				utils.FormatUSD(change.OldPrice),
				utils.FormatUSD(change.NewPrice),
				output.FormatTrend(change.Trend))
			return nil
		},
	}

	cmd.Flags().String("airline", "", "airline (unset = unchanged)")
	cmd.Flags().Int("stops", 0, "stop count (unset = unchanged)")
	cmd.Flags().String("duration", "", "duration display string (unset = unchanged)")
	return cmd
}

// addAlertCommands adds the price alert commands.
func addAlertCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Price alerts",
	}

	cmd.AddCommand(newAlertsListCmd(app))
	cmd.AddCommand(newAlertsSetCmd(app))
	cmd.AddCommand(newAlertsRemoveCmd(app))
	cmd.AddCommand(newAlertsCheckCmd(app))
	rootCmd.AddCommand(cmd)
}

func newAlertsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List alerts, armed and fired",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			alerts := app.Evaluator.Alerts()

			if output.IsJSON() {
				return output.JSON(alerts)
			}

			if len(alerts) == 0 {
				output.Dim("No alerts set")
				return nil
			}

			table := NewTable(output, "Route", "Target", "State", "Near", "Created")
			for _, a := range alerts {
				state := output.ColoredString(ColorYellow, "armed")
				if a.Triggered {
					state = output.ColoredString(ColorGreen, "fired")
				}
				near := ""
				if route, err := app.Routes.GetRoute(a.RouteID); err == nil && a.Armed() {
					if app.Evaluator.NearThreshold(route, a) {
						near = output.ColoredString(ColorYellow, "close")
					}
				}
				table.AddRow(
					a.RouteID,
					utils.FormatUSD(a.TargetPrice),
					state,
					near,
					utils.FormatTimeAgo(a.CreatedAt),
				)
			}
			table.Render()
			return nil
		},
	}
}

func newAlertsSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "set <route-id> <target-price>",
		Short:   "Arm a target price for a route",
		Example: `  missionctl alerts set 1 700`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			target, err := strconv.Atoi(args[1])
			if err != nil {
				output.Error("Target must be a whole number: %v", err)
				return errors.NewValidationError("target", args[1], "not a number")
			}

			route, err := app.Routes.GetRoute(args[0])
			if err != nil {
				output.Error("Route %s not found", args[0])
				return err
			}

			alert := app.Evaluator.SetAlert(context.Background(), args[0], target)
			if alert == nil {
				output.Warning("Ignored: target price must be positive")
				return nil
			}

			if output.IsJSON() {
				return output.JSON(alert)
			}

			output.Success("Alert armed: %s below %s (now %s)",
				route.DestinationName,
				utils.FormatUSD(target),
				utils.FormatUSD(route.CurrentPrice))
			return nil
		},
	}
}

func newAlertsRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <route-id>",
		Short: "Remove all alerts for a route",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Evaluator.RemoveAlert(context.Background(), args[0]); err != nil {
				output.Error("Nothing to remove for route %s", args[0])
				return err
			}
			output.Success("Alerts removed for route %s", args[0])
			return nil
		},
	}
}

func newAlertsCheckCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Evaluate alerts against current prices",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			fired := app.Evaluator.Evaluate(context.Background(), app.Routes.ListRoutes())

			if output.IsJSON() {
				if fired == nil {
					fired = []models.PriceAlert{}
				}
				return output.JSON(fired)
			}

			if len(fired) == 0 {
				output.Dim("No new alerts")
				return nil
			}

			for _, a := range fired {
				route, err := app.Routes.GetRoute(a.RouteID)
				if err != nil {
					continue
				}
				output.Success("🔔 %s is at %s, at or below your target %s",
					route.DestinationName,
					utils.FormatUSD(route.CurrentPrice),
					utils.FormatUSD(a.TargetPrice))
			}
			return nil
		},
	}
}
