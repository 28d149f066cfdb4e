package cli

import (
	"context"

	"github.com/spf13/cobra"

	"mission-control/internal/capture"
	"mission-control/internal/models"
	"mission-control/pkg/utils"
)

// addCaptureCommands adds the quick-capture commands.
func addCaptureCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Quick-capture notes, tasks, ideas and reminders",
	}

	cmd.AddCommand(newCaptureAddCmd(app))
	cmd.AddCommand(newCaptureListCmd(app))
	cmd.AddCommand(newCaptureDoneCmd(app))
	cmd.AddCommand(newCaptureRmCmd(app))
	cmd.AddCommand(newCaptureExportCmd(app))
	rootCmd.AddCommand(cmd)
}

func newCaptureAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <content>",
		Short: "Capture a new item",
		Example: `  missionctl capture add "Ship the plugin" --type task --project Sails
  missionctl capture add "Check flight prices Tuesday" --type reminder --due 2026-02-25`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			itemType, _ := cmd.Flags().GetString("type")
			project, _ := cmd.Flags().GetString("project")
			due, _ := cmd.Flags().GetString("due")

			item, err := app.Captures.Add(context.Background(), models.CaptureType(itemType), args[0], project, due)
			if err != nil {
				output.Error("Capture failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(item)
			}
			output.Success("Captured %s %s", item.Type, item.ID)
			return nil
		},
	}

	cmd.Flags().String("type", "task", "item type: task, idea, note, reminder")
	cmd.Flags().String("project", "", "related project name")
	cmd.Flags().String("due", "", "due date (2006-01-02)")
	return cmd
}

func newCaptureListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List captured items",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			typeFilter, _ := cmd.Flags().GetString("type")
			showCompleted, _ := cmd.Flags().GetBool("all")

			items := app.Captures.List(capture.Filter{
				Type:          models.CaptureType(typeFilter),
				ShowCompleted: showCompleted,
			})

			if output.IsJSON() {
				if items == nil {
					items = []models.CaptureItem{}
				}
				return output.JSON(items)
			}

			pending, ideas := app.Captures.Counts()
			output.Dim("%d pending task(s), %d idea(s)", pending, ideas)
			output.Println()

			table := NewTable(output, "ID", "Type", "Content", "Project", "Done", "Due")
			for _, item := range items {
				done := ""
				if item.Completed {
					done = "✓"
				}
				table.AddRow(
					item.ID,
					string(item.Type),
					utils.Truncate(item.Content, 56),
					item.Project,
					done,
					item.DueDate,
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().String("type", "", "filter by type")
	cmd.Flags().Bool("all", false, "include completed items")
	return cmd
}

func newCaptureDoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "done <item-id>",
		Short: "Toggle an item's completed flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			item, err := app.Captures.Toggle(context.Background(), args[0])
			if err != nil {
				output.Error("Item %s not found", args[0])
				return err
			}
			if item.Completed {
				output.Success("Done: %s", item.Content)
			} else {
				output.Info("Reopened: %s", item.Content)
			}
			return nil
		},
	}
}

func newCaptureRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <item-id>",
		Short: "Delete an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Captures.Delete(context.Background(), args[0]); err != nil {
				output.Error("Item %s not found", args[0])
				return err
			}
			output.Success("Deleted %s", args[0])
			return nil
		},
	}
}

func newCaptureExportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Export all items as markdown",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			output.Printf("%s", app.Captures.ExportMarkdown())
			return nil
		},
	}
}
