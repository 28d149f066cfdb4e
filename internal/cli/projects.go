package cli

import (
	"context"

	"github.com/spf13/cobra"

	"mission-control/internal/models"
	"mission-control/pkg/utils"
)

// addProjectCommands adds the project tracker commands.
func addProjectCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Project tracker",
	}

	cmd.AddCommand(newProjectsListCmd(app))
	cmd.AddCommand(newProjectsSetCmd(app))
	rootCmd.AddCommand(cmd)
}

func newProjectsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tracked projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			list := app.Projects.List()

			if output.IsJSON() {
				return output.JSON(list)
			}

			table := NewTable(output, "ID", "Name", "Status", "Priority", "Revenue", "Next Action", "Updated")
			for _, p := range list {
				status := string(p.Status)
				switch p.Status {
				case models.ProjectLive:
					status = output.ColoredString(ColorGreen, status)
				case models.ProjectBuilding:
					status = output.ColoredString(ColorYellow, status)
				case models.ProjectPaused:
					status = output.ColoredString(ColorDim, status)
				}
				table.AddRow(
					p.ID,
					p.Name,
					status,
					string(p.Priority),
					p.Revenue,
					utils.Truncate(p.NextAction, 36),
					p.LastUpdated,
				)
			}
			table.Render()
			return nil
		},
	}
}

func newProjectsSetCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <project-id>",
		Short: "Update fields on a project",
		Example: `  missionctl projects set 2 --status live --next "Marketing page"
  missionctl projects set 1 --priority medium`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			var patch models.ProjectPatch
			if cmd.Flags().Changed("name") {
				v, _ := cmd.Flags().GetString("name")
				patch.Name = &v
			}
			if cmd.Flags().Changed("status") {
				v, _ := cmd.Flags().GetString("status")
				s := models.ProjectStatus(v)
				patch.Status = &s
			}
			if cmd.Flags().Changed("priority") {
				v, _ := cmd.Flags().GetString("priority")
				p := models.ProjectPriority(v)
				patch.Priority = &p
			}
			if cmd.Flags().Changed("revenue") {
				v, _ := cmd.Flags().GetString("revenue")
				patch.Revenue = &v
			}
			if cmd.Flags().Changed("next") {
				v, _ := cmd.Flags().GetString("next")
				patch.NextAction = &v
			}
			if cmd.Flags().Changed("url") {
				v, _ := cmd.Flags().GetString("url")
				patch.URL = &v
			}

			project, err := app.Projects.Patch(context.Background(), args[0], patch)
			if err != nil {
				output.Error("Project %s not found", args[0])
				return err
			}

			if output.IsJSON() {
				return output.JSON(project)
			}
			output.Success("Updated %s (last updated %s)", project.Name, project.LastUpdated)
			return nil
		},
	}

	cmd.Flags().String("name", "", "project name")
	cmd.Flags().String("status", "", "status: live, building, idea, paused")
	cmd.Flags().String("priority", "", "priority: high, medium, low")
	cmd.Flags().String("revenue", "", "revenue display string")
	cmd.Flags().String("next", "", "next action")
	cmd.Flags().String("url", "", "project URL")
	return cmd
}
