package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/chronos/internal/cli/formatter"
	"github.com/alexanderramin/chronos/internal/contract"
)

// resolveProjectID accepts a full ID or an unambiguous prefix.
func resolveProjectID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("project ID is required")
	}

	projects, err := app.Projects.List(ctx)
	if err != nil {
		return "", err
	}

	for _, p := range projects {
		if p.ID == input {
			return p.ID, nil
		}
	}

	var matches []string
	for _, p := range projects {
		if strings.HasPrefix(p.ID, input) {
			matches = append(matches, p.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("project not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("project ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	cmd.AddCommand(
		newProjectListCmd(app),
		newProjectAddCmd(app),
		newProjectSwitchCmd(app),
		newProjectRemoveCmd(app),
		newProjectInspectCmd(app),
		newProjectUpdateCmd(app),
	)

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Projects.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatProjectList(projects))
			return nil
		},
	}
}

func newProjectAddCmd(app *App) *cobra.Command {
	var name, start string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new empty project",
		RunE: func(cmd *cobra.Command, args []string) error {
			var startDate *time.Time
			if start != "" {
				d, err := time.Parse("2006-01-02", start)
				if err != nil {
					return fmt.Errorf("invalid start date %q: %w", start, err)
				}
				startDate = &d
			}

			p, err := app.Projects.Create(cmd.Context(), name, startDate)
			if err != nil {
				return err
			}
			fmt.Printf("Created project %s [%s]\n", p.Name, p.DisplayID())
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newProjectSwitchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "switch <project-id>",
		Short: "Make a project the active one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveProjectID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			if err := app.Projects.Switch(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Printf("Switched to project %s\n", id)
			return nil
		},
	}
}

func newProjectRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <project-id>",
		Short: "Delete a project and all its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveProjectID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			if err := app.Projects.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Printf("Deleted project %s\n", id)
			return nil
		},
	}
}

func newProjectInspectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Show the active project's metadata",
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, err := app.Projects.GetMetadata(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatMetadata(meta))
			return nil
		},
	}
}

func newProjectUpdateCmd(app *App) *cobra.Command {
	var name, start, status string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update the active project's metadata",
		RunE: func(cmd *cobra.Command, args []string) error {
			var upd contract.MetadataUpdate
			if cmd.Flags().Changed("name") {
				upd.Name = &name
			}
			if start != "" {
				d, err := time.Parse("2006-01-02", start)
				if err != nil {
					return fmt.Errorf("invalid start date %q: %w", start, err)
				}
				upd.StartDate = &d
			}
			if status != "" {
				d, err := time.Parse("2006-01-02", status)
				if err != nil {
					return fmt.Errorf("invalid status date %q: %w", status, err)
				}
				upd.StatusDate = &d
			}

			if err := app.Projects.UpdateMetadata(cmd.Context(), upd); err != nil {
				return err
			}
			fmt.Println("Updated project metadata")
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New project name")
	cmd.Flags().StringVar(&start, "start", "", "New start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&status, "status", "", "New status date (YYYY-MM-DD)")

	return cmd
}
