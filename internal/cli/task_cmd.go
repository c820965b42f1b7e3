package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/chronos/internal/cli/formatter"
	"github.com/alexanderramin/chronos/internal/domain"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks in the active project",
	}

	cmd.AddCommand(
		newTaskListCmd(app),
		newTaskAddCmd(app),
		newTaskUpdateCmd(app),
		newTaskRemoveCmd(app),
	)

	return cmd
}

// resolveTaskByOutline maps an outline number in the active project to its
// task.
func resolveTaskByOutline(ctx context.Context, app *App, outline string) (*domain.Task, error) {
	tasks, err := app.Tasks.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		if t.OutlineNumber == outline {
			return t, nil
		}
	}
	return nil, fmt.Errorf("no task with outline %q in the active project", outline)
}

// parsePredecessor parses "outline[:type[:lag[:format]]]", e.g. "1.2:FS:3:7".
func parsePredecessor(spec string) (domain.PredecessorLink, error) {
	link := domain.PredecessorLink{
		Type:      domain.LinkFS,
		LagFormat: domain.LagWorkingDays,
	}

	parts := strings.Split(spec, ":")
	if parts[0] == "" {
		return link, fmt.Errorf("predecessor spec %q: outline is required", spec)
	}
	link.PredecessorOutline = parts[0]

	if len(parts) > 1 {
		switch strings.ToUpper(parts[1]) {
		case "FF":
			link.Type = domain.LinkFF
		case "FS":
			link.Type = domain.LinkFS
		case "SF":
			link.Type = domain.LinkSF
		case "SS":
			link.Type = domain.LinkSS
		default:
			return link, fmt.Errorf("predecessor spec %q: unknown link type %q", spec, parts[1])
		}
	}
	if len(parts) > 2 {
		lag, err := strconv.Atoi(parts[2])
		if err != nil {
			return link, fmt.Errorf("predecessor spec %q: invalid lag %q", spec, parts[2])
		}
		link.Lag = lag
	}
	if len(parts) > 3 {
		format, err := strconv.Atoi(parts[3])
		if err != nil || !domain.LagFormat(format).Valid() {
			return link, fmt.Errorf("predecessor spec %q: invalid lag format %q", spec, parts[3])
		}
		link.LagFormat = domain.LagFormat(format)
	}

	return link, nil
}

func newTaskListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the active project's tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := app.Tasks.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatTaskList(tasks))
			return nil
		},
	}
}

func newTaskAddCmd(app *App) *cobra.Command {
	var (
		name, outline, duration string
		milestone, summary      bool
		percent                 int
		predecessors            []string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task in the active project",
		RunE: func(cmd *cobra.Command, args []string) error {
			t := &domain.Task{
				Name:          name,
				OutlineNumber: outline,
				Duration:      duration,
				Milestone:     milestone,
				Summary:       summary,
				PercentDone:   percent,
			}
			if milestone && duration == "" {
				t.Duration = "PT0H0M0S"
			}
			for _, spec := range predecessors {
				link, err := parsePredecessor(spec)
				if err != nil {
					return err
				}
				t.Predecessors = append(t.Predecessors, link)
			}

			created, err := app.Tasks.Create(cmd.Context(), t)
			if err != nil {
				return err
			}
			fmt.Printf("Created task %s %q (UID %s)\n", created.OutlineNumber, created.Name, created.UID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Task name")
	cmd.Flags().StringVar(&outline, "outline", "", "Outline number, e.g. 1.2.3")
	cmd.Flags().StringVar(&duration, "duration", "PT8H0M0S", "ISO-8601 duration, e.g. PT16H0M0S")
	cmd.Flags().BoolVar(&milestone, "milestone", false, "Mark as milestone (zero duration)")
	cmd.Flags().BoolVar(&summary, "summary", false, "Mark as summary task")
	cmd.Flags().IntVar(&percent, "percent", 0, "Percent complete (0-100)")
	cmd.Flags().StringArrayVar(&predecessors, "predecessor", nil,
		"Predecessor link as outline[:type[:lag[:format]]], repeatable")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("outline")

	return cmd
}

func newTaskUpdateCmd(app *App) *cobra.Command {
	var (
		name, duration, moveTo string
		percent                int
		predecessors           []string
	)

	cmd := &cobra.Command{
		Use:   "update <outline>",
		Short: "Update a task in the active project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := resolveTaskByOutline(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("name") {
				t.Name = name
			}
			if cmd.Flags().Changed("duration") {
				t.Duration = duration
			}
			if cmd.Flags().Changed("percent") {
				t.PercentDone = percent
			}
			if cmd.Flags().Changed("move-to") {
				t.OutlineNumber = moveTo
				t.OutlineLevel = domain.OutlineDepth(moveTo)
			}
			if cmd.Flags().Changed("predecessor") {
				t.Predecessors = nil
				for _, spec := range predecessors {
					link, err := parsePredecessor(spec)
					if err != nil {
						return err
					}
					t.Predecessors = append(t.Predecessors, link)
				}
			}

			updated, err := app.Tasks.Update(cmd.Context(), t)
			if err != nil {
				return err
			}
			fmt.Printf("Updated task %s %q\n", updated.OutlineNumber, updated.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New task name")
	cmd.Flags().StringVar(&duration, "duration", "", "New ISO-8601 duration")
	cmd.Flags().IntVar(&percent, "percent", 0, "New percent complete")
	cmd.Flags().StringVar(&moveTo, "move-to", "", "New outline number")
	cmd.Flags().StringArrayVar(&predecessors, "predecessor", nil,
		"Replace predecessor links, as outline[:type[:lag[:format]]]")

	return cmd
}

func newTaskRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <outline>",
		Short: "Delete a task (and its subtree), renumbering later siblings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := resolveTaskByOutline(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			if err := app.Tasks.Delete(cmd.Context(), t.ID); err != nil {
				return err
			}
			fmt.Printf("Deleted task %s %q\n", t.OutlineNumber, t.Name)
			return nil
		},
	}
}
