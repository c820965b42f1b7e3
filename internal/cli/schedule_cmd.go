package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/chronos/internal/cli/formatter"
)

func newValidateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the active project's invariants",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := app.Schedule.Validate(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatValidationReport(report))
			if !report.Valid {
				return fmt.Errorf("project is invalid")
			}
			return nil
		},
	}
}

func newCPMCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "cpm",
		Short: "Compute the critical path of the active project",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Schedule.ComputeCPM(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatSchedule(result))
			return nil
		},
	}
}
