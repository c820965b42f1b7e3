package cli

import (
	"github.com/spf13/cobra"

	"github.com/alexanderramin/chronos/internal/service"
)

// App holds references to the service interfaces used by CLI commands.
type App struct {
	Projects service.ProjectService
	Tasks    service.TaskService
	Exchange service.ExchangeService
	Schedule service.ScheduleService
	Optimize service.OptimizeService
}

// NewRootCmd creates the top-level "chronos" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "chronos",
		Short:         "MS Project scheduling engine: ingest, validate, CPM, optimize",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newProjectCmd(app),
		newImportCmd(app),
		newExportCmd(app),
		newTaskCmd(app),
		newValidateCmd(app),
		newCPMCmd(app),
		newOptimizeCmd(app),
	)

	return root
}
