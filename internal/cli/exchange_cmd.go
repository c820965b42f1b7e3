package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.xml>",
		Short: "Ingest an MS Project XML document as a new active project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			result, err := app.Exchange.Ingest(cmd.Context(), data)
			if err != nil {
				return err
			}
			fmt.Printf("Imported %q [%s]: %d tasks, %d links\n",
				result.Project.Name, result.Project.DisplayID(),
				result.TaskCount, result.LinkCount)
			return nil
		},
	}
}

func newExportCmd(app *App) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the active project as MS Project XML",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := app.Exchange.Export(cmd.Context())
			if err != nil {
				return err
			}

			if output == "" {
				_, err = os.Stdout.Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			fmt.Printf("Exported %d bytes to %s\n", len(data), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")

	return cmd
}
