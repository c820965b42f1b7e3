package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/chronos/internal/cli/formatter"
)

func newOptimizeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Propose and apply schedule-compression strategies",
	}

	cmd.AddCommand(
		newOptimizeProposeCmd(app),
		newOptimizeApplyCmd(app),
	)

	return cmd
}

func newOptimizeProposeCmd(app *App) *cobra.Command {
	var target float64

	cmd := &cobra.Command{
		Use:   "propose",
		Short: "Propose strategies to hit a target duration",
		RunE: func(cmd *cobra.Command, args []string) error {
			proposal, err := app.Optimize.Propose(cmd.Context(), target)
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatProposal(proposal))
			return nil
		},
	}

	cmd.Flags().Float64Var(&target, "target", 0, "Target project duration in working days")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}

func newOptimizeApplyCmd(app *App) *cobra.Command {
	var target float64
	var strategyID string

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply one proposed strategy's changes transactionally",
		RunE: func(cmd *cobra.Command, args []string) error {
			proposal, err := app.Optimize.Propose(cmd.Context(), target)
			if err != nil {
				return err
			}

			for _, s := range proposal.Strategies {
				if s.ID == strategyID || (strategyID == "" && s.Recommended) {
					result, err := app.Optimize.Apply(cmd.Context(), s.ID, s.Changes)
					if err != nil {
						return err
					}
					fmt.Printf("Applied %s: %d changes committed\n", result.StrategyID, result.Applied)
					return nil
				}
			}
			if strategyID == "" {
				return fmt.Errorf("no applicable strategy for target %.1f days", target)
			}
			return fmt.Errorf("strategy %q not in the proposal for target %.1f days", strategyID, target)
		},
	}

	cmd.Flags().Float64Var(&target, "target", 0, "Target project duration in working days")
	cmd.Flags().StringVar(&strategyID, "strategy", "", "Strategy ID (default: the recommended one)")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}
