package cmd

import (
	"github.com/avendano/churnscope/core"
	"github.com/avendano/churnscope/internal"
	"github.com/spf13/cobra"
)

// actionsCmd recommends retention actions per segment and risk band.
var actionsCmd = &cobra.Command{
	Use:   "actions [transactions-csv]",
	Short: "Recommend retention actions ordered by expected ROI.",
	Long: `Run the full churn pipeline and price the configured retention
actions against each (segment, risk band) cell. Actions are ordered by
expected return on intervention spend, best first.

The action table can be customized per cell in the config file; the default
table covers win-back emails, promotions and outreach calls.

Examples:
  # Get the recommended plan for the last year
  churnscope actions transactions.csv

  # Export the full plan including empty cells
  churnscope actions transactions.csv --output csv --output-file plan.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteActionPlan(rootCtx, cfg); err != nil {
			internal.FatalError("Cannot build action plan", err)
		}
	},
}
