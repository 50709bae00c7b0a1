package cmd

import (
	"github.com/avendano/churnscope/core"
	"github.com/avendano/churnscope/internal"
	"github.com/spf13/cobra"
)

// segmentsCmd summarizes revenue exposure per segment and risk band.
var segmentsCmd = &cobra.Command{
	Use:   "segments [transactions-csv]",
	Short: "Show revenue at risk per segment and risk band.",
	Long: `Run the full churn pipeline and aggregate revenue exposure over the
(segment, risk band) grid. Every cell of the grid appears in the output,
including empty ones, so runs are directly comparable.

Examples:
  # Summarize exposure for the last year
  churnscope segments transactions.csv

  # Machine-readable summary with cutpoints included
  churnscope segments transactions.csv --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSegmentSummary(rootCtx, cfg); err != nil {
			internal.FatalError("Cannot run segment summary", err)
		}
	},
}
