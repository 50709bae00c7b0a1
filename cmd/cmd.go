// Package cmd defines the command-line interface for churnscope.
package cmd

import (
	"github.com/avendano/churnscope/internal"
	"github.com/avendano/churnscope/internal/contract"
	"github.com/avendano/churnscope/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(segmentsCmd)
	rootCmd.AddCommand(actionsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("customers", "", "Optional path to the customer reference CSV")
	rootCmd.PersistentFlags().String("as-of", "", "Analysis reference date (YYYY-MM-DD, defaults to now)")
	rootCmd.PersistentFlags().IntP("window", "w", schema.DefaultWindowDays, "Observation window in days")
	rootCmd.PersistentFlags().Int("trend-periods", schema.DefaultTrendPeriods, "Sub-periods used for the spend trend fit")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().Bool("progress", false, "Show a progress bar while reading input")
	rootCmd.PersistentFlags().String("input-backend", string(schema.CSVInput), "Input backend: csv or sqlite or mysql or postgresql")
	rootCmd.PersistentFlags().String("input-db-connect", "", "Database connection string or path for SQL input backends")
	rootCmd.PersistentFlags().String("history-backend", string(schema.SQLiteBackend), "Run tracking backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for run tracking (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		internal.FatalError("Error binding root flags", err)
	}

	// Bind all flags of analyzeCmd to Viper
	analyzeCmd.Flags().Bool("detail", false, "Print per-customer feature columns (recency, orders, monetary, trend)")
	analyzeCmd.Flags().Bool("explain", false, "Print per-customer top score drivers")
	if err := viper.BindPFlags(analyzeCmd.Flags()); err != nil {
		internal.FatalError("Error binding analyze flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		internal.FatalError("Error binding history migrate flags", err)
	}

	// Bind flags of historyShowCmd to Viper
	historyShowCmd.Flags().Int64("run-id", 0, "Run ID to show (defaults to the most recent run)")
	if err := viper.BindPFlags(historyShowCmd.Flags()); err != nil {
		internal.FatalError("Error binding history show flags", err)
	}
}
