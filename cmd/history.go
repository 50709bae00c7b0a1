package cmd

import (
	"errors"

	"github.com/avendano/churnscope/internal"
	"github.com/avendano/churnscope/internal/contract"
	"github.com/avendano/churnscope/internal/history"
	"github.com/avendano/churnscope/internal/outwriter"
	"github.com/avendano/churnscope/internal/parquet"
	"github.com/avendano/churnscope/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historyCmd groups the run tracking subcommands.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect and manage tracked analysis runs.",
	Long: `Work with the run history store: list past runs, show the scores a
run produced, export history to Parquet, and manage the store schema.`,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// withRunStore opens the configured history store and hands it to fn.
func withRunStore(fn func(store contract.RunStore) error) error {
	if cfg.HistoryBackend == schema.NoneBackend {
		return errors.New("run tracking is disabled; set --history-backend to sqlite, mysql or postgresql")
	}
	store, err := history.NewRunStore(cfg.HistoryBackend, cfg.HistoryDBConnect)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()
	return fn(store)
}

// historyListCmd lists recent tracked runs.
var historyListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List tracked analysis runs, newest first.",
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		err := withRunStore(func(store contract.RunStore) error {
			runs, err := store.ListRuns(cfg.ResultLimit)
			if err != nil {
				return err
			}
			return outwriter.NewOutWriter().WriteRuns(runs, cfg)
		})
		if err != nil {
			internal.FatalError("Cannot list runs", err)
		}
	},
}

// historyShowCmd prints the stored scores for one run.
var historyShowCmd = &cobra.Command{
	Use:     "show",
	Short:   "Show the stored customer scores for a run.",
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		err := withRunStore(func(store contract.RunStore) error {
			runID := viper.GetInt64("run-id")
			if runID == 0 {
				runs, err := store.ListRuns(1)
				if err != nil {
					return err
				}
				if len(runs) == 0 {
					return errors.New("no tracked runs found")
				}
				runID = runs[0].RunID
			}
			scores, err := store.FetchCustomerScores(runID)
			if err != nil {
				return err
			}
			if len(scores) == 0 {
				return errors.New("no stored scores for this run")
			}
			return printStoredScores(scores)
		})
		if err != nil {
			internal.FatalError("Cannot show run", err)
		}
	},
}

// historyExportCmd dumps the run history to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:     "export",
	Short:   "Export run history and customer scores to Parquet files.",
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		err := withRunStore(func(store contract.RunStore) error {
			return history.ExportRuns(store, cfg.OutputFile)
		})
		if err != nil {
			internal.FatalError("Cannot export history", err)
		}
	},
}

// historyMigrateCmd manages the history store schema.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations for the history store.",
	Long: `Apply or roll back schema migrations for the run history store.

Use --target-version to control the migration:
  -1 migrates to the latest version (default)
   0 rolls back all migrations
   N migrates to version N`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		target := viper.GetInt("target-version")
		if err := history.Migrate(cfg.HistoryBackend, cfg.HistoryDBConnect, target); err != nil {
			internal.FatalError("Cannot run migrations", err)
		}
	},
}

// printStoredScores renders stored rows with the configured output mode.
func printStoredScores(scores []schema.CustomerScoreRecord) error {
	switch cfg.Output {
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return errors.New("--output-file is required for parquet output")
		}
		return parquet.WriteStoredScoresParquet(parquet.ConvertStoredScoreRecords(scores), cfg.OutputFile)
	default:
		return outwriter.PrintStoredScores(scores, cfg)
	}
}
