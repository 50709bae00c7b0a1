package history

import (
	"errors"
	"fmt"

	"github.com/avendano/churnscope/internal/contract"
	"github.com/avendano/churnscope/internal/parquet"
)

// ExportRuns dumps the stored run history and per-customer scores to a pair
// of Parquet files derived from outputFile.
func ExportRuns(store contract.RunStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export")
	}

	runs, err := store.ListRuns(contract.MaxResultLimit)
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	if len(runs) == 0 {
		return errors.New("no run history found to export")
	}

	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteRunsParquet(parquet.ConvertRunRecords(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	fmt.Printf("Exported %d runs to: %s\n", len(runs), runsFile)

	var totalScores int
	scoresFile := outputFile + ".customer_scores.parquet"
	var allScores []parquet.StoredScore
	for _, run := range runs {
		scores, err := store.FetchCustomerScores(run.RunID)
		if err != nil {
			return fmt.Errorf("failed to retrieve scores for run %d: %w", run.RunID, err)
		}
		allScores = append(allScores, parquet.ConvertStoredScoreRecords(scores)...)
		totalScores += len(scores)
	}
	if err := parquet.WriteStoredScoresParquet(allScores, scoresFile); err != nil {
		return fmt.Errorf("failed to write customer scores: %w", err)
	}
	fmt.Printf("Exported %d customer scores to: %s\n", totalScores, scoresFile)

	return nil
}
