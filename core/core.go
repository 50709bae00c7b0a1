// Package core has core logic for feature building, segmentation, scoring
// and revenue impact estimation.
package core

import (
	"context"
	"time"

	"github.com/avendano/churnscope/internal"
	"github.com/avendano/churnscope/internal/contract"
	"github.com/avendano/churnscope/internal/history"
	"github.com/avendano/churnscope/internal/loader"
	"github.com/avendano/churnscope/internal/outwriter"
	"github.com/avendano/churnscope/schema"
)

// ExecutorFunc defines the function signature for executing different analysis commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config) error

// ExecuteChurnAnalyze runs the full pipeline and prints per-customer results.
// It serves as the main entry point for the 'analyze' command.
func ExecuteChurnAnalyze(ctx context.Context, cfg *contract.Config) error {
	start := time.Now()
	result, err := GetTrackedAnalysisResult(ctx, cfg)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.NewOutWriter().WriteCustomers(result, cfg, duration)
}

// ExecuteSegmentSummary runs the full pipeline and prints the segment/band
// revenue aggregates. It serves as the main entry point for the 'segments' command.
func ExecuteSegmentSummary(ctx context.Context, cfg *contract.Config) error {
	start := time.Now()
	result, err := GetTrackedAnalysisResult(ctx, cfg)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.NewOutWriter().WriteSegments(result, cfg, duration)
}

// ExecuteActionPlan runs the full pipeline and prints the recommended
// retention actions per cell. It serves as the main entry point for the
// 'actions' command.
func ExecuteActionPlan(ctx context.Context, cfg *contract.Config) error {
	start := time.Now()
	result, err := GetTrackedAnalysisResult(ctx, cfg)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.NewOutWriter().WritePlans(result, cfg, duration)
}

// GetTrackedAnalysisResult wires the configured input source and history store
// around GetAnalysisResult.
func GetTrackedAnalysisResult(ctx context.Context, cfg *contract.Config) (*schema.AnalysisResult, error) {
	source, err := loader.New(cfg)
	if err != nil {
		return nil, err
	}
	defer func() { _ = source.Close() }()

	store, err := history.NewRunStore(cfg.HistoryBackend, cfg.HistoryDBConnect)
	if err != nil {
		// Run tracking is best-effort; the analysis itself must not depend on it
		contract.LogWarn("run tracking unavailable", err)
		store = nil
	} else {
		defer func() { _ = store.Close() }()
	}

	return GetAnalysisResult(ctx, cfg, source, store)
}

// GetAnalysisResult loads input, runs the pipeline and records the run in
// the history store. CLI commands and the MCP server share this path.
func GetAnalysisResult(ctx context.Context, cfg *contract.Config, source contract.RecordSource, store contract.RunStore) (*schema.AnalysisResult, error) {
	// Machine output formats must stay clean on stdout
	if !shouldSuppressHeader(ctx) && cfg.Output == schema.TextOut {
		internal.LogAnalysisHeader(cfg)
	}

	txs, loadSkipped, err := source.LoadTransactions(ctx)
	if err != nil {
		return nil, err
	}
	customers, customerSkipped, err := source.LoadCustomers(ctx)
	if err != nil {
		return nil, err
	}
	loadSkipped = append(loadSkipped, customerSkipped...)
	txs, unknownSkipped := filterKnownCustomers(txs, customers)
	loadSkipped = append(loadSkipped, unknownSkipped...)

	var runID int64
	if store != nil {
		id, err := store.BeginRun(time.Now(), cfg.Snapshot())
		if err != nil {
			contract.LogWarn("run tracking disabled for this run", err)
		} else {
			runID = id
		}
	}

	result, err := RunAnalysis(ctx, cfg, txs)
	if err != nil {
		return nil, err
	}
	result.Skipped = append(loadSkipped, result.Skipped...)

	if store != nil && runID != 0 {
		if err := store.SaveCustomerScores(runID, result.AsOf, result.Customers); err != nil {
			contract.LogWarn("failed to save customer scores", err)
		}
		if err := store.EndRun(runID, time.Now(), len(result.Customers)); err != nil {
			contract.LogWarn("failed to finalize run record", err)
		}
	}
	return result, nil
}

// filterKnownCustomers drops transactions whose customer ID is absent from
// the reference dataset. Without a reference dataset every ID is accepted.
func filterKnownCustomers(txs []schema.Transaction, customers []schema.CustomerRecord) ([]schema.Transaction, []schema.SkippedRecord) {
	if len(customers) == 0 {
		return txs, nil
	}
	known := make(map[string]bool, len(customers))
	for _, c := range customers {
		known[c.CustomerID] = true
	}
	kept := txs[:0]
	var skipped []schema.SkippedRecord
	seen := make(map[string]bool)
	for _, tx := range txs {
		if known[tx.CustomerID] {
			kept = append(kept, tx)
			continue
		}
		if !seen[tx.CustomerID] {
			seen[tx.CustomerID] = true
			skipped = append(skipped, schema.SkippedRecord{
				CustomerID: tx.CustomerID,
				Reason:     schema.SkipUnknownID,
				Detail:     "customer not present in reference dataset",
			})
		}
	}
	return kept, skipped
}
