// Package contract provides interfaces, configuration and shared utilities
// for the churnscope CLI's internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/avendano/churnscope/schema"
)

// RecordSource loads the raw transaction and customer reference datasets.
// This allows the input layer (CSV files, SQL backends) to be swapped and
// mocked for testing.
type RecordSource interface {
	LoadTransactions(ctx context.Context) ([]schema.Transaction, []schema.SkippedRecord, error)
	LoadCustomers(ctx context.Context) ([]schema.CustomerRecord, []schema.SkippedRecord, error)
	Close() error
}

// RunStore persists analysis run history. Implementations must be safe to
// call with a NoneBackend no-op store.
type RunStore interface {
	// BeginRun records the start of a run and returns its ID (0 when
	// tracking is disabled).
	BeginRun(start time.Time, configParams map[string]any) (int64, error)

	// EndRun finalizes a run with its end time and customer count.
	EndRun(runID int64, end time.Time, totalCustomers int) error

	// SaveCustomerScores stores the per-customer output of a run.
	SaveCustomerScores(runID int64, scoredAt time.Time, results []schema.CustomerResult) error

	// ListRuns returns the most recent runs, newest first.
	ListRuns(limit int) ([]schema.RunRecord, error)

	// FetchCustomerScores returns the stored rows for a run.
	FetchCustomerScores(runID int64) ([]schema.CustomerScoreRecord, error)

	Close() error
}
