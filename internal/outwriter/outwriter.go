// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/avendano/churnscope/internal/contract"
	"github.com/avendano/churnscope/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteCustomers prints per-customer scoring results using the configured output format.
func (ow *OutWriter) WriteCustomers(result *schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	return PrintCustomerResults(result, cfg, duration)
}

// WriteSegments prints the segment/band revenue aggregates using the configured output format.
func (ow *OutWriter) WriteSegments(result *schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	return PrintSegmentResults(result, cfg, duration)
}

// WritePlans prints the recommended action plans using the configured output format.
func (ow *OutWriter) WritePlans(result *schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	return PrintPlanResults(result, cfg, duration)
}

// WriteRuns prints stored run history records.
func (ow *OutWriter) WriteRuns(runs []schema.RunRecord, cfg *contract.Config) error {
	return PrintRunRecords(runs, cfg)
}
