// Package internal has logging and output helpers shared by the CLI layers.
package internal

import (
	"fmt"
	"os"

	"github.com/avendano/churnscope/internal/contract"
	"github.com/avendano/churnscope/internal/loader"
)

// FatalError logs an error and exits the program.
func FatalError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "❌ %s: %v\n", msg, err)
	os.Exit(1)
}

// Warning logs a warning.
func Warning(msg string) {
	fmt.Fprintf(os.Stderr, "⚠️  %s\n", msg)
}

// LogAnalysisHeader prints the run parameters before an analysis starts.
func LogAnalysisHeader(cfg *contract.Config) {
	fmt.Printf("🔎 Scoring churn risk as of %s (source: %s, window: %d days, workers: %d)\n",
		cfg.AsOf.Format(contract.DateOnlyFormat), loader.Describe(cfg), cfg.WindowDays, cfg.Workers)
}
