// Package loader reads the transaction and customer reference datasets
// from CSV files or a SQL backend. All inputs are validated against the
// required column contract before any pipeline stage runs; malformed rows
// are skipped with a reason code, never silently coerced.
package loader

import (
	"fmt"
	"strings"

	"github.com/avendano/churnscope/internal/contract"
	"github.com/avendano/churnscope/schema"
)

// Required columns for the two input datasets.
var (
	TransactionColumns = []string{"customer_id", "timestamp", "amount", "is_return", "category"}
	CustomerColumns    = []string{"customer_id", "signup_date"}
)

// New returns a RecordSource for the configured input backend.
func New(cfg *contract.Config) (contract.RecordSource, error) {
	switch cfg.InputBackend {
	case schema.CSVInput:
		return &csvSource{cfg: cfg}, nil
	case schema.SQLiteInput, schema.MySQLInput, schema.PostgreSQLInput:
		return newSQLSource(cfg)
	default:
		return nil, contract.NewConfigurationError("input-backend", "unsupported input backend %q", cfg.InputBackend)
	}
}

// missingColumns returns the required columns absent from header, matching
// case-insensitively.
func missingColumns(header []string, required []string) []string {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[normalizeColumn(h)] = true
	}
	var missing []string
	for _, col := range required {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	return missing
}

// columnIndex maps required column names to their header positions.
func columnIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[normalizeColumn(h)] = i
	}
	return index
}

func normalizeColumn(s string) string {
	s = strings.TrimPrefix(s, "\uFEFF") // tolerate a UTF-8 BOM on the first header cell
	return strings.ToLower(strings.TrimSpace(s))
}

// validationErrorForMissing builds the fatal error for an incomplete header.
func validationErrorForMissing(dataset string, missing []string) error {
	return contract.NewValidationError("%s dataset is missing required columns: %v", dataset, missing)
}

// Describe names the configured source for log headers and error messages.
func Describe(cfg *contract.Config) string {
	if cfg.InputBackend == schema.CSVInput {
		return fmt.Sprintf("csv:%s", cfg.TransactionsPath)
	}
	return string(cfg.InputBackend)
}
