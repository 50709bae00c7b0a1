package outwriter

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/avendano/churnscope/internal/contract"
	"github.com/avendano/churnscope/schema"
	"golang.org/x/term"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// createFormatters creates the common formatter closures used across multiple output types.
func createFormatters(precision int) (fmtFloat func(float64) string, intFmt string) {
	numFmt := "%.*f"
	intFmt = "%d"
	fmtFloat = func(v float64) string {
		return fmt.Sprintf(numFmt, precision, v)
	}
	return fmtFloat, intFmt
}

const (
	driverContribMinimum = 0.005
	topNDrivers          = 3
)

// formatTopFeatureDrivers computes the top feature components that contribute
// to the final risk score, highest contribution first.
func formatTopFeatureDrivers(r *schema.CustomerResult) string {
	type driver struct {
		name  string
		value float64
	}
	var drivers []driver
	for k, v := range r.Breakdown {
		if v >= driverContribMinimum {
			drivers = append(drivers, driver{name: string(k), value: v})
		}
	}
	if len(drivers) == 0 {
		return "Not applicable"
	}
	sort.Slice(drivers, func(i, j int) bool {
		if math.Abs(drivers[i].value) != math.Abs(drivers[j].value) {
			return math.Abs(drivers[i].value) > math.Abs(drivers[j].value)
		}
		return drivers[i].name < drivers[j].name
	})

	limit := min(len(drivers), topNDrivers)
	parts := make([]string, 0, limit)
	for i := range limit {
		parts = append(parts, drivers[i].name)
	}
	return strings.Join(parts, " > ")
}

// getMaxTableIDWidth calculates the maximum width for customer IDs in table
// output based on terminal width and table configuration.
func getMaxTableIDWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default for narrow terminals and CI
			termWidth = 80
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for fixed columns with table formatting
	baseWidth := 45 // Rank + Segment + Score + Band + Loss + ROI with borders/padding

	if cfg.Detail {
		baseWidth += 50 // Recency + Orders + Monetary + AvgSpend + Return% + Trend
	}
	if cfg.Explain {
		baseWidth += 30 // Drivers column with formatting
	}

	// Reserve space for table borders, separators, and padding
	baseWidth += 15

	available := termWidth - baseWidth
	if available < 12 {
		// Minimum reasonable ID width
		return 12
	}
	if available > 40 {
		// IDs longer than this hurt more than they help
		return 40
	}
	return available
}

// totalLoss sums expected revenue loss over a customer slice.
func totalLoss(customers []schema.CustomerResult) float64 {
	var total float64
	for _, c := range customers {
		total += c.ExpectedLoss
	}
	return total
}

// portfolioROI computes the blended ROI across all cells, nil when no
// intervention spend exists.
func portfolioROI(cells []schema.CellAggregate) *float64 {
	var cost, recovery float64
	for _, c := range cells {
		cost += c.InterventionCost
		recovery += c.ExpectedRecovery
	}
	if cost == 0 {
		return nil
	}
	roi := (recovery - cost) / cost
	return &roi
}
