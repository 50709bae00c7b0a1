package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/avendano/churnscope/internal/contract"
	"github.com/avendano/churnscope/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintSegmentResults outputs the segment/band revenue aggregates,
// dispatching based on the output format configured.
func PrintSegmentResults(result *schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSegmentJSON(w, result)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeSegmentCSV(csvWriter, result.Cells, fmtFloat, intFmt)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSegmentTable(result, cfg, fmtFloat, intFmt, duration, w)
		}, "Wrote table")
	}
}

// writeSegmentTable generates and writes the human-readable aggregate table.
// Empty cells stay visible so the full cross-product can be read at a glance.
func writeSegmentTable(result *schema.AnalysisResult, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Segment", "Band", "Customers", "At Risk", "Cost", "Recovery", "ROI"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, cell := range result.Cells {
		data = append(data, []string{
			schema.SegmentLabels[cell.Segment],
			bandLabel(cfg, cell.Band),
			fmt.Sprintf(intFmt, cell.Customers),
			contract.FormatMoney(cell.ExpectedLoss, cfg.Precision),
			contract.FormatMoney(cell.InterventionCost, cfg.Precision),
			contract.FormatMoney(cell.ExpectedRecovery, cfg.Precision),
			contract.FormatROI(cell.ROI, cfg.Precision),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	cuts := result.SegmentCutpoints
	if _, err := fmt.Fprintf(writer, "Segment cutpoints: monetary >= %s high, >= %s medium; orders >= %s high, >= %s medium\n",
		fmtFloat(cuts.MonetaryHigh), fmtFloat(cuts.MonetaryMedium),
		fmtFloat(cuts.FrequencyHigh), fmtFloat(cuts.FrequencyMedium)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Total revenue at risk: %s across %d customers",
		contract.FormatMoney(totalLoss(result.Customers), cfg.Precision), len(result.Customers)); err != nil {
		return err
	}
	if roi := portfolioROI(result.Cells); roi != nil {
		if _, err := fmt.Fprintf(writer, " (portfolio ROI: %s)", contract.FormatROI(roi, cfg.Precision)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(writer, "\nAnalysis completed in %v with %d workers. History backend: %s\n",
		duration, cfg.Workers, cfg.HistoryBackend); err != nil {
		return err
	}
	return nil
}

// writeSegmentCSV writes the aggregates in CSV format.
func writeSegmentCSV(w *csv.Writer, cells []schema.CellAggregate, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"segment",
		"risk_band",
		"customers",
		"expected_loss",
		"intervention_cost",
		"expected_recovery",
		"roi",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, cell := range cells {
		roi := ""
		if cell.ROI != nil {
			roi = fmtFloat(*cell.ROI)
		}
		rec := []string{
			string(cell.Segment),
			string(cell.Band),
			fmt.Sprintf(intFmt, cell.Customers),
			fmtFloat(cell.ExpectedLoss),
			fmtFloat(cell.InterventionCost),
			fmtFloat(cell.ExpectedRecovery),
			roi,
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// writeSegmentJSON writes the aggregates with their cutpoint context.
func writeSegmentJSON(w io.Writer, result *schema.AnalysisResult) error {
	output := struct {
		AsOf              time.Time                        `json:"as_of"`
		WindowDays        int                              `json:"window_days"`
		Cells             []schema.CellAggregate           `json:"cells"`
		SegmentCutpoints  schema.SegmentCutpoints          `json:"segment_cutpoints"`
		BandCutpoints     map[schema.Segment]schema.BandCutpoints `json:"band_cutpoints"`
		SegmentPopulation map[schema.Segment]int           `json:"segment_population"`
		PortfolioROI      *float64                         `json:"portfolio_roi"`
	}{
		AsOf:              result.AsOf,
		WindowDays:        result.WindowDays,
		Cells:             result.Cells,
		SegmentCutpoints:  result.SegmentCutpoints,
		BandCutpoints:     result.BandCutpoints,
		SegmentPopulation: result.SegmentPopulation,
		PortfolioROI:      portfolioROI(result.Cells),
	}
	return writeJSON(w, output)
}
