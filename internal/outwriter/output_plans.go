package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/avendano/churnscope/internal/contract"
	"github.com/avendano/churnscope/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintPlanResults outputs the recommended action plans, dispatching based
// on the output format configured.
func PrintPlanResults(result *schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result.Plans)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writePlanCSV(csvWriter, result.Plans, fmtFloat, intFmt)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writePlanTable(result, cfg, fmtFloat, intFmt, duration, w)
		}, "Wrote table")
	}
}

// writePlanTable generates and writes the human-readable action plan. Empty
// cells are omitted from the table; the JSON output keeps the full
// cross-product for downstream consumers.
func writePlanTable(result *schema.AnalysisResult, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Segment", "Band", "Customers", "Priority", "Action", "Unit Cost", "Total Cost", "Recovery", "ROI"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	var totalCost, totalRecovery float64
	for _, plan := range result.Plans {
		if plan.Customers == 0 {
			continue
		}
		for rank, action := range plan.Actions {
			row := []string{
				schema.SegmentLabels[plan.Segment],
				bandLabel(cfg, plan.Band),
				fmt.Sprintf(intFmt, plan.Customers),
				strconv.Itoa(rank + 1),
				action.Name,
				contract.FormatMoney(action.UnitCost, cfg.Precision),
				contract.FormatMoney(action.TotalCost, cfg.Precision),
				contract.FormatMoney(action.ExpectedRecovery, cfg.Precision),
				contract.FormatROI(action.ROI, cfg.Precision),
			}
			data = append(data, row)
			if rank == 0 {
				// Budget totals assume the top-priority action per cell
				totalCost += action.TotalCost
				totalRecovery += action.ExpectedRecovery
			}
		}
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "Top-priority plan: %s spend for %s expected recovery\n",
		contract.FormatMoney(totalCost, cfg.Precision), contract.FormatMoney(totalRecovery, cfg.Precision)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Analysis completed in %v with %d workers. History backend: %s\n",
		duration, cfg.Workers, cfg.HistoryBackend); err != nil {
		return err
	}
	return nil
}

// writePlanCSV writes the action plans in CSV format, one row per
// (cell, action) pair including empty cells.
func writePlanCSV(w *csv.Writer, plans []schema.CellPlan, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"segment",
		"risk_band",
		"customers",
		"priority",
		"action",
		"unit_cost",
		"total_cost",
		"expected_recovery",
		"roi",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, plan := range plans {
		for rank, action := range plan.Actions {
			roi := ""
			if action.ROI != nil {
				roi = fmtFloat(*action.ROI)
			}
			rec := []string{
				string(plan.Segment),
				string(plan.Band),
				fmt.Sprintf(intFmt, plan.Customers),
				strconv.Itoa(rank + 1),
				action.Name,
				fmtFloat(action.UnitCost),
				fmtFloat(action.TotalCost),
				fmtFloat(action.ExpectedRecovery),
				roi,
			}
			if err := w.Write(rec); err != nil {
				return err
			}
		}
	}
	return nil
}
