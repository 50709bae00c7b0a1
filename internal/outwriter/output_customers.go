package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/avendano/churnscope/core/algo"
	"github.com/avendano/churnscope/internal/contract"
	"github.com/avendano/churnscope/internal/parquet"
	"github.com/avendano/churnscope/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintCustomerResults outputs the scored customers, dispatching based on the
// output format configured. Customers are ranked by expected revenue loss.
func PrintCustomerResults(result *schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)
	ranked := algo.RankCustomers(result.Customers, cfg.ResultLimit)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCustomerJSON(w, ranked)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeCustomerCSV(csvWriter, ranked, fmtFloat, intFmt)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return parquet.WriteCustomerResults(w, ranked)
		}, "Wrote Parquet")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCustomerTable(ranked, result, cfg, fmtFloat, intFmt, duration, w)
		}, "Wrote table")
	}
}

// writeCustomerTable generates and writes the human-readable table.
func writeCustomerTable(ranked []schema.CustomerResult, result *schema.AnalysisResult, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	headers := []string{"Rank", "Customer", "Segment", "Score", "Band", "At Risk", "ROI"}
	if cfg.Detail {
		headers = append(headers, "Recency", "Orders", "Monetary", "Avg Spend", "Return Rate", "Trend")
	}
	if cfg.Explain {
		headers = append(headers, "Drivers")
	}
	table.Header(headers)

	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, c := range ranked {
		row := []string{
			strconv.Itoa(i + 1),
			contract.TruncateID(c.CustomerID, getMaxTableIDWidth(cfg)),
			schema.SegmentLabels[c.Segment],
			fmtFloat(c.RiskScore),
			bandLabel(cfg, c.RiskBand),
			contract.FormatMoney(c.ExpectedLoss, cfg.Precision),
			contract.FormatROI(c.ROI, cfg.Precision),
		}
		if cfg.Detail {
			row = append(
				row,
				fmt.Sprintf(intFmt, c.Features.RecencyDays),
				fmt.Sprintf(intFmt, c.Features.Frequency),
				contract.FormatMoney(c.Features.Monetary, cfg.Precision),
				contract.FormatMoney(c.Features.AvgSpend, cfg.Precision),
				fmtFloat(c.Features.ReturnRate*100),
				fmtFloat(c.Features.Trend),
			)
		}
		if cfg.Explain {
			row = append(row, formatTopFeatureDrivers(&c))
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "Showing top %d of %d customers (revenue at risk: %s)\n",
		len(ranked), len(result.Customers), contract.FormatMoney(totalLoss(result.Customers), cfg.Precision)); err != nil {
		return err
	}
	if len(result.Skipped) > 0 {
		if _, err := fmt.Fprintf(writer, "Skipped %d input records; rerun with --output json for reasons\n", len(result.Skipped)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(writer, "Analysis completed in %v with %d workers. History backend: %s\n",
		duration, cfg.Workers, cfg.HistoryBackend); err != nil {
		return err
	}
	return nil
}

// writeCustomerCSV writes the scored customers in CSV format.
func writeCustomerCSV(w *csv.Writer, ranked []schema.CustomerResult, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"rank",
		"customer_id",
		"segment",
		"risk_score",
		"risk_band",
		"expected_loss",
		"intervention_cost",
		"expected_recovery",
		"roi",
		"recency_days",
		"frequency",
		"monetary",
		"avg_spend",
		"return_rate",
		"trend",
		"last_purchase",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for i, c := range ranked {
		roi := ""
		if c.ROI != nil {
			roi = fmtFloat(*c.ROI)
		}
		rec := []string{
			strconv.Itoa(i + 1),
			c.CustomerID,
			string(c.Segment),
			fmtFloat(c.RiskScore),
			string(c.RiskBand),
			fmtFloat(c.ExpectedLoss),
			fmtFloat(c.InterventionCost),
			fmtFloat(c.ExpectedRecovery),
			roi,
			fmt.Sprintf(intFmt, c.Features.RecencyDays),
			fmt.Sprintf(intFmt, c.Features.Frequency),
			fmtFloat(c.Features.Monetary),
			fmtFloat(c.Features.AvgSpend),
			fmtFloat(c.Features.ReturnRate),
			fmtFloat(c.Features.Trend),
			c.Features.LastPurchase.Format(contract.DateTimeFormat),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// writeCustomerJSON writes the scored customers in JSON format.
func writeCustomerJSON(w io.Writer, ranked []schema.CustomerResult) error {
	type JSONCustomerResult struct {
		Rank  int    `json:"rank"`
		Label string `json:"label"`
		schema.CustomerResult
	}

	output := make([]JSONCustomerResult, len(ranked))
	for i, c := range ranked {
		output[i] = JSONCustomerResult{
			Rank:           i + 1,
			Label:          contract.GetPlainBandLabel(c.RiskBand),
			CustomerResult: c,
		}
	}
	return writeJSON(w, output)
}

// bandLabel picks the colored or plain band label per config.
func bandLabel(cfg *contract.Config, band schema.RiskBand) string {
	if cfg.UseColors {
		return contract.GetColorBandLabel(band)
	}
	return contract.GetPlainBandLabel(band)
}
