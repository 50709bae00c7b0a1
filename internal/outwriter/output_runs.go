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

// PrintRunRecords outputs stored run history, newest first.
func PrintRunRecords(runs []schema.RunRecord, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRunJSON(w, runs)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeRunCSV(csvWriter, runs)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRunTable(runs, w)
		}, "Wrote table")
	}
}

func writeRunTable(runs []schema.RunRecord, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Run ID", "Started", "Duration", "Customers"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, run := range runs {
		duration := "in progress"
		if run.RunDurationMs != nil {
			duration = (time.Duration(*run.RunDurationMs) * time.Millisecond).String()
		}
		data = append(data, []string{
			strconv.FormatInt(run.RunID, 10),
			run.StartTime.Format(contract.DateTimeFormat),
			duration,
			strconv.Itoa(int(run.TotalCustomers)),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(writer, "Showing %d runs\n", len(runs))
	return err
}

func writeRunCSV(w *csv.Writer, runs []schema.RunRecord) error {
	header := []string{"run_id", "start_time", "end_time", "run_duration_ms", "total_customers", "config_params"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, run := range runs {
		endTime := ""
		if run.EndTime != nil {
			endTime = run.EndTime.Format(contract.DateTimeFormat)
		}
		duration := ""
		if run.RunDurationMs != nil {
			duration = strconv.Itoa(int(*run.RunDurationMs))
		}
		params := ""
		if run.ConfigParams != nil {
			params = *run.ConfigParams
		}
		rec := []string{
			strconv.FormatInt(run.RunID, 10),
			run.StartTime.Format(contract.DateTimeFormat),
			endTime,
			duration,
			strconv.Itoa(int(run.TotalCustomers)),
			params,
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// PrintStoredScores outputs the stored per-customer rows for one run.
func PrintStoredScores(scores []schema.CustomerScoreRecord, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeStoredScoreJSON(w, scores)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeStoredScoreCSV(csvWriter, scores, fmtFloat)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeStoredScoreTable(scores, cfg, fmtFloat, w)
		}, "Wrote table")
	}
}

func writeStoredScoreTable(scores []schema.CustomerScoreRecord, cfg *contract.Config, fmtFloat func(float64) string, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Customer", "Segment", "Score", "Band", "At Risk", "Recovery", "ROI"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, s := range scores {
		band, _ := schema.ParseRiskBand(s.RiskBand)
		data = append(data, []string{
			contract.TruncateID(s.CustomerID, getMaxTableIDWidth(cfg)),
			s.Segment,
			fmtFloat(s.RiskScore),
			bandLabel(cfg, band),
			contract.FormatMoney(s.ExpectedLoss, cfg.Precision),
			contract.FormatMoney(s.ExpectedRecovery, cfg.Precision),
			contract.FormatROI(s.ROI, cfg.Precision),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if len(scores) > 0 {
		_, err := fmt.Fprintf(writer, "Run %d scored %d customers at %s\n",
			scores[0].RunID, len(scores), scores[0].ScoredAt.Format(contract.DateTimeFormat))
		return err
	}
	return nil
}

func writeStoredScoreCSV(w *csv.Writer, scores []schema.CustomerScoreRecord, fmtFloat func(float64) string) error {
	header := []string{"run_id", "customer_id", "scored_at", "segment", "risk_score", "risk_band", "expected_loss", "expected_recovery", "roi"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, s := range scores {
		roi := ""
		if s.ROI != nil {
			roi = fmtFloat(*s.ROI)
		}
		rec := []string{
			strconv.FormatInt(s.RunID, 10),
			s.CustomerID,
			s.ScoredAt.Format(contract.DateTimeFormat),
			s.Segment,
			fmtFloat(s.RiskScore),
			s.RiskBand,
			fmtFloat(s.ExpectedLoss),
			fmtFloat(s.ExpectedRecovery),
			roi,
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

func writeStoredScoreJSON(w io.Writer, scores []schema.CustomerScoreRecord) error {
	type JSONStoredScore struct {
		RunID            int64     `json:"run_id"`
		CustomerID       string    `json:"customer_id"`
		ScoredAt         time.Time `json:"scored_at"`
		Segment          string    `json:"segment"`
		RiskScore        float64   `json:"risk_score"`
		RiskBand         string    `json:"risk_band"`
		ExpectedLoss     float64   `json:"expected_loss"`
		ExpectedRecovery float64   `json:"expected_recovery"`
		ROI              *float64  `json:"roi"`
	}
	output := make([]JSONStoredScore, len(scores))
	for i, s := range scores {
		output[i] = JSONStoredScore(s)
	}
	return writeJSON(w, output)
}

func writeRunJSON(w io.Writer, runs []schema.RunRecord) error {
	type JSONRunRecord struct {
		RunID          int64      `json:"run_id"`
		StartTime      time.Time  `json:"start_time"`
		EndTime        *time.Time `json:"end_time"`
		RunDurationMs  *int32     `json:"run_duration_ms"`
		TotalCustomers int32      `json:"total_customers"`
		ConfigParams   *string    `json:"config_params"`
	}
	output := make([]JSONRunRecord, len(runs))
	for i, run := range runs {
		output[i] = JSONRunRecord(run)
	}
	return writeJSON(w, output)
}
