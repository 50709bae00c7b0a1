// Package parquet provides data structures and functions for exporting churn
// analysis data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/avendano/churnscope/schema"
	"github.com/parquet-go/parquet-go"
)

// CustomerScore is the flat per-customer export row. The schema is derived
// from the struct tags, one column per scored feature and outcome.
type CustomerScore struct {
	CustomerID       string    `parquet:"customer_id,snappy"`
	Segment          string    `parquet:"segment,snappy"`
	RiskScore        float64   `parquet:"risk_score,snappy"`
	RiskBand         string    `parquet:"risk_band,snappy"`
	RecencyDays      int32     `parquet:"recency_days,snappy"`
	Frequency        int32     `parquet:"frequency,snappy"`
	Monetary         float64   `parquet:"monetary,snappy"`
	AvgSpend         float64   `parquet:"avg_spend,snappy"`
	ReturnRate       float64   `parquet:"return_rate,snappy"`
	Trend            float64   `parquet:"trend,snappy"`
	LastPurchase     time.Time `parquet:"last_purchase,snappy"`
	ExpectedLoss     float64   `parquet:"expected_loss,snappy"`
	InterventionCost float64   `parquet:"intervention_cost,snappy"`
	ExpectedRecovery float64   `parquet:"expected_recovery,snappy"`
	ROI              *float64  `parquet:"roi,optional,snappy"`
}

// Run represents a single tracked analysis run with metadata. This struct
// maps to the churnscope_runs database table.
type Run struct {
	RunID          int64      `parquet:"run_id,snappy"`
	StartTime      time.Time  `parquet:"start_time,snappy"`
	EndTime        *time.Time `parquet:"end_time,optional,snappy"`
	RunDurationMs  *int32     `parquet:"run_duration_ms,optional,snappy"`
	TotalCustomers int32      `parquet:"total_customers,snappy"`
	ConfigParams   *string    `parquet:"config_params,optional,snappy"`
}

// StoredScore maps to the churnscope_customer_scores database table.
type StoredScore struct {
	RunID            int64     `parquet:"run_id,snappy"`
	CustomerID       string    `parquet:"customer_id,snappy"`
	ScoredAt         time.Time `parquet:"scored_at,snappy"`
	Segment          string    `parquet:"segment,snappy"`
	RiskScore        float64   `parquet:"risk_score,snappy"`
	RiskBand         string    `parquet:"risk_band,snappy"`
	ExpectedLoss     float64   `parquet:"expected_loss,snappy"`
	ExpectedRecovery float64   `parquet:"expected_recovery,snappy"`
	ROI              *float64  `parquet:"roi,optional,snappy"`
}

// WriteCustomerResults writes scored customers as Parquet to the given
// writer. The schema is automatically derived from the CustomerScore tags.
func WriteCustomerResults(w io.Writer, results []schema.CustomerResult) error {
	writer := parquet.NewGenericWriter[CustomerScore](w)

	rows := ConvertCustomerResults(results)
	if _, err := writer.Write(rows); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteRunsParquet writes a slice of Run structs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[Run](file)
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteStoredScoresParquet writes a slice of StoredScore structs to a Parquet file.
func WriteStoredScoresParquet(data []StoredScore, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[StoredScore](file)
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// MockFetchRuns generates sample run data for demos and manual testing.
func MockFetchRuns() []Run {
	now := time.Now()
	start1 := now.Add(-2 * time.Hour)
	end1 := now.Add(-1*time.Hour - 58*time.Minute)
	durationMs1 := int32(end1.Sub(start1).Milliseconds())
	configParams1 := `{"window_days":365,"trend_periods":4,"workers":8}`

	start2 := now.Add(-24 * time.Hour)
	end2 := now.Add(-23*time.Hour - 59*time.Minute)
	durationMs2 := int32(end2.Sub(start2).Milliseconds())
	configParams2 := `{"window_days":180,"trend_periods":6,"workers":4}`

	start3 := now.Add(-10 * time.Minute)
	// end/duration/params stay nil to demonstrate a run still in progress

	return []Run{
		{
			RunID:          start1.UnixNano(),
			StartTime:      start1,
			EndTime:        &end1,
			RunDurationMs:  &durationMs1,
			TotalCustomers: 1500,
			ConfigParams:   &configParams1,
		},
		{
			RunID:          start2.UnixNano(),
			StartTime:      start2,
			EndTime:        &end2,
			RunDurationMs:  &durationMs2,
			TotalCustomers: 750,
			ConfigParams:   &configParams2,
		},
		{
			RunID:          start3.UnixNano(),
			StartTime:      start3,
			TotalCustomers: 0,
		},
	}
}

// MockFetchStoredScores generates sample stored score data for demos.
func MockFetchStoredScores() []StoredScore {
	now := time.Now()
	roi1 := 4.2
	roi2 := 0.8

	return []StoredScore{
		{
			RunID:            1,
			CustomerID:       "CUST-0001",
			ScoredAt:         now.Add(-1 * time.Hour),
			Segment:          "high",
			RiskScore:        0.82,
			RiskBand:         "critical",
			ExpectedLoss:     4100,
			ExpectedRecovery: 2870,
			ROI:              &roi1,
		},
		{
			RunID:            1,
			CustomerID:       "CUST-0002",
			ScoredAt:         now.Add(-1 * time.Hour),
			Segment:          "medium",
			RiskScore:        0.36,
			RiskBand:         "medium",
			ExpectedLoss:     430,
			ExpectedRecovery: 215,
			ROI:              &roi2,
		},
		{
			RunID:            1,
			CustomerID:       "CUST-0003",
			ScoredAt:         now.Add(-1 * time.Hour),
			Segment:          "new",
			RiskScore:        0.05,
			RiskBand:         "low",
			ExpectedLoss:     12,
			ExpectedRecovery: 7.2,
			// nil ROI demonstrates the zero-cost case
		},
	}
}

// ConvertCustomerResults converts pipeline output rows for Parquet export.
func ConvertCustomerResults(results []schema.CustomerResult) []CustomerScore {
	rows := make([]CustomerScore, len(results))
	for i, r := range results {
		rows[i] = CustomerScore{
			CustomerID:       r.CustomerID,
			Segment:          string(r.Segment),
			RiskScore:        r.RiskScore,
			RiskBand:         string(r.RiskBand),
			RecencyDays:      int32(r.Features.RecencyDays),
			Frequency:        int32(r.Features.Frequency),
			Monetary:         r.Features.Monetary,
			AvgSpend:         r.Features.AvgSpend,
			ReturnRate:       r.Features.ReturnRate,
			Trend:            r.Features.Trend,
			LastPurchase:     r.Features.LastPurchase,
			ExpectedLoss:     r.ExpectedLoss,
			InterventionCost: r.InterventionCost,
			ExpectedRecovery: r.ExpectedRecovery,
			ROI:              r.ROI,
		}
	}
	return rows
}

// ConvertRunRecords converts schema.RunRecord to Run for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	rows := make([]Run, len(records))
	for i, record := range records {
		rows[i] = Run{
			RunID:          record.RunID,
			StartTime:      record.StartTime,
			EndTime:        record.EndTime,
			RunDurationMs:  record.RunDurationMs,
			TotalCustomers: record.TotalCustomers,
			ConfigParams:   record.ConfigParams,
		}
	}
	return rows
}

// ConvertStoredScoreRecords converts schema.CustomerScoreRecord to StoredScore for Parquet export.
func ConvertStoredScoreRecords(records []schema.CustomerScoreRecord) []StoredScore {
	rows := make([]StoredScore, len(records))
	for i, record := range records {
		rows[i] = StoredScore{
			RunID:            record.RunID,
			CustomerID:       record.CustomerID,
			ScoredAt:         record.ScoredAt,
			Segment:          record.Segment,
			RiskScore:        record.RiskScore,
			RiskBand:         record.RiskBand,
			ExpectedLoss:     record.ExpectedLoss,
			ExpectedRecovery: record.ExpectedRecovery,
			ROI:              record.ROI,
		}
	}
	return rows
}
