// Package schema has configs, models and shared constants for all parts of churnscope.
package schema

import "time"

// Transaction is a single raw purchase or return event for a customer.
// Transactions are immutable once loaded; the engine never mutates them.
type Transaction struct {
	CustomerID string    // Customer identifier
	Timestamp  time.Time // When the order was placed
	Amount     float64   // Gross order amount
	IsReturn   bool      // True if this row is a return of a prior purchase
	Category   string    // Product category
}

// CustomerRecord is a row from the customer reference dataset.
type CustomerRecord struct {
	CustomerID string
	SignupDate time.Time
}

// CustomerFeatures holds the behavioral features derived from a customer's
// transactions inside the trailing window. Computed fresh each run and
// replaced wholesale, never mutated in place.
type CustomerFeatures struct {
	CustomerID   string    // Customer identifier
	RecencyDays  int       // Days between the as-of date and the last purchase
	Frequency    int       // Order count inside the window (returns excluded)
	Monetary     float64   // Net spend: gross purchases minus returned amounts
	AvgSpend     float64   // Monetary / Frequency
	ReturnRate   float64   // Returns / orders
	Trend        float64   // Least-squares slope of spend per sub-period
	LastPurchase time.Time // Timestamp of the most recent purchase
}

// CustomerResult is the full per-customer output of one analysis run.
type CustomerResult struct {
	CustomerID       string                 `json:"customer_id"`
	Features         CustomerFeatures       `json:"-"`
	Segment          Segment                `json:"segment"`
	RiskScore        float64                `json:"risk_score"`
	RiskBand         RiskBand               `json:"risk_band"`
	Breakdown        map[FeatureKey]float64 `json:"breakdown,omitempty"` // Weighted contribution of each feature
	ExpectedLoss     float64                `json:"expected_loss"`
	InterventionCost float64                `json:"intervention_cost"`
	ExpectedRecovery float64                `json:"expected_recovery"`
	ROI              *float64               `json:"roi"` // nil when intervention cost is zero
}

// SkippedRecord captures a single customer or input row that was excluded
// from the run, with a machine-readable reason. Skips never abort the batch.
type SkippedRecord struct {
	CustomerID string     `json:"customer_id,omitempty"`
	Line       int        `json:"line,omitempty"` // 1-based input line for row-level skips
	Reason     SkipReason `json:"reason"`
	Detail     string     `json:"detail,omitempty"`
}

// CellAggregate holds the revenue impact totals for one (segment, band) cell.
// Every cell of the cross-product is present each run, including empty ones.
type CellAggregate struct {
	Segment          Segment  `json:"segment"`
	Band             RiskBand `json:"risk_band"`
	Customers        int      `json:"customers"`
	ExpectedLoss     float64  `json:"expected_loss"`
	InterventionCost float64  `json:"intervention_cost"`
	ExpectedRecovery float64  `json:"expected_recovery"`
	ROI              *float64 `json:"roi"` // nil when the cost sum is zero
}

// Action is one retention intervention from the configured lookup table.
type Action struct {
	Name     string  `json:"name" mapstructure:"name"`
	UnitCost float64 `json:"unit_cost" mapstructure:"unit_cost"` // Cost per targeted customer
	Effect   float64 `json:"effect" mapstructure:"effect"`       // Expected share of at-risk revenue recovered
}

// RankedAction is an action priced against a concrete (segment, band) cell.
type RankedAction struct {
	Action
	TotalCost        float64  `json:"total_cost"`
	ExpectedRecovery float64  `json:"expected_recovery"`
	ROI              *float64 `json:"roi"` // nil when the cell is empty or cost is zero
}

// CellPlan is the ordered action list for one (segment, band) cell,
// most valuable action first.
type CellPlan struct {
	Segment      Segment        `json:"segment"`
	Band         RiskBand       `json:"risk_band"`
	Customers    int            `json:"customers"`
	ExpectedLoss float64        `json:"expected_loss"`
	Actions      []RankedAction `json:"actions"`
}

// Intervention holds the per-segment cost and recovery assumptions used by
// the revenue impact estimator.
type Intervention struct {
	Cost                float64 `json:"cost" mapstructure:"cost"`                                 // Cost per customer
	RecoveryProbability float64 `json:"recovery_probability" mapstructure:"recovery_probability"` // P(retained | intervention)
}

// SegmentCutpoints records the quantile thresholds used for segmentation,
// kept in the result so output can explain how tiers were drawn.
type SegmentCutpoints struct {
	MonetaryHigh    float64 `json:"monetary_high"`
	MonetaryMedium  float64 `json:"monetary_medium"`
	FrequencyHigh   float64 `json:"frequency_high"`
	FrequencyMedium float64 `json:"frequency_medium"`
}

// BandCutpoints are the within-segment score percentiles separating the
// four risk bands: [0] Low/Medium, [1] Medium/High, [2] High/Critical.
type BandCutpoints [3]float64

// AnalysisResult is the sole handoff to downstream rendering and storage.
// Customers are sorted by customer ID so repeated runs over identical input
// produce bit-identical output.
type AnalysisResult struct {
	AsOf              time.Time                  `json:"as_of"`
	WindowDays        int                        `json:"window_days"`
	Customers         []CustomerResult           `json:"customers"`
	Cells             []CellAggregate            `json:"cells"` // Full cross-product, segment-major order
	Plans             []CellPlan                 `json:"plans"` // Same order as Cells
	Skipped           []SkippedRecord            `json:"skipped,omitempty"`
	SegmentCutpoints  SegmentCutpoints           `json:"segment_cutpoints"`
	BandCutpoints     map[Segment]BandCutpoints  `json:"band_cutpoints"`
	SegmentPopulation map[Segment]int            `json:"segment_population"`
}

// RunRecord is the stored metadata for a single tracked analysis run.
type RunRecord struct {
	RunID          int64
	StartTime      time.Time
	EndTime        *time.Time
	RunDurationMs  *int32
	TotalCustomers int32
	ConfigParams   *string // JSON-encoded configuration snapshot
}

// CustomerScoreRecord is the stored per-customer row for a tracked run.
type CustomerScoreRecord struct {
	RunID            int64
	CustomerID       string
	ScoredAt         time.Time
	Segment          string
	RiskScore        float64
	RiskBand         string
	ExpectedLoss     float64
	ExpectedRecovery float64
	ROI              *float64
}
