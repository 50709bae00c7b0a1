package schema

// Custom string types for type safety.
type (
	// Segment represents a customer value tier.
	Segment string

	// RiskBand represents a discrete churn-likelihood category, relative to
	// peers in the same segment.
	RiskBand string

	// FeatureKey represents keys used in scoring breakdowns.
	FeatureKey string

	// SkipReason is a machine-readable code for a skipped record.
	SkipReason string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents a SQL backend for input or run history.
	DatabaseBackend string

	// InputBackend represents where transactions are loaded from.
	InputBackend string
)

// All customer value segments.
const (
	NewSegment         Segment = "new"
	MediumValueSegment Segment = "medium"
	HighValueSegment   Segment = "high"
)

// All risk bands, least to most urgent.
const (
	LowBand      RiskBand = "low"
	MediumBand   RiskBand = "medium"
	HighBand     RiskBand = "high"
	CriticalBand RiskBand = "critical"
)

// Feature keys used in the scoring breakdown.
const (
	RecencyFeature   FeatureKey = "recency"   // Days since last purchase (direct)
	FrequencyFeature FeatureKey = "frequency" // Order count (inverse)
	TrendFeature     FeatureKey = "trend"     // Spend slope (inverse)
	ReturnFeature    FeatureKey = "return"    // Return rate (direct)
)

// Skip reason codes.
const (
	SkipBadTimestamp SkipReason = "bad_timestamp"
	SkipBadAmount    SkipReason = "bad_amount"
	SkipMissingID    SkipReason = "missing_customer_id"
	SkipBadReturn    SkipReason = "bad_return_flag"
	SkipNonFinite    SkipReason = "non_finite_feature"
	SkipNoOrders     SkipReason = "no_orders_in_window"
	SkipUnknownID    SkipReason = "unknown_customer"
)

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	CSVOut     OutputMode = "csv"
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All SQL backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none" // default for run history
)

// All input backends supported.
const (
	CSVInput        InputBackend = "csv" // default
	SQLiteInput     InputBackend = "sqlite"
	MySQLInput      InputBackend = "mysql"
	PostgreSQLInput InputBackend = "postgresql"
)

// AllFeatures lists the scored features in canonical order. Score terms
// are summed in this order so identical input produces identical bits.
var AllFeatures = []FeatureKey{RecencyFeature, FrequencyFeature, TrendFeature, ReturnFeature}

// AllSegments lists segments in ascending value order. Ordering matters:
// segmentation resolves boundary ties to the later (higher) entry.
var AllSegments = []Segment{NewSegment, MediumValueSegment, HighValueSegment}

// AllRiskBands lists bands in ascending urgency order.
var AllRiskBands = []RiskBand{LowBand, MediumBand, HighBand, CriticalBand}

// SegmentLabels maps segments to their display names.
var SegmentLabels = map[Segment]string{
	NewSegment:         "New",
	MediumValueSegment: "Medium-Value",
	HighValueSegment:   "High-Value",
}

// BandLabels maps risk bands to their display names.
var BandLabels = map[RiskBand]string{
	LowBand:      "Low",
	MediumBand:   "Medium",
	HighBand:     "High",
	CriticalBand: "Critical",
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	CSVOut:     {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidHistoryBackends lists all valid run history backends.
var ValidHistoryBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidInputBackends lists all valid input backends.
var ValidInputBackends = map[InputBackend]struct{}{
	CSVInput:        {},
	SQLiteInput:     {},
	MySQLInput:      {},
	PostgreSQLInput: {},
}

// Default analysis parameters.
const (
	DefaultWindowDays        = 365
	DefaultTrendPeriods      = 4
	DefaultMinBandPopulation = 4
	DefaultSegmentHighQ      = 0.75
	DefaultSegmentMediumQ    = 0.40
)

// DefaultBandCutpoints are the within-segment score percentiles for
// Low/Medium, Medium/High and High/Critical.
var DefaultBandCutpoints = BandCutpoints{0.50, 0.80, 0.95}

// GetDefaultWeights returns the default risk score feature weights.
// The four weights always sum to 1.0.
func GetDefaultWeights() map[FeatureKey]float64 {
	return map[FeatureKey]float64{
		RecencyFeature:   0.35,
		FrequencyFeature: 0.25,
		TrendFeature:     0.20,
		ReturnFeature:    0.20,
	}
}

// GetDefaultInterventions returns the default per-segment intervention cost
// and recovery probability assumptions.
func GetDefaultInterventions() map[Segment]Intervention {
	return map[Segment]Intervention{
		HighValueSegment:   {Cost: 50, RecoveryProbability: 0.70},
		MediumValueSegment: {Cost: 20, RecoveryProbability: 0.50},
		NewSegment:         {Cost: 30, RecoveryProbability: 0.60},
	}
}
