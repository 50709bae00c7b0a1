package core

import (
	"github.com/avendano/churnscope/core/algo"
	"github.com/avendano/churnscope/internal/contract"
	"github.com/avendano/churnscope/schema"
)

// AssignSegments computes quantile cut-points from the current population's
// monetary and frequency distributions and assigns every customer exactly
// one value tier. Cut-points are relative to this run's population, never
// absolute dollar amounts, so segmentation stays valid across business
// scales.
func AssignSegments(cfg *contract.Config, features []schema.CustomerFeatures) (map[string]schema.Segment, schema.SegmentCutpoints) {
	monetary := make([]float64, len(features))
	frequency := make([]float64, len(features))
	for i, f := range features {
		monetary[i] = f.Monetary
		frequency[i] = float64(f.Frequency)
	}

	cuts := schema.SegmentCutpoints{
		MonetaryHigh:    algo.Quantile(monetary, cfg.SegmentHighQ),
		MonetaryMedium:  algo.Quantile(monetary, cfg.SegmentMediumQ),
		FrequencyHigh:   algo.Quantile(frequency, cfg.SegmentHighQ),
		FrequencyMedium: algo.Quantile(frequency, cfg.SegmentMediumQ),
	}

	segments := make(map[string]schema.Segment, len(features))
	for _, f := range features {
		bySpend := tierFor(f.Monetary, cuts.MonetaryMedium, cuts.MonetaryHigh)
		byOrders := tierFor(float64(f.Frequency), cuts.FrequencyMedium, cuts.FrequencyHigh)
		segments[f.CustomerID] = schema.MaxSegment(bySpend, byOrders)
	}
	return segments, cuts
}

// tierFor maps a value onto a tier given the medium and high cut-points.
// Boundaries are inclusive upward: a value sitting exactly on a cut-point
// resolves to the higher tier.
func tierFor(v, medium, high float64) schema.Segment {
	switch {
	case v >= high:
		return schema.HighValueSegment
	case v >= medium:
		return schema.MediumValueSegment
	default:
		return schema.NewSegment
	}
}
