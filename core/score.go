package core

import (
	"github.com/avendano/churnscope/core/algo"
	"github.com/avendano/churnscope/internal/contract"
	"github.com/avendano/churnscope/schema"
)

// riskInputs holds the raw risk-oriented values for one customer, before
// normalization. Higher recency and return rate push risk up directly;
// frequency and trend are inverted after scaling.
type riskInputs struct {
	recency    float64
	frequency  float64
	trend      float64
	returnRate float64
}

// featureRange is a min-max pair per scored feature.
type featureRange struct {
	lo, hi map[schema.FeatureKey]float64
}

// ScoreCustomers combines normalized features into a churn-risk score in
// [0,1] and a segment-relative risk band for every customer. Normalization
// is per-segment min-max scaling so segments with structurally different
// cadence (New vs High-Value) are scored on a comparable relative scale.
// Band cutpoints are percentiles of this run's score distribution within
// the segment, recomputed every run.
func ScoreCustomers(cfg *contract.Config, features []schema.CustomerFeatures, segments map[string]schema.Segment) ([]schema.CustomerResult, map[schema.Segment]schema.BandCutpoints) {
	inputs := make([]riskInputs, len(features))
	for i, f := range features {
		inputs[i] = riskInputs{
			recency:    float64(f.RecencyDays),
			frequency:  float64(f.Frequency),
			trend:      f.Trend,
			returnRate: f.ReturnRate,
		}
	}

	bySegment := make(map[schema.Segment][]int)
	for i, f := range features {
		seg := segments[f.CustomerID]
		bySegment[seg] = append(bySegment[seg], i)
	}

	globalRange := rangeOver(inputs, allIndices(len(inputs)))
	segmentRanges := make(map[schema.Segment]featureRange, len(bySegment))
	for seg, idxs := range bySegment {
		segmentRanges[seg] = resolveRange(rangeOver(inputs, idxs), globalRange)
	}

	results := make([]schema.CustomerResult, len(features))
	for i, f := range features {
		seg := segments[f.CustomerID]
		score, breakdown := computeScore(cfg.Weights, inputs[i], segmentRanges[seg])
		results[i] = schema.CustomerResult{
			CustomerID: f.CustomerID,
			Features:   f,
			Segment:    seg,
			RiskScore:  score,
			Breakdown:  breakdown,
		}
	}

	cutpoints := bandCutpoints(cfg, results, bySegment)
	for i := range results {
		results[i].RiskBand = bandFor(results[i].RiskScore, cutpoints[results[i].Segment])
	}
	return results, cutpoints
}

// computeScore calculates one customer's churn-risk score (0-1) as the
// weighted sum of min-max scaled features. Frequency and trend are
// inverted: fewer orders and declining spend mean more risk. The weighted
// contribution of each feature is kept in the breakdown for explain mode.
func computeScore(weights map[schema.FeatureKey]float64, in riskInputs, r featureRange) (float64, map[schema.FeatureKey]float64) {
	nRecency := algo.Scale01(in.recency, r.lo[schema.RecencyFeature], r.hi[schema.RecencyFeature])
	nFrequency := 1.0 - algo.Scale01(in.frequency, r.lo[schema.FrequencyFeature], r.hi[schema.FrequencyFeature])
	nTrend := 1.0 - algo.Scale01(in.trend, r.lo[schema.TrendFeature], r.hi[schema.TrendFeature])
	nReturn := algo.Scale01(in.returnRate, r.lo[schema.ReturnFeature], r.hi[schema.ReturnFeature])

	// An inverted feature over a degenerate range would pin everyone at
	// maximum risk; a flat population carries no signal, so it contributes 0.
	if r.hi[schema.FrequencyFeature] <= r.lo[schema.FrequencyFeature] {
		nFrequency = 0
	}
	if r.hi[schema.TrendFeature] <= r.lo[schema.TrendFeature] {
		nTrend = 0
	}

	breakdown := map[schema.FeatureKey]float64{
		schema.RecencyFeature:   weights[schema.RecencyFeature] * nRecency,
		schema.FrequencyFeature: weights[schema.FrequencyFeature] * nFrequency,
		schema.TrendFeature:     weights[schema.TrendFeature] * nTrend,
		schema.ReturnFeature:    weights[schema.ReturnFeature] * nReturn,
	}

	// Sum in canonical feature order; map iteration order would make the
	// float addition order, and therefore the low bits, vary between runs.
	var score float64
	for _, key := range schema.AllFeatures {
		score += breakdown[key]
	}
	return algo.Clamp01(score), breakdown
}

// bandCutpoints computes the per-segment percentile cutpoints separating
// the four bands. A segment below the minimum banding population borrows
// the whole run's score distribution; both paths stay relative to the
// current run, never absolute cutoffs.
func bandCutpoints(cfg *contract.Config, results []schema.CustomerResult, bySegment map[schema.Segment][]int) map[schema.Segment]schema.BandCutpoints {
	allScores := make([]float64, len(results))
	for i, r := range results {
		allScores[i] = r.RiskScore
	}

	cutpoints := make(map[schema.Segment]schema.BandCutpoints, len(bySegment))
	for seg, idxs := range bySegment {
		scores := allScores
		if len(idxs) >= cfg.MinBandPopulation {
			scores = make([]float64, len(idxs))
			for i, idx := range idxs {
				scores[i] = results[idx].RiskScore
			}
		}
		var cuts schema.BandCutpoints
		for i, p := range cfg.BandCutpoints {
			cuts[i] = algo.Quantile(scores, p)
		}
		cutpoints[seg] = cuts
	}
	return cutpoints
}

// bandFor maps a score onto a band given the segment's cutpoints. A score
// sitting exactly on a cutpoint resolves to the higher band.
func bandFor(score float64, cuts schema.BandCutpoints) schema.RiskBand {
	switch {
	case score < cuts[0]:
		return schema.LowBand
	case score < cuts[1]:
		return schema.MediumBand
	case score < cuts[2]:
		return schema.HighBand
	default:
		return schema.CriticalBand
	}
}

// rangeOver computes per-feature min and max over the given indices.
func rangeOver(inputs []riskInputs, idxs []int) featureRange {
	r := featureRange{
		lo: make(map[schema.FeatureKey]float64, 4),
		hi: make(map[schema.FeatureKey]float64, 4),
	}
	extract := map[schema.FeatureKey]func(riskInputs) float64{
		schema.RecencyFeature:   func(in riskInputs) float64 { return in.recency },
		schema.FrequencyFeature: func(in riskInputs) float64 { return in.frequency },
		schema.TrendFeature:     func(in riskInputs) float64 { return in.trend },
		schema.ReturnFeature:    func(in riskInputs) float64 { return in.returnRate },
	}
	for key, get := range extract {
		values := make([]float64, len(idxs))
		for i, idx := range idxs {
			values[i] = get(inputs[idx])
		}
		r.lo[key], r.hi[key] = algo.MinMax(values)
	}
	return r
}

// resolveRange widens degenerate per-segment feature ranges to the global
// range. A segment where every member shares a value (common for tiny
// segments) would otherwise normalize to zero spread.
func resolveRange(segRange, globalRange featureRange) featureRange {
	resolved := featureRange{
		lo: make(map[schema.FeatureKey]float64, 4),
		hi: make(map[schema.FeatureKey]float64, 4),
	}
	for _, key := range schema.AllFeatures {
		if segRange.hi[key] > segRange.lo[key] {
			resolved.lo[key], resolved.hi[key] = segRange.lo[key], segRange.hi[key]
		} else {
			resolved.lo[key], resolved.hi[key] = globalRange.lo[key], globalRange.hi[key]
		}
	}
	return resolved
}

func allIndices(n int) []int {
	idxs := make([]int, n)
	for i := range idxs {
		idxs[i] = i
	}
	return idxs
}
