package core

import (
	"testing"

	"github.com/avendano/churnscope/schema"
	"github.com/stretchr/testify/assert"
)

func makeFeatures(monetary []float64, frequency []int) []schema.CustomerFeatures {
	features := make([]schema.CustomerFeatures, len(monetary))
	for i := range monetary {
		features[i] = schema.CustomerFeatures{
			CustomerID: string(rune('A' + i)),
			Monetary:   monetary[i],
			Frequency:  frequency[i],
		}
	}
	return features
}

func TestAssignSegmentsQuantileCuts(t *testing.T) {
	cfg := testConfig()
	features := makeFeatures(
		[]float64{50, 1200, 5000},
		[]int{1, 5, 10},
	)

	segments, cuts := AssignSegments(cfg, features)

	assert.InDelta(t, 3100.0, cuts.MonetaryHigh, 0.001)
	assert.InDelta(t, 970.0, cuts.MonetaryMedium, 0.001)
	assert.InDelta(t, 7.5, cuts.FrequencyHigh, 0.001)
	assert.InDelta(t, 4.2, cuts.FrequencyMedium, 0.001)

	assert.Equal(t, schema.NewSegment, segments["A"])
	assert.Equal(t, schema.MediumValueSegment, segments["B"])
	assert.Equal(t, schema.HighValueSegment, segments["C"])
}

func TestAssignSegmentsTakesHigherOfTwoDimensions(t *testing.T) {
	cfg := testConfig()
	// Customer D spends little but orders constantly; frequency should win.
	features := makeFeatures(
		[]float64{100, 200, 5000, 150},
		[]int{1, 2, 3, 50},
	)

	segments, _ := AssignSegments(cfg, features)
	assert.Equal(t, schema.HighValueSegment, segments["D"])
	assert.Equal(t, schema.HighValueSegment, segments["C"])
}

func TestAssignSegmentsBoundaryPromotes(t *testing.T) {
	cfg := testConfig()
	features := makeFeatures(
		[]float64{100, 200, 300, 400, 500},
		[]int{1, 1, 1, 1, 1},
	)

	segments, cuts := AssignSegments(cfg, features)

	// 400 sits exactly on the 0.75 monetary quantile; ties resolve upward
	assert.InDelta(t, 400.0, cuts.MonetaryHigh, 0.001)
	assert.Equal(t, schema.HighValueSegment, segments["D"])
}

func TestAssignSegmentsUniformPopulation(t *testing.T) {
	cfg := testConfig()
	// All identical: every cut equals the shared value, so everyone ties
	// upward into High-Value. One degenerate tier, never a crash.
	features := makeFeatures(
		[]float64{100, 100, 100},
		[]int{2, 2, 2},
	)

	segments, _ := AssignSegments(cfg, features)
	for id, seg := range segments {
		assert.Equal(t, schema.HighValueSegment, seg, "customer %s", id)
	}
}
