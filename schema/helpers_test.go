package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaxSegment(t *testing.T) {
	assert.Equal(t, HighValueSegment, MaxSegment(NewSegment, HighValueSegment))
	assert.Equal(t, HighValueSegment, MaxSegment(HighValueSegment, MediumValueSegment))
	assert.Equal(t, MediumValueSegment, MaxSegment(MediumValueSegment, MediumValueSegment))
}

func TestSegmentAndBandRanks(t *testing.T) {
	for i, seg := range AllSegments {
		assert.Equal(t, i, SegmentRank(seg))
	}
	for i, band := range AllRiskBands {
		assert.Equal(t, i, BandRank(band))
	}
}

func TestParseSegment(t *testing.T) {
	tests := []struct {
		input    string
		expected Segment
		wantErr  bool
	}{
		{input: "high", expected: HighValueSegment},
		{input: "High-Value", expected: HighValueSegment},
		{input: "  MEDIUM  ", expected: MediumValueSegment},
		{input: "new", expected: NewSegment},
		{input: "platinum", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			seg, err := ParseSegment(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, seg)
		})
	}
}

func TestParseRiskBand(t *testing.T) {
	band, err := ParseRiskBand(" Critical ")
	require.NoError(t, err)
	assert.Equal(t, CriticalBand, band)

	_, err = ParseRiskBand("extreme")
	assert.Error(t, err)
}

func TestDefaultActionTableCoversCrossProduct(t *testing.T) {
	table := GetDefaultActionTable()
	for _, seg := range AllSegments {
		require.Contains(t, table, seg)
		for _, band := range AllRiskBands {
			actions := table[seg][band]
			require.NotEmpty(t, actions, "(%s, %s)", seg, band)
			for _, a := range actions {
				assert.NotEmpty(t, a.Name)
				assert.GreaterOrEqual(t, a.UnitCost, 0.0)
				assert.GreaterOrEqual(t, a.Effect, 0.0)
				assert.LessOrEqual(t, a.Effect, 1.0)
			}
		}
	}
}

func TestDefaultWeightsSumToOne(t *testing.T) {
	var sum float64
	for _, w := range GetDefaultWeights() {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestAnalysisResultLookups(t *testing.T) {
	result := &AnalysisResult{
		Customers: []CustomerResult{
			{CustomerID: "A", ExpectedLoss: 100},
			{CustomerID: "B", ExpectedLoss: 250},
		},
		Cells: []CellAggregate{
			{Segment: HighValueSegment, Band: CriticalBand, Customers: 2},
		},
		Plans: []CellPlan{
			{Segment: HighValueSegment, Band: CriticalBand},
		},
	}

	assert.InDelta(t, 350.0, result.TotalExpectedLoss(), 0.001)

	cell := result.CellFor(HighValueSegment, CriticalBand)
	require.NotNil(t, cell)
	assert.Equal(t, 2, cell.Customers)
	assert.Nil(t, result.CellFor(NewSegment, LowBand))

	require.NotNil(t, result.PlanFor(HighValueSegment, CriticalBand))
	assert.Nil(t, result.PlanFor(NewSegment, LowBand))
}
