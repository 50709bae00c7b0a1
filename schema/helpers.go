package schema

import (
	"fmt"
	"strings"
)

// segmentRank orders segments from lowest to highest value tier.
var segmentRank = map[Segment]int{
	NewSegment:         0,
	MediumValueSegment: 1,
	HighValueSegment:   2,
}

// bandRank orders risk bands from least to most urgent.
var bandRank = map[RiskBand]int{
	LowBand:      0,
	MediumBand:   1,
	HighBand:     2,
	CriticalBand: 3,
}

// SegmentRank returns the ordinal position of a segment (New=0 .. High=2).
func SegmentRank(s Segment) int {
	return segmentRank[s]
}

// BandRank returns the ordinal position of a band (Low=0 .. Critical=3).
func BandRank(b RiskBand) int {
	return bandRank[b]
}

// MaxSegment returns the higher-valued of two segments.
func MaxSegment(a, b Segment) Segment {
	if segmentRank[a] >= segmentRank[b] {
		return a
	}
	return b
}

// ParseSegment converts user input into a Segment, accepting both the enum
// value and the display label.
func ParseSegment(s string) (Segment, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	for _, seg := range AllSegments {
		if normalized == string(seg) || normalized == strings.ToLower(SegmentLabels[seg]) {
			return seg, nil
		}
	}
	return "", fmt.Errorf("unknown segment %q (expected one of: new, medium, high)", s)
}

// ParseRiskBand converts user input into a RiskBand.
func ParseRiskBand(s string) (RiskBand, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	for _, band := range AllRiskBands {
		if normalized == string(band) {
			return band, nil
		}
	}
	return "", fmt.Errorf("unknown risk band %q (expected one of: low, medium, high, critical)", s)
}

// Float64Ptr returns a pointer to v. Used for nullable ROI values.
func Float64Ptr(v float64) *float64 {
	return &v
}

// TotalExpectedLoss sums the expected loss over all customers in the result.
func (r *AnalysisResult) TotalExpectedLoss() float64 {
	var total float64
	for _, c := range r.Customers {
		total += c.ExpectedLoss
	}
	return total
}

// CellFor returns the aggregate for a (segment, band) cell, or nil when the
// result carries no such cell.
func (r *AnalysisResult) CellFor(seg Segment, band RiskBand) *CellAggregate {
	for i := range r.Cells {
		if r.Cells[i].Segment == seg && r.Cells[i].Band == band {
			return &r.Cells[i]
		}
	}
	return nil
}

// PlanFor returns the action plan for a (segment, band) cell, or nil.
func (r *AnalysisResult) PlanFor(seg Segment, band RiskBand) *CellPlan {
	for i := range r.Plans {
		if r.Plans[i].Segment == seg && r.Plans[i].Band == band {
			return &r.Plans[i]
		}
	}
	return nil
}
