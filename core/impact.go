package core

import (
	"github.com/avendano/churnscope/internal/contract"
	"github.com/avendano/churnscope/schema"
)

// EstimateImpact fills in each customer's revenue figures and aggregates
// them per (segment, band) cell. Every cell of the cross-product is
// reported, including empty ones, which carry zero sums and a nil ROI —
// never a division by zero.
func EstimateImpact(cfg *contract.Config, results []schema.CustomerResult) []schema.CellAggregate {
	for i := range results {
		r := &results[i]
		intervention := cfg.Interventions[r.Segment]

		r.ExpectedLoss = r.Features.Monetary * r.RiskScore
		r.InterventionCost = intervention.Cost
		r.ExpectedRecovery = r.ExpectedLoss * intervention.RecoveryProbability
		r.ROI = roiFor(r.ExpectedRecovery, r.InterventionCost)
	}

	index := make(map[schema.Segment]map[schema.RiskBand]*schema.CellAggregate)
	cells := make([]schema.CellAggregate, 0, len(schema.AllSegments)*len(schema.AllRiskBands))
	for _, seg := range schema.AllSegments {
		index[seg] = make(map[schema.RiskBand]*schema.CellAggregate, len(schema.AllRiskBands))
		for _, band := range schema.AllRiskBands {
			cells = append(cells, schema.CellAggregate{Segment: seg, Band: band})
			index[seg][band] = &cells[len(cells)-1]
		}
	}

	for _, r := range results {
		cell := index[r.Segment][r.RiskBand]
		cell.Customers++
		cell.ExpectedLoss += r.ExpectedLoss
		cell.InterventionCost += r.InterventionCost
		cell.ExpectedRecovery += r.ExpectedRecovery
	}
	for i := range cells {
		cells[i].ROI = roiFor(cells[i].ExpectedRecovery, cells[i].InterventionCost)
	}
	return cells
}

// roiFor computes (recovery - cost) / cost, or nil when cost is zero. ROI
// is undefined without spend; reporting 0 or +Inf would misrank actions.
func roiFor(recovery, cost float64) *float64 {
	if cost == 0 {
		return nil
	}
	return schema.Float64Ptr((recovery - cost) / cost)
}
