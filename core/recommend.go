package core

import (
	"github.com/avendano/churnscope/core/algo"
	"github.com/avendano/churnscope/internal/contract"
	"github.com/avendano/churnscope/schema"
)

// BuildPlans prices the configured action table against each (segment,
// band) cell and orders the actions by descending expected ROI. The table
// is validated against the full cross-product at configuration load, but a
// hole found here still fails loudly rather than silently skipping a cell.
func BuildPlans(cfg *contract.Config, cells []schema.CellAggregate) ([]schema.CellPlan, error) {
	plans := make([]schema.CellPlan, 0, len(cells))
	for _, cell := range cells {
		actions, ok := cfg.ActionTable[cell.Segment][cell.Band]
		if !ok || len(actions) == 0 {
			return nil, contract.NewConfigurationError("actions", "no actions defined for (%s, %s)", cell.Segment, cell.Band)
		}

		ranked := make([]schema.RankedAction, len(actions))
		for i, a := range actions {
			totalCost := a.UnitCost * float64(cell.Customers)
			recovery := cell.ExpectedLoss * a.Effect
			ranked[i] = schema.RankedAction{
				Action:           a,
				TotalCost:        totalCost,
				ExpectedRecovery: recovery,
				ROI:              roiFor(recovery, totalCost),
			}
		}
		algo.OrderActions(ranked)

		plans = append(plans, schema.CellPlan{
			Segment:      cell.Segment,
			Band:         cell.Band,
			Customers:    cell.Customers,
			ExpectedLoss: cell.ExpectedLoss,
			Actions:      ranked,
		})
	}
	return plans, nil
}
