package algo

import (
	"sort"

	"github.com/avendano/churnscope/schema"
)

// RankCustomers sorts customers by expected loss in descending order and
// returns the top 'limit' entries. If limit is greater than the number of
// customers, all are returned in sorted order. Ties break on customer ID so
// the ranking is deterministic.
func RankCustomers(customers []schema.CustomerResult, limit int) []schema.CustomerResult {
	sort.Slice(customers, func(i, j int) bool {
		if customers[i].ExpectedLoss != customers[j].ExpectedLoss {
			return customers[i].ExpectedLoss > customers[j].ExpectedLoss
		}
		return customers[i].CustomerID < customers[j].CustomerID
	})
	if len(customers) > limit {
		return customers[:limit]
	}
	return customers
}

// OrderActions sorts a cell's priced actions by descending expected ROI.
// Actions without a defined ROI (zero cost or empty cell) sort last; ties
// break on action name.
func OrderActions(actions []schema.RankedAction) {
	sort.Slice(actions, func(i, j int) bool {
		ri, rj := actions[i].ROI, actions[j].ROI
		switch {
		case ri == nil && rj == nil:
			return actions[i].Name < actions[j].Name
		case ri == nil:
			return false
		case rj == nil:
			return true
		case *ri != *rj:
			return *ri > *rj
		default:
			return actions[i].Name < actions[j].Name
		}
	})
}
