package algo

import (
	"testing"

	"github.com/avendano/churnscope/schema"
	"github.com/stretchr/testify/assert"
)

func TestRankCustomers(t *testing.T) {
	customers := []schema.CustomerResult{
		{CustomerID: "C1", ExpectedLoss: 10},
		{CustomerID: "C2", ExpectedLoss: 300},
		{CustomerID: "C3", ExpectedLoss: 50},
	}

	ranked := RankCustomers(customers, 2)
	assert.Len(t, ranked, 2)
	assert.Equal(t, "C2", ranked[0].CustomerID)
	assert.Equal(t, "C3", ranked[1].CustomerID)
}

func TestRankCustomersTieBreaksOnID(t *testing.T) {
	customers := []schema.CustomerResult{
		{CustomerID: "B", ExpectedLoss: 100},
		{CustomerID: "A", ExpectedLoss: 100},
	}

	ranked := RankCustomers(customers, 10)
	assert.Equal(t, "A", ranked[0].CustomerID)
	assert.Equal(t, "B", ranked[1].CustomerID)
}

func TestRankCustomersLimitBeyondLength(t *testing.T) {
	customers := []schema.CustomerResult{{CustomerID: "A", ExpectedLoss: 1}}
	ranked := RankCustomers(customers, 25)
	assert.Len(t, ranked, 1)
}

func TestOrderActions(t *testing.T) {
	roi := func(v float64) *float64 { return &v }
	actions := []schema.RankedAction{
		{Action: schema.Action{Name: "call"}, ROI: roi(0.5)},
		{Action: schema.Action{Name: "email"}, ROI: roi(2.0)},
		{Action: schema.Action{Name: "gift"}, ROI: nil},
		{Action: schema.Action{Name: "promo"}, ROI: roi(2.0)},
	}

	OrderActions(actions)

	assert.Equal(t, "email", actions[0].Name)
	assert.Equal(t, "promo", actions[1].Name) // tie with email, name order
	assert.Equal(t, "call", actions[2].Name)
	assert.Equal(t, "gift", actions[3].Name) // nil ROI sorts last
}

func TestOrderActionsAllNil(t *testing.T) {
	actions := []schema.RankedAction{
		{Action: schema.Action{Name: "b"}},
		{Action: schema.Action{Name: "a"}},
	}
	OrderActions(actions)
	assert.Equal(t, "a", actions[0].Name)
	assert.Equal(t, "b", actions[1].Name)
}
