package core

import (
	"math"
	"testing"

	"github.com/avendano/churnscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFeaturesBasicAggregation(t *testing.T) {
	cfg := testConfig()
	txs := []schema.Transaction{
		order("C1", 10, 100),
		order("C1", 40, 200),
		order("C1", 70, 300),
		refund("C1", 5, 50),
	}

	features, skipped := BuildFeatures(cfg, txs)
	require.Len(t, features, 1)
	assert.Empty(t, skipped)

	f := features[0]
	assert.Equal(t, "C1", f.CustomerID)
	assert.Equal(t, 10, f.RecencyDays)
	assert.Equal(t, 3, f.Frequency)
	assert.InDelta(t, 550.0, f.Monetary, 0.001) // 600 gross - 50 returned
	assert.InDelta(t, 550.0/3, f.AvgSpend, 0.001)
	assert.InDelta(t, 1.0/3, f.ReturnRate, 0.001)
	assert.Equal(t, testAsOf.AddDate(0, 0, -10), f.LastPurchase)
}

func TestBuildFeaturesNegativeReturnAmount(t *testing.T) {
	// Some exports encode returns as negative amounts; magnitude is what counts.
	cfg := testConfig()
	txs := []schema.Transaction{
		order("C1", 10, 100),
		refund("C1", 5, -40),
	}

	features, _ := BuildFeatures(cfg, txs)
	require.Len(t, features, 1)
	assert.InDelta(t, 60.0, features[0].Monetary, 0.001)
}

func TestBuildFeaturesWindowFilter(t *testing.T) {
	cfg := testConfig()
	cfg.WindowDays = 90
	txs := []schema.Transaction{
		order("C1", 10, 100),
		order("C1", 91, 999), // outside the 90-day window
	}

	features, skipped := BuildFeatures(cfg, txs)
	require.Len(t, features, 1)
	assert.Empty(t, skipped)
	assert.Equal(t, 1, features[0].Frequency)
	assert.InDelta(t, 100.0, features[0].Monetary, 0.001)
}

func TestBuildFeaturesFutureTransactionsExcluded(t *testing.T) {
	cfg := testConfig()
	txs := []schema.Transaction{
		order("C1", 10, 100),
		order("C1", -5, 500), // after the as-of date
	}

	features, _ := BuildFeatures(cfg, txs)
	require.Len(t, features, 1)
	assert.Equal(t, 1, features[0].Frequency)
}

func TestBuildFeaturesReturnOnlyCustomerSkipped(t *testing.T) {
	cfg := testConfig()
	txs := []schema.Transaction{
		order("C1", 10, 100),
		refund("C2", 20, 30),
	}

	features, skipped := BuildFeatures(cfg, txs)
	require.Len(t, features, 1)
	assert.Equal(t, "C1", features[0].CustomerID)

	require.Len(t, skipped, 1)
	assert.Equal(t, "C2", skipped[0].CustomerID)
	assert.Equal(t, schema.SkipNoOrders, skipped[0].Reason)
}

func TestBuildFeaturesRowGuards(t *testing.T) {
	cfg := testConfig()
	tests := []struct {
		name   string
		tx     schema.Transaction
		reason schema.SkipReason
	}{
		{
			name:   "missing customer ID",
			tx:     schema.Transaction{Timestamp: testAsOf, Amount: 10},
			reason: schema.SkipMissingID,
		},
		{
			name:   "zero timestamp",
			tx:     schema.Transaction{CustomerID: "C9", Amount: 10},
			reason: schema.SkipBadTimestamp,
		},
		{
			name:   "NaN amount",
			tx:     schema.Transaction{CustomerID: "C9", Timestamp: testAsOf, Amount: math.NaN()},
			reason: schema.SkipBadAmount,
		},
		{
			name:   "infinite amount",
			tx:     schema.Transaction{CustomerID: "C9", Timestamp: testAsOf, Amount: math.Inf(1)},
			reason: schema.SkipBadAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			features, skipped := BuildFeatures(cfg, []schema.Transaction{tt.tx})
			assert.Empty(t, features)
			require.Len(t, skipped, 1)
			assert.Equal(t, tt.reason, skipped[0].Reason)
		})
	}
}

func TestBuildFeaturesDeterministicOrder(t *testing.T) {
	cfg := testConfig()
	cfg.Workers = 4
	txs := []schema.Transaction{
		order("C3", 10, 30),
		order("C1", 10, 10),
		order("C2", 10, 20),
	}

	for range 5 {
		features, _ := BuildFeatures(cfg, txs)
		require.Len(t, features, 3)
		assert.Equal(t, "C1", features[0].CustomerID)
		assert.Equal(t, "C2", features[1].CustomerID)
		assert.Equal(t, "C3", features[2].CustomerID)
	}
}

func TestSpendTrendDirection(t *testing.T) {
	cfg := testConfig()

	// Spend growing toward the as-of date
	growing := []schema.Transaction{
		order("C1", 320, 100),
		order("C1", 230, 200),
		order("C1", 140, 300),
		order("C1", 50, 400),
	}
	features, _ := BuildFeatures(cfg, growing)
	require.Len(t, features, 1)
	assert.Greater(t, features[0].Trend, 0.0)

	// Spend collapsing toward the as-of date
	declining := []schema.Transaction{
		order("C2", 320, 400),
		order("C2", 230, 300),
		order("C2", 140, 200),
		order("C2", 50, 100),
	}
	features, _ = BuildFeatures(cfg, declining)
	require.Len(t, features, 1)
	assert.Less(t, features[0].Trend, 0.0)
}

func TestSpendTrendSinglePeriodIsZero(t *testing.T) {
	cfg := testConfig()
	txs := []schema.Transaction{order("C1", 10, 100), order("C1", 12, 200)}

	features, _ := BuildFeatures(cfg, txs)
	require.Len(t, features, 1)
	assert.Zero(t, features[0].Trend)
}
