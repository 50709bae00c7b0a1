package core

import (
	"time"

	"github.com/avendano/churnscope/internal/contract"
	"github.com/avendano/churnscope/schema"
)

// testAsOf is a fixed reference date so feature math never depends on the
// wall clock.
var testAsOf = time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

// testConfig returns a fully populated config with default analysis
// parameters, mirroring what ProcessAndValidate produces with no overrides.
func testConfig() *contract.Config {
	return &contract.Config{
		AsOf:              testAsOf,
		WindowDays:        schema.DefaultWindowDays,
		TrendPeriods:      schema.DefaultTrendPeriods,
		SegmentHighQ:      schema.DefaultSegmentHighQ,
		SegmentMediumQ:    schema.DefaultSegmentMediumQ,
		Weights:           schema.GetDefaultWeights(),
		BandCutpoints:     schema.DefaultBandCutpoints,
		MinBandPopulation: schema.DefaultMinBandPopulation,
		Interventions:     schema.GetDefaultInterventions(),
		ActionTable:       schema.GetDefaultActionTable(),
		Workers:           2,
		ResultLimit:       contract.DefaultResultLimit,
		Precision:         contract.DefaultPrecision,
		Output:            schema.TextOut,
	}
}

// order builds a purchase transaction n days before the test as-of date.
func order(customerID string, daysAgo int, amount float64) schema.Transaction {
	return schema.Transaction{
		CustomerID: customerID,
		Timestamp:  testAsOf.AddDate(0, 0, -daysAgo),
		Amount:     amount,
	}
}

// refund builds a return transaction n days before the test as-of date.
func refund(customerID string, daysAgo int, amount float64) schema.Transaction {
	tx := order(customerID, daysAgo, amount)
	tx.IsReturn = true
	return tx
}
