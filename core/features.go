package core

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/avendano/churnscope/core/algo"
	"github.com/avendano/churnscope/internal/contract"
	"github.com/avendano/churnscope/schema"
)

// customerHistory collects one customer's in-window transactions before
// feature aggregation.
type customerHistory struct {
	customerID string
	rows       []schema.Transaction
}

// BuildFeatures aggregates raw transactions into one CustomerFeatures per
// distinct customer with at least one in-window order. Customers whose only
// in-window activity is returns, and customers whose features come out
// non-finite, land in the skipped list with a reason code; they never abort
// the batch.
func BuildFeatures(cfg *contract.Config, txs []schema.Transaction) ([]schema.CustomerFeatures, []schema.SkippedRecord) {
	windowStart := cfg.AsOf.AddDate(0, 0, -cfg.WindowDays)

	var skipped []schema.SkippedRecord
	grouped := make(map[string][]schema.Transaction)
	for _, tx := range txs {
		if tx.CustomerID == "" {
			skipped = append(skipped, schema.SkippedRecord{
				Reason: schema.SkipMissingID,
				Detail: "transaction without customer identifier",
			})
			continue
		}
		if tx.Timestamp.IsZero() {
			skipped = append(skipped, schema.SkippedRecord{
				CustomerID: tx.CustomerID,
				Reason:     schema.SkipBadTimestamp,
				Detail:     "transaction without timestamp",
			})
			continue
		}
		if math.IsNaN(tx.Amount) || math.IsInf(tx.Amount, 0) {
			skipped = append(skipped, schema.SkippedRecord{
				CustomerID: tx.CustomerID,
				Reason:     schema.SkipBadAmount,
				Detail:     "transaction amount is not finite",
			})
			continue
		}
		if tx.Timestamp.Before(windowStart) || tx.Timestamp.After(cfg.AsOf) {
			continue // outside the trailing window
		}
		grouped[tx.CustomerID] = append(grouped[tx.CustomerID], tx)
	}

	histories := make([]customerHistory, 0, len(grouped))
	for id, rows := range grouped {
		histories = append(histories, customerHistory{customerID: id, rows: rows})
	}
	sort.Slice(histories, func(i, j int) bool {
		return histories[i].customerID < histories[j].customerID
	})

	// Customers are independent, so feature computation fans out over a
	// worker pool. Results land in pre-assigned slots to keep output
	// deterministic regardless of scheduling.
	type slot struct {
		features schema.CustomerFeatures
		skip     *schema.SkippedRecord
	}
	slots := make([]slot, len(histories))
	indexCh := make(chan int, len(histories))
	var wg sync.WaitGroup

	for range cfg.Workers {
		wg.Go(func() {
			for i := range indexCh {
				features, err := buildCustomerFeatures(cfg, histories[i])
				if err != nil {
					slots[i].skip = &schema.SkippedRecord{
						CustomerID: err.CustomerID,
						Reason:     err.Reason,
						Detail:     err.Msg,
					}
					continue
				}
				slots[i].features = features
			}
		})
	}
	for i := range histories {
		indexCh <- i
	}
	close(indexCh)
	wg.Wait()

	features := make([]schema.CustomerFeatures, 0, len(histories))
	for _, s := range slots {
		if s.skip != nil {
			skipped = append(skipped, *s.skip)
			continue
		}
		features = append(features, s.features)
	}
	return features, skipped
}

// buildCustomerFeatures derives the feature record for one customer from
// their in-window transactions.
func buildCustomerFeatures(cfg *contract.Config, h customerHistory) (schema.CustomerFeatures, *contract.ComputationError) {
	var (
		orders       int
		returns      int
		gross        float64
		returned     float64
		lastPurchase time.Time
	)
	for _, tx := range h.rows {
		if tx.IsReturn {
			returns++
			returned += math.Abs(tx.Amount)
			continue
		}
		orders++
		gross += tx.Amount
		if tx.Timestamp.After(lastPurchase) {
			lastPurchase = tx.Timestamp
		}
	}

	// Return-only activity means zero orders, which leaves the return rate
	// undefined. Those customers are a terminal state, not a scoring input.
	if orders == 0 {
		return schema.CustomerFeatures{}, contract.NewComputationError(
			h.customerID, schema.SkipNoOrders, "no orders inside the trailing window")
	}

	monetary := gross - returned
	features := schema.CustomerFeatures{
		CustomerID:   h.customerID,
		RecencyDays:  int(cfg.AsOf.Sub(lastPurchase).Hours() / 24),
		Frequency:    orders,
		Monetary:     monetary,
		AvgSpend:     monetary / float64(orders),
		ReturnRate:   float64(returns) / float64(orders),
		Trend:        spendTrend(cfg, h.rows),
		LastPurchase: lastPurchase,
	}

	for _, v := range []float64{features.Monetary, features.AvgSpend, features.ReturnRate, features.Trend} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return schema.CustomerFeatures{}, contract.NewComputationError(
				h.customerID, schema.SkipNonFinite, "derived feature is not finite")
		}
	}
	return features, nil
}

// spendTrend fits net spend per sub-period over the trailing window and
// returns the least-squares slope. Fewer than 2 sub-periods with activity
// degrade gracefully to a slope of 0.
func spendTrend(cfg *contract.Config, rows []schema.Transaction) float64 {
	periods := cfg.TrendPeriods
	windowStart := cfg.AsOf.AddDate(0, 0, -cfg.WindowDays)
	periodLen := cfg.AsOf.Sub(windowStart) / time.Duration(periods)
	if periodLen <= 0 {
		return 0
	}

	spend := make([]float64, periods)
	seen := make([]bool, periods)
	for _, tx := range rows {
		idx := int(tx.Timestamp.Sub(windowStart) / periodLen)
		if idx < 0 {
			continue
		}
		if idx >= periods {
			idx = periods - 1 // the as-of instant falls into the last bucket
		}
		if tx.IsReturn {
			spend[idx] -= math.Abs(tx.Amount)
		} else {
			spend[idx] += tx.Amount
		}
		seen[idx] = true
	}

	var xs, ys []float64
	for i := range periods {
		if seen[i] {
			xs = append(xs, float64(i))
			ys = append(ys, spend[i])
		}
	}
	if len(xs) < 2 {
		return 0
	}
	return algo.Slope(xs, ys)
}
