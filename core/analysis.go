package core

import (
	"context"
	"sort"

	"github.com/avendano/churnscope/internal/contract"
	"github.com/avendano/churnscope/schema"
)

// RunAnalysis executes the five pipeline stages over the given
// transactions: features, segments, scores, revenue impact,
// recommendations. Data flows strictly forward; each stage completes fully
// before the next begins, and the context is checked at every stage
// boundary so a caller can abort between stages and safely discard partial
// results.
func RunAnalysis(ctx context.Context, cfg *contract.Config, txs []schema.Transaction) (*schema.AnalysisResult, error) {
	if len(txs) == 0 {
		return nil, contract.NewValidationError("transaction dataset is empty")
	}

	// --- 1. Feature building ---
	features, skipped := BuildFeatures(cfg, txs)
	if len(features) == 0 {
		return nil, contract.NewValidationError("no customers with orders inside the %d-day window ending %s",
			cfg.WindowDays, cfg.AsOf.Format(contract.DateOnlyFormat))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// --- 2. Segmentation ---
	segments, segmentCuts := AssignSegments(cfg, features)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// --- 3. Risk scoring and banding ---
	customers, bandCuts := ScoreCustomers(cfg, features, segments)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// --- 4. Revenue impact ---
	cells := EstimateImpact(cfg, customers)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// --- 5. Recommendations ---
	plans, err := BuildPlans(cfg, cells)
	if err != nil {
		return nil, err
	}

	sort.Slice(customers, func(i, j int) bool {
		return customers[i].CustomerID < customers[j].CustomerID
	})

	population := make(map[schema.Segment]int, len(schema.AllSegments))
	for _, seg := range schema.AllSegments {
		population[seg] = 0
	}
	for _, c := range customers {
		population[c.Segment]++
	}

	return &schema.AnalysisResult{
		AsOf:              cfg.AsOf,
		WindowDays:        cfg.WindowDays,
		Customers:         customers,
		Cells:             cells,
		Plans:             plans,
		Skipped:           skipped,
		SegmentCutpoints:  segmentCuts,
		BandCutpoints:     bandCuts,
		SegmentPopulation: population,
	}, nil
}
