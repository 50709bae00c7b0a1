package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/avendano/churnscope/core"
	"github.com/avendano/churnscope/core/algo"
	"github.com/avendano/churnscope/internal/contract"
	"github.com/avendano/churnscope/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
}

// applyCommonArgs clones the base config and overrides the shared analysis
// parameters from the request.
func (h *toolHandler) applyCommonArgs(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("transactions", ""); p != "" {
		cfg.TransactionsPath = p
		cfg.InputBackend = schema.CSVInput
	}
	if a := request.GetString("as_of", ""); a != "" {
		asOf, err := time.Parse(contract.DateOnlyFormat, a)
		if err != nil {
			return nil, fmt.Errorf("invalid as_of date %q: expected YYYY-MM-DD", a)
		}
		cfg.AsOf = asOf.UTC()
	}
	if w := request.GetInt("window_days", 0); w > 0 {
		cfg.WindowDays = w
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}
	return cfg, nil
}

func (h *toolHandler) handleAnalyzeChurn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.applyCommonArgs(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := core.GetTrackedAnalysisResult(core.WithSuppressHeader(ctx), cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	type rankedCustomer struct {
		Rank  int    `json:"rank"`
		Label string `json:"label"`
		schema.CustomerResult
	}
	ranked := algo.RankCustomers(result.Customers, cfg.ResultLimit)
	enriched := make([]rankedCustomer, len(ranked))
	for i, c := range ranked {
		enriched[i] = rankedCustomer{
			Rank:           i + 1,
			Label:          contract.GetPlainBandLabel(c.RiskBand),
			CustomerResult: c,
		}
	}

	jsonData, _ := json.MarshalIndent(enriched, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetSegmentSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.applyCommonArgs(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := core.GetTrackedAnalysisResult(core.WithSuppressHeader(ctx), cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	summary := struct {
		AsOf              time.Time                               `json:"as_of"`
		WindowDays        int                                     `json:"window_days"`
		Cells             []schema.CellAggregate                  `json:"cells"`
		SegmentCutpoints  schema.SegmentCutpoints                 `json:"segment_cutpoints"`
		BandCutpoints     map[schema.Segment]schema.BandCutpoints `json:"band_cutpoints"`
		SegmentPopulation map[schema.Segment]int                  `json:"segment_population"`
	}{
		AsOf:              result.AsOf,
		WindowDays:        result.WindowDays,
		Cells:             result.Cells,
		SegmentCutpoints:  result.SegmentCutpoints,
		BandCutpoints:     result.BandCutpoints,
		SegmentPopulation: result.SegmentPopulation,
	}

	jsonData, _ := json.MarshalIndent(summary, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetActionPlan(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.applyCommonArgs(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := core.GetTrackedAnalysisResult(core.WithSuppressHeader(ctx), cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result.Plans, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
