package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/avendano/churnscope/internal/contract"
	"github.com/avendano/churnscope/schema"
	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig(t *testing.T) *contract.Config {
	t.Helper()
	cfg := &contract.Config{}
	require.NoError(t, contract.ProcessAndValidate(cfg, &contract.ConfigRawInput{AsOf: "2025-06-30"}))
	return cfg
}

func writeTransactionsCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transactions.csv")
	content := `customer_id,timestamp,amount,is_return,category
A,2025-06-28,500,false,apparel
A,2025-05-01,500,false,apparel
A,2025-03-01,500,false,apparel
A,2025-01-01,500,false,apparel
B,2024-09-03,50,false,books
C,2025-05-31,240,false,garden
C,2025-03-01,240,false,garden
C,2024-12-01,240,false,garden
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func toolRequest(args map[string]any) mcplib.CallToolRequest {
	req := mcplib.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcplib.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcplib.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return text.Text
}

func TestNewMCPServer(t *testing.T) {
	s := NewMCPServer(baseConfig(t))
	assert.NotNil(t, s)
}

func TestHandleAnalyzeChurn(t *testing.T) {
	h := &toolHandler{baseCfg: baseConfig(t)}
	req := toolRequest(map[string]any{
		"transactions": writeTransactionsCSV(t),
		"as_of":        "2025-06-30",
		"limit":        2,
	})

	result, err := h.handleAnalyzeChurn(context.Background(), req)
	require.NoError(t, err)
	require.False(t, result.IsError)

	var customers []map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &customers))
	require.Len(t, customers, 2)
	assert.Equal(t, float64(1), customers[0]["rank"])
	assert.Contains(t, customers[0], "risk_score")
	assert.Contains(t, customers[0], "label")
}

func TestHandleGetSegmentSummary(t *testing.T) {
	h := &toolHandler{baseCfg: baseConfig(t)}
	req := toolRequest(map[string]any{
		"transactions": writeTransactionsCSV(t),
		"as_of":        "2025-06-30",
	})

	result, err := h.handleGetSegmentSummary(context.Background(), req)
	require.NoError(t, err)
	require.False(t, result.IsError)

	var summary struct {
		Cells             []schema.CellAggregate `json:"cells"`
		SegmentPopulation map[string]int         `json:"segment_population"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &summary))
	assert.Len(t, summary.Cells, len(schema.AllSegments)*len(schema.AllRiskBands))
	assert.Equal(t, 3, summary.SegmentPopulation["new"]+summary.SegmentPopulation["medium"]+summary.SegmentPopulation["high"])
}

func TestHandleGetActionPlan(t *testing.T) {
	h := &toolHandler{baseCfg: baseConfig(t)}
	req := toolRequest(map[string]any{
		"transactions": writeTransactionsCSV(t),
		"as_of":        "2025-06-30",
	})

	result, err := h.handleGetActionPlan(context.Background(), req)
	require.NoError(t, err)
	require.False(t, result.IsError)

	var plans []schema.CellPlan
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &plans))
	require.Len(t, plans, len(schema.AllSegments)*len(schema.AllRiskBands))
	for _, plan := range plans {
		assert.NotEmpty(t, plan.Actions)
	}
}

func TestHandlerBadArguments(t *testing.T) {
	h := &toolHandler{baseCfg: baseConfig(t)}

	result, err := h.handleAnalyzeChurn(context.Background(), toolRequest(map[string]any{
		"as_of": "30/06/2025",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	result, err = h.handleAnalyzeChurn(context.Background(), toolRequest(map[string]any{
		"transactions": filepath.Join(t.TempDir(), "missing.csv"),
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestApplyCommonArgsKeepsBaseConfig(t *testing.T) {
	base := baseConfig(t)
	h := &toolHandler{baseCfg: base}

	cfg, err := h.applyCommonArgs(toolRequest(map[string]any{
		"window_days": 90,
		"limit":       5,
	}))
	require.NoError(t, err)

	assert.Equal(t, 90, cfg.WindowDays)
	assert.Equal(t, 5, cfg.ResultLimit)
	assert.Equal(t, schema.DefaultWindowDays, base.WindowDays)
	assert.Equal(t, contract.DefaultResultLimit, base.ResultLimit)
}
