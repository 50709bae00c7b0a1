// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/avendano/churnscope/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the ChurnScope MCP server without
// starting it. This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config) *server.MCPServer {
	s := server.NewMCPServer(
		"ChurnScope Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
	}

	// --- 1. Tool: analyze_churn ---
	s.AddTool(mcp.NewTool("analyze_churn",
		mcp.WithDescription("Score customer churn risk from transaction history, ranked by expected revenue loss."),
		mcp.WithString("transactions", mcp.Description("Path to the transactions CSV (defaults to the configured input).")),
		mcp.WithString("as_of", mcp.Description("Analysis reference date in YYYY-MM-DD form. Defaults to now.")),
		mcp.WithNumber("window_days", mcp.Description("Observation window in days. Defaults to 365.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of customers returned.")),
	), h.handleAnalyzeChurn)

	// --- 2. Tool: get_segment_summary ---
	s.AddTool(mcp.NewTool("get_segment_summary",
		mcp.WithDescription("Summarize revenue at risk per (segment, risk band) cell, including empty cells."),
		mcp.WithString("transactions", mcp.Description("Path to the transactions CSV.")),
		mcp.WithString("as_of", mcp.Description("Analysis reference date in YYYY-MM-DD form.")),
		mcp.WithNumber("window_days", mcp.Description("Observation window in days.")),
	), h.handleGetSegmentSummary)

	// --- 3. Tool: get_action_plan ---
	s.AddTool(mcp.NewTool("get_action_plan",
		mcp.WithDescription("Recommend retention actions per (segment, risk band) cell, ordered by expected ROI."),
		mcp.WithString("transactions", mcp.Description("Path to the transactions CSV.")),
		mcp.WithString("as_of", mcp.Description("Analysis reference date in YYYY-MM-DD form.")),
		mcp.WithNumber("window_days", mcp.Description("Observation window in days.")),
	), h.handleGetActionPlan)

	return s
}

// StartMCPServer starts the ChurnScope MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config) error {
	s := NewMCPServer(baseCfg)
	return server.ServeStdio(s)
}
