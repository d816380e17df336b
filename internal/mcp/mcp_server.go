// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/modelbay/templatrend/internal/contract"
	"github.com/modelbay/templatrend/internal/iostore"
)

// NewMCPServer initializes and configures the Templatrend MCP server without
// starting it. This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Templatrend Ranking Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: get_trending ---
	s.AddTool(mcp.NewTool("get_trending",
		mcp.WithDescription("Get the top templates ranked by trend score for one period window."),
		mcp.WithString("period", mcp.Description("Aggregation period (daily, weekly, monthly, yearly). Defaults to the configured period."), mcp.Enum("daily", "weekly", "monthly", "yearly")),
		mcp.WithString("period_start", mcp.Description("Period start date in YYYY-MM-DD (defaults to the current period).")),
		mcp.WithString("template_type", mcp.Description("Template family filter (personal or verified). Defaults to both."), mcp.Enum("personal", "verified")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleGetTrending)

	// --- 2. Tool: get_competition ---
	s.AddTool(mcp.NewTool("get_competition",
		mcp.WithDescription("Analyze one template's standing within its ranking group, including rank, percentile and nearby competitors."),
		mcp.WithString("template_id", mcp.Description("The template identifier to analyze."), mcp.Required()),
		mcp.WithString("period", mcp.Description("Aggregation period (daily, weekly, monthly, yearly)."), mcp.Enum("daily", "weekly", "monthly", "yearly")),
		mcp.WithString("period_start", mcp.Description("Period start date in YYYY-MM-DD (defaults to the current period).")),
		mcp.WithString("template_type", mcp.Description("Template family filter (personal or verified)."), mcp.Enum("personal", "verified")),
	), h.handleGetCompetition)

	// --- 3. Tool: get_promotion_queue ---
	s.AddTool(mcp.NewTool("get_promotion_queue",
		mcp.WithDescription("List promotion requests awaiting a decision, oldest first."),
		mcp.WithBoolean("high_priority", mcp.Description("Show only high and urgent priority requests.")),
	), h.handleGetPromotionQueue)

	return s
}

// StartMCPServer starts the Templatrend MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config) error {
	s := NewMCPServer(baseCfg, iostore.Manager)
	return server.ServeStdio(s)
}
