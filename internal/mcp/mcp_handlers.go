package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/modelbay/templatrend/core"
	"github.com/modelbay/templatrend/internal/contract"
	"github.com/modelbay/templatrend/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// applyPeriodParams overlays period-related request parameters on a config clone.
func applyPeriodParams(cfg *contract.Config, request mcp.CallToolRequest) error {
	if p := request.GetString("period", ""); p != "" {
		period := schema.Period(p)
		if _, ok := schema.ValidPeriods[period]; !ok {
			return fmt.Errorf("invalid period %q", p)
		}
		cfg.Period = period
	}
	if ps := request.GetString("period_start", ""); ps != "" {
		t, err := time.Parse(contract.DateFormat, ps)
		if err != nil {
			return fmt.Errorf("invalid period_start %q, expected YYYY-MM-DD", ps)
		}
		start, err := schema.PeriodStart(cfg.Period, t.UTC())
		if err != nil {
			return err
		}
		cfg.PeriodStart = start
	}
	if tt := request.GetString("template_type", ""); tt != "" {
		templateType := schema.TemplateType(tt)
		if _, ok := schema.ValidTemplateTypes[templateType]; !ok {
			return fmt.Errorf("invalid template_type %q", tt)
		}
		cfg.TemplateType = templateType
	}
	return nil
}

func (h *toolHandler) handleGetTrending(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := applyPeriodParams(cfg, request); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid trending parameters: %v", err)), nil
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}

	records, err := core.GetTrendingResults(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("trending query failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(records, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetCompetition(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := applyPeriodParams(cfg, request); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid competition parameters: %v", err)), nil
	}
	templateID := request.GetString("template_id", "")
	if templateID == "" {
		return mcp.NewToolResultError("template_id is required"), nil
	}

	analysis, err := core.GetCompetitionResult(ctx, cfg, h.mgr, templateID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("competition analysis failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(analysis, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetPromotionQueue(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	highPriority := request.GetBool("high_priority", false)

	requests, err := core.GetPromotionQueue(ctx, h.mgr, highPriority)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("queue query failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(requests, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
