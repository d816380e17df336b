package mcp_test

import (
	"context"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/modelbay/templatrend/internal/contract"
	"github.com/modelbay/templatrend/internal/iostore"
	mcp_internal "github.com/modelbay/templatrend/internal/mcp"
	"github.com/modelbay/templatrend/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() *contract.Config {
	return &contract.Config{
		Period:       schema.WeeklyPeriod,
		PeriodStart:  time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC),
		ResultLimit:  contract.DefaultResultLimit,
		TrendWeights: schema.DefaultTrendWeights(),
	}
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	stores := iostore.NewMemoryStores()
	s := mcp_internal.NewMCPServer(baseConfig(), stores.Manager())

	ctx := context.Background()

	t.Run("get_competition missing template_id", func(t *testing.T) {
		tool := s.GetTool("get_competition")
		require.NotNil(t, tool, "Tool get_competition should exist")

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "get_competition",
				Arguments: map[string]any{
					"template_id": "", // Missing required
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "template_id is required")
	})

	t.Run("get_trending invalid period", func(t *testing.T) {
		tool := s.GetTool("get_trending")
		require.NotNil(t, tool, "Tool get_trending should exist")

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "get_trending",
				Arguments: map[string]any{
					"period": "hourly", // Invalid
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "invalid period")
	})

	t.Run("get_trending invalid period_start", func(t *testing.T) {
		tool := s.GetTool("get_trending")
		require.NotNil(t, tool)

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "get_trending",
				Arguments: map[string]any{
					"period_start": "08/23/2026", // Invalid
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "invalid period_start")
	})
}

func TestMCPServerHandlers_Queries(t *testing.T) {
	stores := iostore.NewMemoryStores()
	periodStart := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)
	require.NoError(t, stores.Ranking.BulkUpsert(context.Background(), []schema.RankingRecord{
		{
			TemplateID:   "tmpl-alpha",
			TemplateType: schema.PersonalTemplate,
			Period:       schema.WeeklyPeriod,
			PeriodStart:  periodStart,
			UsageCount:   40,
			TrendScore:   77.5,
			RankPosition: 1,
		},
	}))

	s := mcp_internal.NewMCPServer(baseConfig(), stores.Manager())
	ctx := context.Background()

	t.Run("get_trending returns records", func(t *testing.T) {
		tool := s.GetTool("get_trending")
		require.NotNil(t, tool)

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "get_trending",
				Arguments: map[string]any{
					"period":       "weekly",
					"period_start": "2026-08-23",
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		require.False(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "tmpl-alpha")
	})

	t.Run("get_promotion_queue empty", func(t *testing.T) {
		tool := s.GetTool("get_promotion_queue")
		require.NotNil(t, tool)

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name:      "get_promotion_queue",
				Arguments: map[string]any{},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.False(t, res.IsError)
	})
}
