package cmd

import (
	"context"

	"github.com/modelbay/templatrend/core"
	"github.com/modelbay/templatrend/internal/contract"
	"github.com/modelbay/templatrend/internal/iostore"
	"github.com/spf13/cobra"
)

// withTimeout wraps the root context with the configured operation timeout.
func withTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(rootCtx, cfg.Timeout)
}

// recomputeCmd recomputes rankings for one period window.
var recomputeCmd = &cobra.Command{
	Use:   "recompute",
	Short: "Recompute template rankings for a period window.",
	Long: `Aggregate raw usage logs into per-template ranking records for one period.

For every template with activity in the window, recomputation:
- Aggregates usage counts, unique users and success rates
- Computes trend, weighted and velocity scores plus growth rate
- Assigns 1-based rank positions within each template family

Recomputation is idempotent: running it twice for the same window
overwrites records in place. Per-template failures are isolated and
reported in the batch summary without aborting the run.

Examples:
  # Recompute the current weekly window
  templatrend recompute

  # Recompute a specific monthly window
  templatrend recompute --period monthly --period-start 2026-08-01

  # Only the personal template family, with more workers
  templatrend recompute --type personal --workers 8`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		ctx, cancel := withTimeout()
		defer cancel()
		if err := core.ExecuteRecompute(ctx, cfg, iostore.Manager); err != nil {
			contract.LogFatal("Cannot recompute rankings", err)
		}
	},
}

// trendingCmd shows the current leaderboard.
var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "Show the top templates ranked by trend score.",
	Long: `Display the ranked leaderboard for one period window.

Reads previously recomputed ranking records and prints the top templates
ordered by rank position, including usage, unique users, success rate and
the trend score label.

Examples:
  # Top templates in the current weekly window
  templatrend trending

  # Top 10 verified templates for a daily window
  templatrend trending --period daily --type verified --limit 10

  # Export for tracking
  templatrend trending --output csv --output-file trending.csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		ctx, cancel := withTimeout()
		defer cancel()
		if err := core.ExecuteTrending(ctx, cfg, iostore.Manager); err != nil {
			contract.LogFatal("Cannot show trending templates", err)
		}
	},
}

// competeCmd analyzes one template's competitive standing.
var competeCmd = &cobra.Command{
	Use:   "compete <template-id>",
	Short: "Analyze one template's standing within its ranking group.",
	Long: `Show where a template ranks against its competitors.

Reports the template's rank position, the total number of competitors in
its (period, template type) group, its percentile, and the nearby
templates two ranks above and below.

Examples:
  # Where does this template stand this week?
  templatrend compete tmpl-a1b2c3 --type personal

  # Check against the verified family for a monthly window
  templatrend compete tmpl-a1b2c3 --type verified --period monthly`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		ctx, cancel := withTimeout()
		defer cancel()
		if err := core.ExecuteCompetition(ctx, cfg, iostore.Manager, args[0]); err != nil {
			contract.LogFatal("Cannot analyze competition", err)
		}
	},
}
