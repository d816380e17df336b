package cmd

import (
	"github.com/modelbay/templatrend/core"
	"github.com/modelbay/templatrend/internal/contract"
	"github.com/modelbay/templatrend/internal/iostore"
	"github.com/spf13/cobra"
)

// metricsCmd displays the formal definitions of all scoring signals.
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Display mathematical formulas and definitions for all scoring signals",
	Long: `Show the formal definitions, formulas, and factor weights for every
scoring signal the engine computes.

Provides complete transparency into how templates are ranked, including:
- Signal purpose and focus
- Factor names and their contribution weights
- Mathematical formula for score calculation
- Custom weights if configured via .templatrend.yaml

No usage data is read - this is purely informational.

Examples:
  # Show default scoring formulas
  templatrend metrics

  # View with custom weights from config file
  templatrend metrics --config .templatrend.yaml`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteMetrics(rootCtx, cfg, iostore.Manager); err != nil {
			contract.LogFatal("Cannot display metrics", err)
		}
	},
}
