// Package outwriter has output and writer logic for all command results.
package outwriter

import (
	"os"

	"github.com/modelbay/templatrend/internal/contract"
	"golang.org/x/term"
)

// getMaxTableIDWidth calculates the maximum width for template identifiers
// in table output based on terminal width.
func getMaxTableIDWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for the fixed columns with table formatting:
	// Rank + Type + Usage + Users + Trend + Label with borders and padding.
	baseWidth := 55

	available := termWidth - baseWidth
	if available < 12 {
		// Minimum reasonable identifier width
		return 12
	}
	if available > 48 {
		// Maximum identifier width to prevent overly wide tables
		return 48
	}
	return available
}
