package contract

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/modelbay/templatrend/schema"
)

// Trend label constants.
const (
	TopValue      = "Top"      // Top performers
	StrongValue   = "Strong"   // Strong traction
	ModerateValue = "Moderate" // Moderate traction
	QuietValue    = "Quiet"    // Little traction
)

// Color variables for console output.
var (
	TopColor      = color.New(color.FgGreen, color.Bold) // topColor marks the leaders.
	StrongColor   = color.New(color.FgCyan, color.Bold)  // strongColor marks healthy traction.
	ModerateColor = color.New(color.FgYellow)            // moderateColor marks middling traction.
	QuietColor    = color.New(color.FgWhite)             // quietColor marks low-signal templates.

	approvedColor = color.New(color.FgGreen)
	rejectedColor = color.New(color.FgRed)
	pendingColor  = color.New(color.FgYellow)
	reviewColor   = color.New(color.FgCyan)
	doneColor     = color.New(color.FgGreen, color.Bold)
)

// GetPlainLabel returns a plain text label for a trend score. This is the
// core logic used for CSV, JSON, and table printing.
func GetPlainLabel(score float64) string {
	switch {
	case score >= 80:
		return TopValue
	case score >= 60:
		return StrongValue
	case score >= 40:
		return ModerateValue
	default:
		return QuietValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
// It uses GetPlainLabel to determine the string, and then applies the
// appropriate color.
func GetColorLabel(score float64) string {
	text := GetPlainLabel(score)

	switch text {
	case TopValue:
		return TopColor.Sprint(text)
	case StrongValue:
		return StrongColor.Sprint(text)
	case ModerateValue:
		return ModerateColor.Sprint(text)
	default: // "Quiet"
		return QuietColor.Sprint(text)
	}
}

// GetStatusLabel returns a colored label for a promotion status.
func GetStatusLabel(status schema.PromotionStatus) string {
	switch status {
	case schema.StatusApproved:
		return approvedColor.Sprint(status)
	case schema.StatusRejected:
		return rejectedColor.Sprint(status)
	case schema.StatusUnderReview:
		return reviewColor.Sprint(status)
	case schema.StatusImplemented:
		return doneColor.Sprint(status)
	default:
		return pendingColor.Sprint(status)
	}
}

// TruncateID shortens a template or request identifier for table display.
func TruncateID(id string, maxWidth int) string {
	if maxWidth <= 3 || len(id) <= maxWidth {
		return id
	}
	return id[:maxWidth-3] + "..."
}

// SelectOutputFile returns the appropriate file handle for output based on
// the provided file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetStoreDBFilePath returns the path to the SQLite DB file for engine storage.
func GetStoreDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".templatrend.db"
	}
	return filepath.Join(homeDir, ".templatrend.db")
}
