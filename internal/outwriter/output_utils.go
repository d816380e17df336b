package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/modelbay/templatrend/internal/contract"
)

// writeWithFile resolves the output destination, runs the writer against it,
// and reports where the result landed when it was not stdout.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	dest, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	toFile := dest != os.Stdout
	if toFile {
		defer func() { _ = dest.Close() }()
	}

	if err := writer(dest); err != nil {
		return err
	}
	if toFile {
		fmt.Fprintf(os.Stderr, "%s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON emits indented JSON so the output stays diffable.
func writeJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader writes the header row, then hands the flushed writer to
// the row callback.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	return writeRows(cw)
}

// createFormatters builds the float formatter for the configured precision
// alongside the integer format verb shared by the table and CSV writers.
func createFormatters(precision int) (fmtFloat func(float64) string, intFmt string) {
	fmtFloat = func(v float64) string {
		return fmt.Sprintf("%.*f", precision, v)
	}
	return fmtFloat, "%d"
}

// labelFor picks the colored or plain trend label per the config.
func labelFor(cfg *contract.Config, score float64) string {
	if cfg.UseColors {
		return contract.GetColorLabel(score)
	}
	return contract.GetPlainLabel(score)
}

// headerLine formats a section header, with an optional emoji prefix.
func headerLine(cfg *contract.Config, emoji, text string) string {
	if cfg.UseEmojis && emoji != "" {
		return emoji + " " + text
	}
	return text
}
