package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/modelbay/templatrend/internal/contract"
	"github.com/modelbay/templatrend/schema"

	"github.com/olekukonko/tablewriter"
)

// WriteBatchResult outputs the summary of a recomputation run, dispatching
// based on the output format configured.
func WriteBatchResult(result *schema.BatchResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForBatch(w, result)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBatchSummary(result, cfg, duration, w)
		}, "Wrote summary")
	}
}

// writeBatchSummary writes the human-readable run summary.
func writeBatchSummary(result *schema.BatchResult, cfg *contract.Config, duration time.Duration, writer io.Writer) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	header := headerLine(cfg, "🏁", fmt.Sprintf("Recomputed %s rankings for %s",
		result.Period, result.PeriodStart.Format(contract.DateFormat)))
	if _, err := fmt.Fprintln(writer, header); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Calculated: %d (personal: %d, verified: %d), skipped: %d, failed: %d\n",
		result.Calculated, result.PersonalCount, result.VerifiedCount, result.Skipped, len(result.Failures)); err != nil {
		return err
	}
	if top := result.TopTemplate; top != nil {
		if _, err := fmt.Fprintf(writer, "Top template: %s (%s) with trend score %s [%s]\n",
			top.TemplateID, top.TemplateType, fmtFloat(top.TrendScore), labelFor(cfg, top.TrendScore)); err != nil {
			return err
		}
	}

	if len(result.Failures) > 0 {
		table := tablewriter.NewWriter(writer)
		table.Header([]string{"Template", "Type", "Reason"})
		var data [][]string
		for _, f := range result.Failures {
			data = append(data, []string{
				contract.TruncateID(f.Template.TemplateID, getMaxTableIDWidth(cfg)),
				string(f.Template.TemplateType),
				f.Reason,
			})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(writer, "Batch completed in %v with %d workers. Store backend: %s\n",
		duration, cfg.Workers, cfg.StoreBackend); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForBatch writes one summary row plus one row per failure.
func writeCSVResultsForBatch(w io.Writer, result *schema.BatchResult) error {
	header := []string{
		"period",
		"period_start",
		"calculated",
		"skipped",
		"personal",
		"verified",
		"failed",
		"top_template",
	}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		topID := ""
		if result.TopTemplate != nil {
			topID = result.TopTemplate.TemplateID
		}
		rec := []string{
			string(result.Period),
			result.PeriodStart.Format(contract.DateFormat),
			strconv.Itoa(result.Calculated),
			strconv.Itoa(result.Skipped),
			strconv.Itoa(result.PersonalCount),
			strconv.Itoa(result.VerifiedCount),
			strconv.Itoa(len(result.Failures)),
			topID,
		}
		return csvWriter.Write(rec)
	})
}
