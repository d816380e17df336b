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
	"github.com/olekukonko/tablewriter/tw"
)

// WriteTrendingResults outputs the leaderboard, dispatching based on the output format configured.
func WriteTrendingResults(records []schema.RankingRecord, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeTrendingJSONResults(records, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeTrendingCSVResults(records, cfg, fmtFloat, intFmt); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTrendingTable(records, cfg, fmtFloat, intFmt, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeTrendingJSONResults handles opening the file and calling the JSON writer.
func writeTrendingJSONResults(records []schema.RankingRecord, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONResultsForTrending(w, records)
	}, "Wrote JSON")
}

// writeTrendingCSVResults handles opening the file and calling the CSV writer.
func writeTrendingCSVResults(records []schema.RankingRecord, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCSVResultsForTrending(w, records, fmtFloat, intFmt)
	}, "Wrote CSV")
}

// writeTrendingTable generates and writes the human-readable leaderboard.
func writeTrendingTable(records []schema.RankingRecord, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	headers := []string{"Rank", "Template", "Type", "Usage", "Users", "Success", "Trend", "Label"}
	table.Header(headers)

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, r := range records {
		row := []string{
			strconv.Itoa(r.RankPosition),
			contract.TruncateID(r.TemplateID, getMaxTableIDWidth(cfg)),
			string(r.TemplateType),
			fmt.Sprintf(intFmt, r.UsageCount),
			fmt.Sprintf(intFmt, r.UniqueUsers),
			fmtFloat(r.SuccessRate) + "%",
			fmtFloat(r.TrendScore),
			labelFor(cfg, r.TrendScore),
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	// Compute summary stats
	totalUsage := 0
	totalUsers := 0
	for _, r := range records {
		totalUsage += r.UsageCount
		totalUsers += r.UniqueUsers
	}
	if _, err := fmt.Fprintf(writer, "Showing top %d templates for %s of %s (total usage: %d, unique users: %d)\n",
		len(records), cfg.Period, periodLabel(cfg, records), totalUsage, totalUsers); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Query completed in %v. Store backend: %s\n", duration, cfg.StoreBackend); err != nil {
		return err
	}
	return nil
}

// periodLabel picks the period-start label to display, preferring the data
// itself over the config so a derived start still shows correctly.
func periodLabel(cfg *contract.Config, records []schema.RankingRecord) string {
	if len(records) > 0 {
		return records[0].PeriodStart.Format(contract.DateFormat)
	}
	if !cfg.PeriodStart.IsZero() {
		return cfg.PeriodStart.Format(contract.DateFormat)
	}
	return "current"
}

// writeCSVResultsForTrending writes the leaderboard in CSV format.
func writeCSVResultsForTrending(w io.Writer, records []schema.RankingRecord, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"rank",
		"template_id",
		"template_type",
		"period",
		"period_start",
		"usage_count",
		"unique_users",
		"success_rate",
		"avg_execution_ms",
		"trend_score",
		"weighted_score",
		"velocity_score",
		"growth_rate",
		"label",
	}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, r := range records {
			rec := []string{
				strconv.Itoa(r.RankPosition),
				r.TemplateID,
				string(r.TemplateType),
				string(r.Period),
				r.PeriodStart.Format(contract.DateFormat),
				fmt.Sprintf(intFmt, r.UsageCount),
				fmt.Sprintf(intFmt, r.UniqueUsers),
				fmtFloat(r.SuccessRate),
				fmtFloat(r.AverageExecutionTime),
				fmtFloat(r.TrendScore),
				fmtFloat(r.WeightedScore),
				fmtFloat(r.VelocityScore),
				fmtFloat(r.GrowthRate),
				contract.GetPlainLabel(r.TrendScore),
			}
			if err := csvWriter.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeJSONResultsForTrending writes the leaderboard in JSON format.
func writeJSONResultsForTrending(w io.Writer, records []schema.RankingRecord) error {
	type JSONRankingRecord struct {
		Label string `json:"label"`
		schema.RankingRecord
	}

	output := make([]JSONRankingRecord, len(records))
	for i, r := range records {
		output[i] = JSONRankingRecord{
			Label:         contract.GetPlainLabel(r.TrendScore),
			RankingRecord: r,
		}
	}

	return writeJSON(w, output)
}
