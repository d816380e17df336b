package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/modelbay/templatrend/internal/contract"
	"github.com/modelbay/templatrend/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteCompetitionResult outputs one template's competitive standing,
// dispatching based on the output format configured.
func WriteCompetitionResult(analysis *schema.CompetitionAnalysis, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, analysis)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForCompetition(w, analysis, cfg)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCompetitionTable(analysis, cfg, w)
		}, "Wrote table")
	}
}

// writeCompetitionTable writes the human-readable standing plus the window
// of nearby competitors.
func writeCompetitionTable(analysis *schema.CompetitionAnalysis, cfg *contract.Config, writer io.Writer) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	header := headerLine(cfg, "🏆", fmt.Sprintf("Competition for %s (%s, %s of %s)",
		analysis.Template.TemplateID,
		analysis.Template.TemplateType,
		analysis.Period,
		analysis.PeriodStart.Format(contract.DateFormat)))
	if _, err := fmt.Fprintln(writer, header); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Rank %d of %d (top %s%%)\n",
		analysis.RankPosition, analysis.TotalCompetitors, fmtFloat(100-analysis.Percentile)); err != nil {
		return err
	}

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Rank", "Template", "Usage", "Users", "Trend", "Label"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, r := range analysis.Nearby {
		id := contract.TruncateID(r.TemplateID, getMaxTableIDWidth(cfg))
		if r.TemplateID == analysis.Template.TemplateID {
			id = "* " + id
		}
		data = append(data, []string{
			strconv.Itoa(r.RankPosition),
			id,
			fmt.Sprintf(intFmt, r.UsageCount),
			fmt.Sprintf(intFmt, r.UniqueUsers),
			fmtFloat(r.TrendScore),
			labelFor(cfg, r.TrendScore),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeCSVResultsForCompetition writes the nearby-competitor window in CSV format.
func writeCSVResultsForCompetition(w io.Writer, analysis *schema.CompetitionAnalysis, cfg *contract.Config) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	header := []string{
		"rank",
		"template_id",
		"usage_count",
		"unique_users",
		"trend_score",
		"percentile",
		"is_subject",
	}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, r := range analysis.Nearby {
			rec := []string{
				strconv.Itoa(r.RankPosition),
				r.TemplateID,
				fmt.Sprintf(intFmt, r.UsageCount),
				fmt.Sprintf(intFmt, r.UniqueUsers),
				fmtFloat(r.TrendScore),
				fmtFloat(analysis.Percentile),
				strconv.FormatBool(r.TemplateID == analysis.Template.TemplateID),
			}
			if err := csvWriter.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
