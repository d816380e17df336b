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

// WritePromotionRequest outputs a single promotion request, dispatching
// based on the output format configured.
func WritePromotionRequest(req *schema.PromotionRequest, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, req)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForQueue(w, []schema.PromotionRequest{*req}, cfg)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writePromotionDetail(req, cfg, w)
		}, "Wrote detail")
	}
}

// writePromotionDetail writes the human-readable view of one request.
func writePromotionDetail(req *schema.PromotionRequest, cfg *contract.Config, writer io.Writer) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	header := headerLine(cfg, "📋", fmt.Sprintf("Promotion request %s", req.ID))
	if _, err := fmt.Fprintln(writer, header); err != nil {
		return err
	}

	lines := []struct {
		name  string
		value string
	}{
		{"Template", req.PersonalTemplateID},
		{"Status", statusLabel(cfg, req.Status)},
		{"Priority", string(req.Priority)},
		{"Requested by", req.RequestedBy},
		{"Original author", req.OriginalAuthorID},
		{"Quality score", fmtFloat(req.QualityScore)},
		{"Usage", fmt.Sprintf("%d uses by %d users, %s%% success",
			req.Metrics.TotalUsage, req.Metrics.UniqueUsers, fmtFloat(req.Metrics.SuccessRate))},
		{"Created", req.CreatedAt.Format(time.RFC3339)},
	}
	if req.Reason != "" {
		lines = append(lines, struct{ name, value string }{"Reason", req.Reason})
	}
	if req.ReviewedBy != "" {
		lines = append(lines, struct{ name, value string }{"Reviewed by", req.ReviewedBy})
	}
	if req.ReviewComments != "" {
		lines = append(lines, struct{ name, value string }{"Review comments", req.ReviewComments})
	}
	if req.VerifiedTemplateID != "" {
		lines = append(lines, struct{ name, value string }{"Verified template", req.VerifiedTemplateID})
	}
	for _, l := range lines {
		if _, err := fmt.Fprintf(writer, "  %-18s %s\n", l.name+":", l.value); err != nil {
			return err
		}
	}
	return nil
}

// WritePromotionQueue outputs the pending-request queue, dispatching based
// on the output format configured.
func WritePromotionQueue(requests []schema.PromotionRequest, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, requests)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForQueue(w, requests, cfg)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeQueueTable(requests, cfg, w)
		}, "Wrote table")
	}
}

// writeQueueTable writes the human-readable promotion queue.
func writeQueueTable(requests []schema.PromotionRequest, cfg *contract.Config, writer io.Writer) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Request", "Template", "Status", "Priority", "Quality", "Created"})

	var data [][]string
	for _, r := range requests {
		data = append(data, []string{
			contract.TruncateID(r.ID, 12),
			contract.TruncateID(r.PersonalTemplateID, getMaxTableIDWidth(cfg)),
			statusLabel(cfg, r.Status),
			string(r.Priority),
			fmtFloat(r.QualityScore),
			r.CreatedAt.Format(contract.DateFormat),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(writer, "%d requests in queue\n", len(requests))
	return err
}

// writeCSVResultsForQueue writes promotion requests in CSV format.
func writeCSVResultsForQueue(w io.Writer, requests []schema.PromotionRequest, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	header := []string{
		"id",
		"personal_template_id",
		"status",
		"priority",
		"quality_score",
		"total_usage",
		"unique_users",
		"success_rate",
		"requested_by",
		"created_at",
	}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, r := range requests {
			rec := []string{
				r.ID,
				r.PersonalTemplateID,
				string(r.Status),
				string(r.Priority),
				fmtFloat(r.QualityScore),
				strconv.Itoa(r.Metrics.TotalUsage),
				strconv.Itoa(r.Metrics.UniqueUsers),
				fmtFloat(r.Metrics.SuccessRate),
				r.RequestedBy,
				r.CreatedAt.Format(time.RFC3339),
			}
			if err := csvWriter.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// statusLabel picks the colored or plain status label per the config.
func statusLabel(cfg *contract.Config, status schema.PromotionStatus) string {
	if cfg.UseColors {
		return contract.GetStatusLabel(status)
	}
	return string(status)
}
