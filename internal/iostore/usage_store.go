package iostore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/modelbay/templatrend/internal/contract"
	"github.com/modelbay/templatrend/schema"
)

// UsageStoreImpl reads the append-only usage log from SQL storage.
type UsageStoreImpl struct {
	db      *sql.DB
	backend schema.StoreBackend
}

var _ contract.UsageStore = &UsageStoreImpl{} // Compile-time check

// Query returns all usage records for one template in [start, end),
// ordered by usage timestamp.
func (s *UsageStoreImpl) Query(ctx context.Context, templateID string, templateType schema.TemplateType, start, end time.Time) ([]schema.UsageRecord, error) {
	query := rebind(fmt.Sprintf(`
		SELECT template_id, template_type, user_id, used_at, execution_time_ms, was_successful
		FROM %s
		WHERE template_id = ? AND template_type = ? AND used_at >= ? AND used_at < ?
		ORDER BY used_at ASC
	`, quoteTableName(usageTable, s.backend)), s.backend)

	rows, err := s.db.QueryContext(ctx, query,
		templateID, string(templateType),
		formatTime(start, s.backend), formatTime(end, s.backend))
	if err != nil {
		return nil, fmt.Errorf("failed to query usage log: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []schema.UsageRecord
	for rows.Next() {
		var rec schema.UsageRecord
		if err := rows.Scan(
			&rec.TemplateID, &rec.TemplateType, &rec.UserID,
			scannedTime{t: &rec.UsedAt}, &rec.ExecutionTimeMs, &rec.WasSuccessful,
		); err != nil {
			return nil, fmt.Errorf("failed to scan usage record: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// AggregateTemplateStats computes lifetime totals for the eligibility gate
// in one pass over the log.
func (s *UsageStoreImpl) AggregateTemplateStats(ctx context.Context, templateID string, templateType schema.TemplateType) (schema.TemplateStats, error) {
	query := rebind(fmt.Sprintf(`
		SELECT COUNT(*),
		       COUNT(DISTINCT user_id),
		       COALESCE(SUM(CASE WHEN was_successful THEN 1 ELSE 0 END), 0)
		FROM %s
		WHERE template_id = ? AND template_type = ?
	`, quoteTableName(usageTable, s.backend)), s.backend)

	var stats schema.TemplateStats
	var successful int
	err := s.db.QueryRowContext(ctx, query, templateID, string(templateType)).
		Scan(&stats.TotalUsage, &stats.UniqueUsers, &successful)
	if err != nil {
		return schema.TemplateStats{}, fmt.Errorf("failed to aggregate usage for template %s: %w", templateID, err)
	}

	if stats.TotalUsage > 0 {
		stats.SuccessRate = float64(successful) / float64(stats.TotalUsage) * 100
	}

	return stats, nil
}

// ListActiveTemplates returns every template with usage in [start, end).
func (s *UsageStoreImpl) ListActiveTemplates(ctx context.Context, start, end time.Time, typeFilter schema.TemplateType) ([]schema.TemplateRef, error) {
	query := fmt.Sprintf(`
		SELECT DISTINCT template_id, template_type
		FROM %s
		WHERE used_at >= ? AND used_at < ?
	`, quoteTableName(usageTable, s.backend))
	args := []any{formatTime(start, s.backend), formatTime(end, s.backend)}

	if typeFilter != "" {
		query += " AND template_type = ?"
		args = append(args, string(typeFilter))
	}
	query += " ORDER BY template_type ASC, template_id ASC"

	rows, err := s.db.QueryContext(ctx, rebind(query, s.backend), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list active templates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var refs []schema.TemplateRef
	for rows.Next() {
		var ref schema.TemplateRef
		if err := rows.Scan(&ref.TemplateID, &ref.TemplateType); err != nil {
			return nil, fmt.Errorf("failed to scan template ref: %w", err)
		}
		refs = append(refs, ref)
	}

	return refs, rows.Err()
}
