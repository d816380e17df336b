package iostore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/modelbay/templatrend/internal/contract"
	"github.com/modelbay/templatrend/schema"
)

// RankingStoreImpl persists ranking records in SQL storage.
type RankingStoreImpl struct {
	db      *sql.DB
	backend schema.StoreBackend
}

var _ contract.RankingStore = &RankingStoreImpl{} // Compile-time check

const rankingColumns = `template_id, template_type, period, period_start,
	usage_count, unique_users, success_rate, avg_execution_ms,
	avg_rating, total_ratings, favorite_count,
	trend_score, weighted_score, velocity_score, growth_rate, rank_position`

// getUpsertRankingQuery builds the backend-specific upsert for one record.
// The primary key is (template_id, template_type, period, period_start).
func getUpsertRankingQuery(backend schema.StoreBackend) string {
	table := quoteTableName(rankingTable, backend)
	placeholders := inPlaceholders(16)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			INSERT INTO %s (%s) VALUES (%s) AS new
			ON DUPLICATE KEY UPDATE
				usage_count = new.usage_count,
				unique_users = new.unique_users,
				success_rate = new.success_rate,
				avg_execution_ms = new.avg_execution_ms,
				avg_rating = new.avg_rating,
				total_ratings = new.total_ratings,
				favorite_count = new.favorite_count,
				trend_score = new.trend_score,
				weighted_score = new.weighted_score,
				velocity_score = new.velocity_score,
				growth_rate = new.growth_rate,
				rank_position = new.rank_position
		`, table, rankingColumns, placeholders)
	case schema.PostgreSQLBackend:
		return rebind(fmt.Sprintf(`
			INSERT INTO %s (%s) VALUES (%s)
			ON CONFLICT (template_id, template_type, period, period_start) DO UPDATE SET
				usage_count = EXCLUDED.usage_count,
				unique_users = EXCLUDED.unique_users,
				success_rate = EXCLUDED.success_rate,
				avg_execution_ms = EXCLUDED.avg_execution_ms,
				avg_rating = EXCLUDED.avg_rating,
				total_ratings = EXCLUDED.total_ratings,
				favorite_count = EXCLUDED.favorite_count,
				trend_score = EXCLUDED.trend_score,
				weighted_score = EXCLUDED.weighted_score,
				velocity_score = EXCLUDED.velocity_score,
				growth_rate = EXCLUDED.growth_rate,
				rank_position = EXCLUDED.rank_position
		`, table, rankingColumns, placeholders), backend)
	default: // SQLite
		return fmt.Sprintf(`
			INSERT OR REPLACE INTO %s (%s) VALUES (%s)
		`, table, rankingColumns, placeholders)
	}
}

// BulkUpsert writes all records in one transaction so a failed batch leaves
// no partial period behind.
func (s *RankingStoreImpl) BulkUpsert(ctx context.Context, records []schema.RankingRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin ranking transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, getUpsertRankingQuery(s.backend))
	if err != nil {
		return fmt.Errorf("failed to prepare ranking upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, rec := range records {
		_, err := stmt.ExecContext(ctx,
			rec.TemplateID, string(rec.TemplateType), string(rec.Period),
			formatTime(rec.PeriodStart, s.backend),
			rec.UsageCount, rec.UniqueUsers, rec.SuccessRate, rec.AverageExecutionTime,
			rec.AverageRating, rec.TotalRatings, rec.FavoriteCount,
			rec.TrendScore, rec.WeightedScore, rec.VelocityScore, rec.GrowthRate,
			rec.RankPosition,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert ranking for template %s: %w", rec.TemplateID, err)
		}
	}

	return tx.Commit()
}

// QueryByPeriod returns all records for one (period, periodStart), ordered
// by trend score descending.
func (s *RankingStoreImpl) QueryByPeriod(ctx context.Context, period schema.Period, periodStart time.Time, typeFilter schema.TemplateType) ([]schema.RankingRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE period = ? AND period_start = ?
	`, rankingColumns, quoteTableName(rankingTable, s.backend))
	args := []any{string(period), formatTime(periodStart, s.backend)}

	if typeFilter != "" {
		query += " AND template_type = ?"
		args = append(args, string(typeFilter))
	}
	query += " ORDER BY trend_score DESC, template_id ASC"

	rows, err := s.db.QueryContext(ctx, rebind(query, s.backend), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query rankings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanRankingRows(rows)
}

// WriteRanks persists rank positions for the second pass of a
// recomputation run.
func (s *RankingStoreImpl) WriteRanks(ctx context.Context, assignments []schema.RankAssignment) error {
	if len(assignments) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin rank transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := rebind(fmt.Sprintf(`
		UPDATE %s SET rank_position = ?
		WHERE template_id = ? AND template_type = ? AND period = ? AND period_start = ?
	`, quoteTableName(rankingTable, s.backend)), s.backend)

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare rank update: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, a := range assignments {
		_, err := stmt.ExecContext(ctx,
			a.RankPosition,
			a.Key.TemplateID, string(a.Key.TemplateType), string(a.Key.Period),
			formatTime(a.Key.PeriodStart, s.backend),
		)
		if err != nil {
			return fmt.Errorf("failed to write rank for template %s: %w", a.Key.TemplateID, err)
		}
	}

	return tx.Commit()
}

// Find returns the record for one key, or a NotFoundError.
func (s *RankingStoreImpl) Find(ctx context.Context, key schema.RankingKey) (*schema.RankingRecord, error) {
	query := rebind(fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE template_id = ? AND template_type = ? AND period = ? AND period_start = ?
	`, rankingColumns, quoteTableName(rankingTable, s.backend)), s.backend)

	row := s.db.QueryRowContext(ctx, query,
		key.TemplateID, string(key.TemplateType), string(key.Period),
		formatTime(key.PeriodStart, s.backend))

	rec, err := scanRankingRow(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &contract.NotFoundError{Kind: "ranking record", ID: key.TemplateID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find ranking for template %s: %w", key.TemplateID, err)
	}

	return rec, nil
}

// All returns every ranking record, ordered for stable export output.
func (s *RankingStoreImpl) All(ctx context.Context) ([]schema.RankingRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		ORDER BY period ASC, period_start ASC, template_type ASC, rank_position ASC, template_id ASC
	`, rankingColumns, quoteTableName(rankingTable, s.backend))

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query all rankings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanRankingRows(rows)
}

func scanRankingRows(rows *sql.Rows) ([]schema.RankingRecord, error) {
	var records []schema.RankingRecord
	for rows.Next() {
		rec, err := scanRankingRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ranking record: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

func scanRankingRow(scan func(...any) error) (*schema.RankingRecord, error) {
	var rec schema.RankingRecord
	err := scan(
		&rec.TemplateID, &rec.TemplateType, &rec.Period, scannedTime{t: &rec.PeriodStart},
		&rec.UsageCount, &rec.UniqueUsers, &rec.SuccessRate, &rec.AverageExecutionTime,
		&rec.AverageRating, &rec.TotalRatings, &rec.FavoriteCount,
		&rec.TrendScore, &rec.WeightedScore, &rec.VelocityScore, &rec.GrowthRate,
		&rec.RankPosition,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
