// Package parquet provides data structures and functions for exporting
// templatrend ranking data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/modelbay/templatrend/schema"
	"github.com/parquet-go/parquet-go"
)

// RankingRow represents one ranking record in the export schema.
// This struct maps to the templatrend_rankings database table.
type RankingRow struct {
	// TemplateID is the unique identifier of the template
	TemplateID string `parquet:"template_id,snappy"`

	// TemplateType is the template family, personal or verified
	TemplateType string `parquet:"template_type,snappy"`

	// Period is the aggregation bucket: daily, weekly, monthly or yearly
	Period string `parquet:"period,snappy"`

	// PeriodStart is the normalized start of the aggregation window
	PeriodStart time.Time `parquet:"period_start,snappy"`

	// UsageCount is the number of invocations in the period
	UsageCount int32 `parquet:"usage_count,snappy"`

	// UniqueUsers is the number of distinct users in the period
	UniqueUsers int32 `parquet:"unique_users,snappy"`

	// SuccessRate is the percentage of successful invocations (0-100)
	SuccessRate float64 `parquet:"success_rate,snappy"`

	// AvgExecutionMs is the mean execution time of successful invocations
	AvgExecutionMs float64 `parquet:"avg_execution_ms,snappy"`

	// AvgRating is the community rating average (0-5)
	AvgRating float64 `parquet:"avg_rating,snappy"`

	// TotalRatings is the number of community ratings
	TotalRatings int32 `parquet:"total_ratings,snappy"`

	// FavoriteCount is the number of users who favorited the template
	FavoriteCount int32 `parquet:"favorite_count,snappy"`

	// TrendScore is the primary popularity signal (0-100)
	TrendScore float64 `parquet:"trend_score,snappy"`

	// WeightedScore is the secondary blended signal
	WeightedScore float64 `parquet:"weighted_score,snappy"`

	// VelocityScore is the adoption speed signal (0-100)
	VelocityScore float64 `parquet:"velocity_score,snappy"`

	// GrowthRate is the signed period-over-period usage change in percent
	GrowthRate float64 `parquet:"growth_rate,snappy"`

	// RankPosition is the 1-based position within the period group, 0 if unranked
	RankPosition int32 `parquet:"rank_position,snappy"`
}

// ConvertRankingRecords maps engine ranking records to the export schema.
func ConvertRankingRecords(records []schema.RankingRecord) []RankingRow {
	rows := make([]RankingRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, RankingRow{
			TemplateID:     rec.TemplateID,
			TemplateType:   string(rec.TemplateType),
			Period:         string(rec.Period),
			PeriodStart:    rec.PeriodStart,
			UsageCount:     int32(rec.UsageCount),
			UniqueUsers:    int32(rec.UniqueUsers),
			SuccessRate:    rec.SuccessRate,
			AvgExecutionMs: rec.AverageExecutionTime,
			AvgRating:      rec.AverageRating,
			TotalRatings:   int32(rec.TotalRatings),
			FavoriteCount:  int32(rec.FavoriteCount),
			TrendScore:     rec.TrendScore,
			WeightedScore:  rec.WeightedScore,
			VelocityScore:  rec.VelocityScore,
			GrowthRate:     rec.GrowthRate,
			RankPosition:   int32(rec.RankPosition),
		})
	}
	return rows
}

// WriteRankingsParquet writes a slice of RankingRow structs to a Parquet file.
func WriteRankingsParquet(data []RankingRow, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is derived from the RankingRow struct tags
	writer := parquet.NewGenericWriter[RankingRow](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}
