package core

import (
	"context"
	"time"

	"github.com/modelbay/templatrend/internal/contract"
	"github.com/modelbay/templatrend/schema"
)

// RankingRecordBuilder builds one template's ranking record from usage data.
// Each step reads at most once from a store; the final record is assembled
// in Build. A builder is used for a single template and period, then
// discarded.
type RankingRecordBuilder struct {
	cfg      *contract.Config
	usage    contract.UsageStore
	ratings  contract.RatingSource
	template schema.TemplateRef
	period   schema.Period
	start    time.Time
	end      time.Time

	// Internal data collected during the build process
	records []schema.UsageRecord
	metrics schema.UsageMetrics
	rating  schema.RatingStats
	record  *schema.RankingRecord
	err     error
}

// NewRankingRecordBuilder is the starting point for building a ranking record.
func NewRankingRecordBuilder(cfg *contract.Config, usage contract.UsageStore, ratings contract.RatingSource, template schema.TemplateRef, period schema.Period, periodStart time.Time) *RankingRecordBuilder {
	return &RankingRecordBuilder{
		cfg:      cfg,
		usage:    usage,
		ratings:  ratings,
		template: template,
		period:   period,
		start:    periodStart,
		end:      schema.NextPeriodStart(period, periodStart),
		record: &schema.RankingRecord{
			TemplateID:   template.TemplateID,
			TemplateType: template.TemplateType,
			Period:       period,
			PeriodStart:  periodStart,
		},
	}
}

// LoadUsage reads the template's usage records for the period window.
func (b *RankingRecordBuilder) LoadUsage(ctx context.Context) *RankingRecordBuilder {
	if b.err != nil {
		return b
	}
	b.records, b.err = b.usage.Query(ctx, b.template.TemplateID, b.template.TemplateType, b.start, b.end)
	return b
}

// ComputeMetrics reduces the loaded records into usage metrics.
func (b *RankingRecordBuilder) ComputeMetrics() *RankingRecordBuilder {
	if b.err != nil {
		return b
	}
	b.metrics = AggregateUsage(b.records)
	return b
}

// FetchRatings loads community rating signals when a rating source is
// configured. A nil source means "no ratings yet" and leaves zeros in place.
func (b *RankingRecordBuilder) FetchRatings(ctx context.Context) *RankingRecordBuilder {
	if b.err != nil || b.ratings == nil {
		return b
	}
	stats, err := b.ratings.Stats(ctx, b.template.TemplateID, b.template.TemplateType)
	if err != nil {
		// Rating failures degrade to zero signal rather than sinking the
		// whole record.
		contract.LogWarn("rating lookup failed for "+b.template.TemplateID, err)
		return b
	}
	b.rating = stats
	return b
}

// ComputeScores calculates trend, weighted and velocity scores.
func (b *RankingRecordBuilder) ComputeScores() *RankingRecordBuilder {
	if b.err != nil {
		return b
	}
	b.record.TrendScore = computeTrendScore(b.metrics, b.rating, b.cfg.TrendWeights)
	b.record.WeightedScore = computeWeightedScore(b.record.TrendScore, b.metrics, b.rating)
	b.record.VelocityScore = computeVelocityScore(b.records)
	return b
}

// ComputeGrowth reads the immediately preceding period and derives the
// growth rate from the two usage counts.
func (b *RankingRecordBuilder) ComputeGrowth(ctx context.Context) *RankingRecordBuilder {
	if b.err != nil {
		return b
	}
	prevStart := schema.PreviousPeriodStart(b.period, b.start)
	prevRecords, err := b.usage.Query(ctx, b.template.TemplateID, b.template.TemplateType, prevStart, b.start)
	if err != nil {
		b.err = err
		return b
	}
	b.record.GrowthRate = computeGrowthRate(b.metrics.UsageCount, len(prevRecords))
	return b
}

// HasUsage reports whether the template saw any activity in the period.
// Templates without usage produce no ranking record at all.
func (b *RankingRecordBuilder) HasUsage() bool {
	return len(b.records) > 0
}

// Build returns the assembled record, or the first error hit along the way.
func (b *RankingRecordBuilder) Build() (*schema.RankingRecord, error) {
	if b.err != nil {
		return nil, b.err
	}
	b.record.UsageCount = b.metrics.UsageCount
	b.record.UniqueUsers = b.metrics.UniqueUsers
	b.record.SuccessRate = b.metrics.SuccessRate
	b.record.AverageExecutionTime = b.metrics.AverageExecutionTime
	b.record.AverageRating = b.rating.AverageRating
	b.record.TotalRatings = b.rating.TotalRatings
	b.record.FavoriteCount = b.rating.FavoriteCount
	return b.record, nil
}
