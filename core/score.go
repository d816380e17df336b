package core

import (
	"math"
	"sort"

	"github.com/modelbay/templatrend/schema"
)

// Normalization caps for the trend score. Raw metrics saturate at these
// values so one runaway template cannot dominate every factor.
const (
	maxUsageScore    = 100.0
	userScale        = 5.0  // uniqueUsers beyond 20 saturate
	favoriteScale    = 10.0 // favorites beyond 10 saturate
	execTimeDivisor  = 1000.0
	ratingScale      = 5.0 // ratings live on a 0-5 scale
	burstWindowScore = 100.0
)

// computeTrendScore calculates the primary popularity/quality signal (0-100)
// as a weighted blend of normalized usage, diversity, reliability, rating,
// favorites and execution performance.
func computeTrendScore(m schema.UsageMetrics, ratings schema.RatingStats, weights map[schema.TrendFactor]float64) float64 {
	if weights == nil {
		weights = schema.DefaultTrendWeights()
	}

	usageScore := schema.Clamp(float64(m.UsageCount), 0, maxUsageScore)
	userScore := schema.Clamp(float64(m.UniqueUsers)*userScale, 0, 100)
	successScore := m.SuccessRate // already 0-100
	ratingScore := (ratings.AverageRating / ratingScale) * 100
	favoriteScore := schema.Clamp(float64(ratings.FavoriteCount)*favoriteScale, 0, 100)
	// Slower executions reduce the performance factor, floored at 0.
	perfScore := schema.Clamp(100-m.AverageExecutionTime/execTimeDivisor, 0, 100)

	raw := usageScore*weights[schema.FactorUsage] +
		userScore*weights[schema.FactorUsers] +
		successScore*weights[schema.FactorSuccess] +
		ratingScore*weights[schema.FactorRating] +
		favoriteScore*weights[schema.FactorFavorites] +
		perfScore*weights[schema.FactorPerformance]

	return schema.Round2(raw)
}

// computeWeightedScore calculates the secondary ranking signal. It leans on
// the trend score but compresses extreme usage counts so long-tail
// templates stay comparable.
func computeWeightedScore(trendScore float64, m schema.UsageMetrics, ratings schema.RatingStats) float64 {
	raw := trendScore*0.4 +
		math.Min(float64(m.UsageCount), 50)*0.3 +
		math.Min(float64(m.UniqueUsers)*2, 30)*0.2 +
		(ratings.AverageRating/ratingScale)*20*0.1
	return schema.Round2(raw)
}

// computeVelocityScore measures adoption speed within a period (0-100).
// Fewer than two records carry no speed signal. All usage at a single
// instant counts as burst adoption and scores the maximum.
func computeVelocityScore(records []schema.UsageRecord) float64 {
	if len(records) < 2 {
		return 0
	}

	sorted := make([]schema.UsageRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].UsedAt.Before(sorted[j].UsedAt)
	})

	first := sorted[0].UsedAt
	last := sorted[len(sorted)-1].UsedAt
	if first.Equal(last) {
		return burstWindowScore
	}

	hours := last.Sub(first).Hours()
	usagePerHour := float64(len(sorted)) / hours
	return schema.Round2(math.Min(usagePerHour*10, 100))
}

// computeGrowthRate compares the current period's usage count against the
// immediately preceding period of the same kind. A template springing from
// zero scores a flat 100; otherwise the rate is a signed, unbounded
// percentage.
func computeGrowthRate(currentCount, previousCount int) float64 {
	if previousCount == 0 {
		if currentCount > 0 {
			return 100
		}
		return 0
	}
	return schema.Round2(100 * float64(currentCount-previousCount) / float64(previousCount))
}
