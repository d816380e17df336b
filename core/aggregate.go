package core

import (
	"github.com/modelbay/templatrend/schema"
)

// AggregateUsage reduces one template's usage records for a period into
// usage metrics. Success rate is a 0-100 percentage; average execution time
// only considers successful records with a positive measurement. A template
// with zero records produces zero metrics, and the caller skips it entirely
// rather than persisting a zero-score record.
func AggregateUsage(records []schema.UsageRecord) schema.UsageMetrics {
	if len(records) == 0 {
		return schema.UsageMetrics{}
	}

	users := make(map[string]struct{}, len(records))
	successful := 0
	var execTotal int64
	execSamples := 0

	for _, r := range records {
		users[r.UserID] = struct{}{}
		if !r.WasSuccessful {
			continue
		}
		successful++
		if r.ExecutionTimeMs > 0 {
			execTotal += r.ExecutionTimeMs
			execSamples++
		}
	}

	metrics := schema.UsageMetrics{
		UsageCount:  len(records),
		UniqueUsers: len(users),
		SuccessRate: schema.Round2(100 * float64(successful) / float64(len(records))),
	}
	if execSamples > 0 {
		metrics.AverageExecutionTime = schema.Round2(float64(execTotal) / float64(execSamples))
	}
	return metrics
}
