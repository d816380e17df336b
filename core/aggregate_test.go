package core

import (
	"testing"
	"time"

	"github.com/modelbay/templatrend/schema"
	"github.com/stretchr/testify/assert"
)

// TestAggregateUsage tests the reduction of usage records into metrics.
func TestAggregateUsage(t *testing.T) {
	at := time.Date(2026, 8, 17, 9, 0, 0, 0, time.UTC)
	rec := func(user string, ok bool, execMs int64) schema.UsageRecord {
		return schema.UsageRecord{
			TemplateID:      "tmpl-a",
			TemplateType:    schema.PersonalTemplate,
			UserID:          user,
			UsedAt:          at,
			ExecutionTimeMs: execMs,
			WasSuccessful:   ok,
		}
	}

	t.Run("no records yields zero metrics", func(t *testing.T) {
		assert.Equal(t, schema.UsageMetrics{}, AggregateUsage(nil))
	})

	t.Run("mixed records", func(t *testing.T) {
		records := []schema.UsageRecord{
			rec("u1", true, 100),
			rec("u1", true, 200),
			rec("u2", true, 300),
			rec("u2", true, 0), // successful but unmeasured
			rec("u3", true, 0),
			rec("u3", true, 0),
			rec("u1", false, 9999), // failed runs never count toward exec time
			rec("u2", false, 0),
		}
		metrics := AggregateUsage(records)

		assert.Equal(t, 8, metrics.UsageCount)
		assert.Equal(t, 3, metrics.UniqueUsers)
		assert.InDelta(t, 75.0, metrics.SuccessRate, 0.001)
		assert.InDelta(t, 200.0, metrics.AverageExecutionTime, 0.001)
	})

	t.Run("all failures", func(t *testing.T) {
		records := []schema.UsageRecord{
			rec("u1", false, 100),
			rec("u2", false, 200),
		}
		metrics := AggregateUsage(records)

		assert.Equal(t, 2, metrics.UsageCount)
		assert.Zero(t, metrics.SuccessRate)
		assert.Zero(t, metrics.AverageExecutionTime)
	})

	t.Run("no measured executions", func(t *testing.T) {
		records := []schema.UsageRecord{
			rec("u1", true, 0),
			rec("u2", true, 0),
		}
		metrics := AggregateUsage(records)

		assert.InDelta(t, 100.0, metrics.SuccessRate, 0.001)
		assert.Zero(t, metrics.AverageExecutionTime)
	})

	t.Run("success rate rounds to two decimals", func(t *testing.T) {
		records := []schema.UsageRecord{
			rec("u1", true, 0),
			rec("u2", true, 0),
			rec("u3", false, 0),
		}
		metrics := AggregateUsage(records)
		assert.InDelta(t, 66.67, metrics.SuccessRate, 0.001)
	})
}
