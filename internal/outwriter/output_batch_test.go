package outwriter

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/modelbay/templatrend/internal/contract"
	"github.com/modelbay/templatrend/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBatchResult() *schema.BatchResult {
	return &schema.BatchResult{
		Period:        schema.WeeklyPeriod,
		PeriodStart:   time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC),
		Calculated:    9,
		Skipped:       3,
		PersonalCount: 6,
		VerifiedCount: 3,
		TopTemplate: &schema.RankingRecord{
			TemplateID:   "tmpl-alpha",
			TemplateType: schema.PersonalTemplate,
			TrendScore:   88.4,
		},
		Failures: []schema.TemplateFailure{
			{
				Template: schema.TemplateRef{TemplateID: "tmpl-broken", TemplateType: schema.VerifiedTemplate},
				Reason:   "usage query timed out",
			},
		},
	}
}

func TestWriteBatchSummary(t *testing.T) {
	cfg := &contract.Config{
		Precision:    1,
		Workers:      4,
		StoreBackend: schema.SQLiteBackend,
		UseColors:    false,
		Width:        120,
	}

	var buf bytes.Buffer
	err := writeBatchSummary(sampleBatchResult(), cfg, 250*time.Millisecond, &buf)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Recomputed weekly rankings for 2026-08-23")
	assert.Contains(t, output, "Calculated: 9 (personal: 6, verified: 3), skipped: 3, failed: 1")
	assert.Contains(t, output, "tmpl-alpha")
	assert.Contains(t, output, "88.4")
	assert.Contains(t, output, "tmpl-broken")
	assert.Contains(t, output, "usage query timed out")
	assert.Contains(t, output, "Batch completed in 250ms with 4 workers")
}

func TestWriteBatchSummaryNoFailures(t *testing.T) {
	cfg := &contract.Config{Precision: 1, Workers: 2, StoreBackend: schema.NoneBackend, Width: 120}
	result := sampleBatchResult()
	result.Failures = nil
	result.TopTemplate = nil

	var buf bytes.Buffer
	err := writeBatchSummary(result, cfg, 10*time.Millisecond, &buf)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "failed: 0")
	assert.NotContains(t, output, "Top template")
}

func TestWriteCSVResultsForBatch(t *testing.T) {
	var buf bytes.Buffer
	err := writeCSVResultsForBatch(&buf, sampleBatchResult())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	assert.Contains(t, lines[0], "period_start")
	assert.Contains(t, lines[1], "weekly")
	assert.Contains(t, lines[1], "2026-08-23")
	assert.Contains(t, lines[1], "tmpl-alpha")
}
