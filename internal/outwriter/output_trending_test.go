package outwriter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/modelbay/templatrend/internal/contract"
	"github.com/modelbay/templatrend/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []schema.RankingRecord {
	start := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)
	return []schema.RankingRecord{
		{
			TemplateID:   "tmpl-alpha",
			TemplateType: schema.PersonalTemplate,
			Period:       schema.WeeklyPeriod,
			PeriodStart:  start,
			UsageCount:   120,
			UniqueUsers:  40,
			SuccessRate:  92.5,
			TrendScore:   81.3,
			RankPosition: 1,
		},
		{
			TemplateID:   "tmpl-beta",
			TemplateType: schema.PersonalTemplate,
			Period:       schema.WeeklyPeriod,
			PeriodStart:  start,
			UsageCount:   60,
			UniqueUsers:  15,
			SuccessRate:  85.0,
			TrendScore:   55.7,
			RankPosition: 2,
		},
	}
}

func TestWriteTrendingTable(t *testing.T) {
	cfg := &contract.Config{
		Output:       schema.TextOut,
		Precision:    1,
		Period:       schema.WeeklyPeriod,
		StoreBackend: schema.SQLiteBackend,
		UseColors:    false,
		Width:        120,
	}

	var buf bytes.Buffer
	fmtFloat, intFmt := createFormatters(cfg.Precision)
	err := writeTrendingTable(sampleRecords(), cfg, fmtFloat, intFmt, 100*time.Millisecond, &buf)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "tmpl-alpha")
	assert.Contains(t, output, "tmpl-beta")
	assert.Contains(t, output, "81.3")
	assert.Contains(t, output, "Top")
	assert.Contains(t, output, "Quiet")
	assert.Contains(t, output, "Showing top 2 templates for weekly of 2026-08-23")
	assert.Contains(t, output, "Query completed in 100ms")
}

func TestWriteCSVResultsForTrending(t *testing.T) {
	fmtFloat, intFmt := createFormatters(2)

	var buf bytes.Buffer
	err := writeCSVResultsForTrending(&buf, sampleRecords(), fmtFloat, intFmt)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3) // header + 2 rows

	assert.Contains(t, lines[0], "rank")
	assert.Contains(t, lines[0], "template_id")
	assert.Contains(t, lines[0], "trend_score")

	assert.Contains(t, lines[1], "tmpl-alpha")
	assert.Contains(t, lines[1], "81.30")
	assert.Contains(t, lines[1], "Top")
	assert.Contains(t, lines[2], "tmpl-beta")
	assert.Contains(t, lines[2], "Quiet")
}

func TestWriteCSVResultsForTrendingEmpty(t *testing.T) {
	fmtFloat, intFmt := createFormatters(2)

	var buf bytes.Buffer
	err := writeCSVResultsForTrending(&buf, nil, fmtFloat, intFmt)
	require.NoError(t, err)

	// Should only have header
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "rank")
}

func TestWriteJSONResultsForTrending(t *testing.T) {
	var buf bytes.Buffer
	err := writeJSONResultsForTrending(&buf, sampleRecords())
	require.NoError(t, err)

	// Parse the JSON to verify structure
	var result []map[string]any
	err = json.Unmarshal(buf.Bytes(), &result)
	require.NoError(t, err)
	require.Len(t, result, 2)

	assert.Equal(t, float64(1), result[0]["rank_position"])
	assert.Equal(t, "tmpl-alpha", result[0]["template_id"])
	assert.Equal(t, 81.3, result[0]["trend_score"])
	assert.Equal(t, "Top", result[0]["label"])
	assert.Equal(t, "Quiet", result[1]["label"])
}

func TestPeriodLabel(t *testing.T) {
	records := sampleRecords()
	cfg := &contract.Config{}

	assert.Equal(t, "2026-08-23", periodLabel(cfg, records))
	assert.Equal(t, "current", periodLabel(cfg, nil))

	cfg.PeriodStart = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-08-01", periodLabel(cfg, nil))
}
