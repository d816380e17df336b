package iostore

import (
	"testing"
	"time"

	"github.com/modelbay/templatrend/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRebind(t *testing.T) {
	query := "SELECT * FROM t WHERE a = ? AND b = ?"

	assert.Equal(t, query, rebind(query, schema.SQLiteBackend))
	assert.Equal(t, query, rebind(query, schema.MySQLBackend))
	assert.Equal(t,
		"SELECT * FROM t WHERE a = $1 AND b = $2",
		rebind(query, schema.PostgreSQLBackend))
}

func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, "`templatrend_rankings`", quoteTableName(rankingTable, schema.MySQLBackend))
	assert.Equal(t, `"templatrend_rankings"`, quoteTableName(rankingTable, schema.SQLiteBackend))
	assert.Equal(t, `"templatrend_rankings"`, quoteTableName(rankingTable, schema.PostgreSQLBackend))
}

func TestFormatTime(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)
	at := time.Date(2026, 8, 17, 14, 30, 0, 123456789, loc)

	t.Run("sqlite uses a fixed-width UTC string", func(t *testing.T) {
		v := formatTime(at, schema.SQLiteBackend)
		s, ok := v.(string)
		require.True(t, ok)
		assert.Equal(t, "2026-08-17T12:30:00.123456789Z", s)
	})

	t.Run("other backends bind native UTC time", func(t *testing.T) {
		v := formatTime(at, schema.PostgreSQLBackend)
		bound, ok := v.(time.Time)
		require.True(t, ok)
		assert.Equal(t, time.UTC, bound.Location())
		assert.True(t, bound.Equal(at))
	})
}

func TestScannedTime(t *testing.T) {
	want := time.Date(2026, 8, 17, 12, 30, 0, 500000000, time.UTC)

	tests := []struct {
		name  string
		value any
	}{
		{name: "native time", value: want},
		{name: "rfc3339 string", value: "2026-08-17T12:30:00.500000000Z"},
		{name: "mysql text bytes", value: []byte("2026-08-17 12:30:00.5")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got time.Time
			require.NoError(t, scannedTime{t: &got}.Scan(tt.value))
			assert.True(t, got.Equal(want), "got %v", got)
		})
	}

	t.Run("garbage string", func(t *testing.T) {
		var got time.Time
		assert.Error(t, scannedTime{t: &got}.Scan("not a timestamp"))
	})
}

func TestScannedNullTime(t *testing.T) {
	var got *time.Time
	require.NoError(t, scannedNullTime{t: &got}.Scan(nil))
	assert.Nil(t, got)

	require.NoError(t, scannedNullTime{t: &got}.Scan("2026-08-17T12:30:00.000000000Z"))
	require.NotNil(t, got)
	assert.Equal(t, 2026, got.Year())
}

func TestInPlaceholders(t *testing.T) {
	assert.Equal(t, "?", inPlaceholders(1))
	assert.Equal(t, "?, ?, ?", inPlaceholders(3))
	assert.Empty(t, inPlaceholders(0))
}

// TestSQLiteTimeOrdering guards the property range queries depend on:
// formatted strings compare chronologically.
func TestSQLiteTimeOrdering(t *testing.T) {
	early := formatTime(time.Date(2026, 8, 17, 9, 0, 0, 0, time.UTC), schema.SQLiteBackend).(string)
	late := formatTime(time.Date(2026, 8, 17, 10, 0, 0, 0, time.UTC), schema.SQLiteBackend).(string)
	assert.Less(t, early, late)
}
