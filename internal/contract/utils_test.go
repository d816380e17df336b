package contract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modelbay/templatrend/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPlainLabel(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{
			name:     "smallest value possible",
			input:    0.0,
			expected: QuietValue,
		},
		{
			name:     "just before moderate",
			input:    39.9,
			expected: QuietValue,
		},
		{
			name:     "exactly moderate",
			input:    40.0,
			expected: ModerateValue,
		},
		{
			name:     "just before strong",
			input:    59.9,
			expected: ModerateValue,
		},
		{
			name:     "exactly strong",
			input:    60.0,
			expected: StrongValue,
		},
		{
			name:     "just before top",
			input:    79.9,
			expected: StrongValue,
		},
		{
			name:     "exactly top",
			input:    80.0,
			expected: TopValue,
		},
		{
			name:     "largest value possible",
			input:    100.0,
			expected: TopValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetPlainLabel(tt.input))
		})
	}
}

func TestGetColorLabel(t *testing.T) {
	// Colored output still carries the plain label text.
	for _, score := range []float64{0, 45, 65, 90} {
		assert.Contains(t, GetColorLabel(score), GetPlainLabel(score))
	}
}

func TestGetStatusLabel(t *testing.T) {
	for _, status := range []schema.PromotionStatus{
		schema.StatusPending,
		schema.StatusUnderReview,
		schema.StatusApproved,
		schema.StatusRejected,
		schema.StatusImplemented,
	} {
		assert.Contains(t, GetStatusLabel(status), string(status))
	}
}

func TestTruncateID(t *testing.T) {
	assert.Equal(t, "short", TruncateID("short", 10))
	assert.Equal(t, "exactly-ten", TruncateID("exactly-ten", 11))
	assert.Equal(t, "a-very-...", TruncateID("a-very-long-template-id", 10))
	assert.Len(t, TruncateID("a-very-long-template-id", 10), 10)

	// Widths too small for an ellipsis pass through unchanged.
	assert.Equal(t, "abcdef", TruncateID("abcdef", 3))
}

func TestSelectOutputFile(t *testing.T) {
	t.Run("empty path falls back to stdout", func(t *testing.T) {
		f, err := SelectOutputFile("")
		require.NoError(t, err)
		assert.Equal(t, os.Stdout, f)
	})

	t.Run("path creates the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.csv")
		f, err := SelectOutputFile(path)
		require.NoError(t, err)
		defer func() { _ = f.Close() }()

		_, err = f.WriteString("header\n")
		require.NoError(t, err)
		assert.FileExists(t, path)
	})
}

func TestGetStoreDBFilePath(t *testing.T) {
	path := GetStoreDBFilePath()
	assert.True(t, strings.HasSuffix(path, ".templatrend.db"))
}
