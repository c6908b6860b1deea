package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novametrics/reviewpulse/internal/domain"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reviews.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_ParsesCleanRows(t *testing.T) {
	path := writeTempCSV(t, `Review Text,Rating
Great product arrived on time,Rating 5
Terrible support experience,Rating 1
`)

	ds, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2, ds.Len())
}

func TestLoad_DropsUnusableRows(t *testing.T) {
	path := writeTempCSV(t, `Review Text,Rating
Usable row,Rating 3
,Rating 4
Missing rating token,N/A
Rating not a number,Rating five
`)

	ds, err := Load(path)
	require.NoError(t, err)

	// Only the first data row survives: empty text and unparseable ratings
	// are dropped.
	assert.Equal(t, 1, ds.Len())
	assert.Equal(t, domain.RawReview{Text: "Usable row", Rating: 3}, ds.Sample())
}

func TestLoad_MissingColumns(t *testing.T) {
	path := writeTempCSV(t, `Text,Score
hello,5
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestSample_DrawsFromRows(t *testing.T) {
	rows := []domain.RawReview{
		{Text: "first", Rating: 1},
		{Text: "second", Rating: 2},
	}
	ds := FromRows(rows)

	for i := 0; i < 20; i++ {
		got := ds.Sample()
		assert.Contains(t, rows, got)
	}
}

func TestParseRating(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   int
		wantOK bool
	}{
		{"standard encoding", "Rating 4", 4, true},
		{"extra whitespace", "  Rating   2  ", 2, true},
		{"single token", "N/A", 0, false},
		{"non-numeric value", "Rating five", 0, false},
		{"empty", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseRating(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
