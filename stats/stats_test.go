package stats

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epark/newsharvest/article"
	"github.com/epark/newsharvest/sink"
)

func batch() []article.Record {
	return []article.Record{
		{Headline: "A", Body: "12345", AuthorName: "Alice", DatePublished: "2025-01-10T08:00:00Z"},
		{Headline: "B", Body: "1234567", AuthorName: "Bob", DatePublished: "2025-01-12T08:00:00Z"},
		{Headline: "C", Body: "123", AuthorName: "Alice", DatePublished: "2025-01-08T08:00:00Z"},
		{Headline: "D", Body: "12345", DatePublished: ""},
	}
}

// TestCompute_Counts verifies totals and distinct non-empty authors
func TestCompute_Counts(t *testing.T) {
	report := Compute(batch())

	assert.Equal(t, 4, report.TotalArticles)
	assert.Equal(t, 2, report.UniqueAuthors)
	assert.Equal(t, 5.0, report.AvgArticleLength)
}

// TestCompute_DateRangeLexical verifies min/max use raw string comparison
// and skip empty dates
func TestCompute_DateRangeLexical(t *testing.T) {
	report := Compute(batch())

	assert.Equal(t, "2025-01-08T08:00:00Z", report.DateRange.Earliest)
	assert.Equal(t, "2025-01-12T08:00:00Z", report.DateRange.Latest)
}

// TestCompute_MixedFormatsStayLexical documents that inconsistent date
// formats compare as strings, not as calendar dates
func TestCompute_MixedFormatsStayLexical(t *testing.T) {
	records := []article.Record{
		{Headline: "A", Body: "x", DatePublished: "15 Jan 2025"},
		{Headline: "B", Body: "x", DatePublished: "2024-12-31T00:00:00Z"},
	}

	report := Compute(records)

	// "15..." sorts before "2024..." even though it is the later date.
	assert.Equal(t, "15 Jan 2025", report.DateRange.Earliest)
	assert.Equal(t, "2024-12-31T00:00:00Z", report.DateRange.Latest)
}

// TestCompute_Empty verifies an empty batch yields a zero report
func TestCompute_Empty(t *testing.T) {
	report := Compute(nil)

	assert.Zero(t, report.TotalArticles)
	assert.Zero(t, report.UniqueAuthors)
	assert.Zero(t, report.AvgArticleLength)
	assert.Empty(t, report.DateRange.Earliest)
}

// TestFromCSV verifies stats over a re-read sink file
func TestFromCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	records := batch()
	_, err := sink.WriteCSV(path, records)
	require.NoError(t, err)

	report, err := FromCSV(path)
	require.NoError(t, err)

	assert.Equal(t, 4, report.TotalArticles)
	assert.Equal(t, 2, report.UniqueAuthors)
	assert.Equal(t, "2025-01-08T08:00:00Z", report.DateRange.Earliest)
}

// TestFromCSV_MissingFile verifies a read failure yields an error and an
// empty report
func TestFromCSV_MissingFile(t *testing.T) {
	report, err := FromCSV(filepath.Join(t.TempDir(), "nope.csv"))

	assert.Error(t, err)
	assert.Zero(t, report.TotalArticles)
}
