// Package stats computes read-only aggregate figures over scraped article
// records. Statistics never affect the stored records and are best effort:
// a failure yields an empty report, not an abort.
package stats

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/epark/newsharvest/article"
)

// DateRange holds the lexical min and max of the date-published field.
// Comparison is raw string order, not calendar order: inconsistent date
// formats will sort inconsistently, which matches the long-standing output
// of this report.
type DateRange struct {
	Earliest string `json:"earliest"`
	Latest   string `json:"latest"`
}

// Report summarizes one batch of scraped articles.
type Report struct {
	TotalArticles    int       `json:"total_articles"`
	UniqueAuthors    int       `json:"unique_authors"`
	AvgArticleLength float64   `json:"avg_article_length"`
	DateRange        DateRange `json:"date_range"`
}

// Compute builds a report from in-memory records.
func Compute(records []article.Record) Report {
	report := Report{TotalArticles: len(records)}
	if len(records) == 0 {
		return report
	}

	authors := make(map[string]struct{})
	totalLength := 0
	for i := range records {
		r := &records[i]
		if r.AuthorName != "" {
			authors[r.AuthorName] = struct{}{}
		}
		totalLength += len([]rune(r.Body))

		if r.DatePublished == "" {
			continue
		}
		if report.DateRange.Earliest == "" || r.DatePublished < report.DateRange.Earliest {
			report.DateRange.Earliest = r.DatePublished
		}
		if report.DateRange.Latest == "" || r.DatePublished > report.DateRange.Latest {
			report.DateRange.Latest = r.DatePublished
		}
	}

	report.UniqueAuthors = len(authors)
	report.AvgArticleLength = float64(totalLength) / float64(len(records))
	return report
}

// FromCSV re-reads a CSV file written by the local sink and reports over
// its rows. Column positions follow article.CSVHeader.
func FromCSV(path string) (Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return Report{}, fmt.Errorf("failed to open CSV: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return Report{}, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(rows) == 0 {
		return Report{}, fmt.Errorf("empty CSV file")
	}

	// Skip the header row; remaining rows map onto records positionally.
	records := make([]article.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) < len(article.CSVHeader) {
			continue
		}
		records = append(records, article.Record{
			Headline:      row[0],
			Body:          row[1],
			AuthorName:    row[2],
			DatePublished: row[3],
			Language:      row[4],
			Source:        row[5],
			URL:           row[6],
		})
	}

	return Compute(records), nil
}
