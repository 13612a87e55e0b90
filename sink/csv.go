// Package sink persists accumulated article records: to a local CSV file or
// SQLite database for the CLI, or to object storage for the serverless
// variant.
package sink

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/epark/newsharvest/article"
)

// TimestampedFilename inserts a UTC timestamp suffix before the extension,
// e.g. "guardian_data.csv" becomes "guardian_data_20250115_103000.csv".
func TimestampedFilename(base string, now time.Time) string {
	stamp := now.UTC().Format("20060102_150405")
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	return fmt.Sprintf("%s_%s%s", name, stamp, ext)
}

// WriteCSV writes records to path as CSV: one header row, then one row per
// record in accumulation order. It returns the number of records written.
// An I/O failure mid-write stops further writes but the rows already
// flushed remain valid, and the count written so far is returned alongside
// the error.
func WriteCSV(path string, records []article.Record) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(article.CSVHeader); err != nil {
		return 0, fmt.Errorf("failed to write CSV header: %w", err)
	}

	written := 0
	for i := range records {
		if err := w.Write(records[i].CSVRow()); err != nil {
			w.Flush()
			return written, fmt.Errorf("failed to write CSV row: %w", err)
		}
		// Flush per row so an interrupted run leaves complete rows on disk.
		w.Flush()
		if err := w.Error(); err != nil {
			return written, fmt.Errorf("failed to flush CSV row: %w", err)
		}
		written++
	}

	return written, nil
}

// SummaryCSV builds the object-storage summary CSV in memory, using the
// extended column set that carries the article ID and scrape time.
func SummaryCSV(records []article.Record) ([]byte, error) {
	var buf strings.Builder
	w := csv.NewWriter(&buf)

	if err := w.Write(article.SummaryCSVHeader); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for i := range records {
		if err := w.Write(records[i].SummaryCSVRow()); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to build summary CSV: %w", err)
	}

	return []byte(buf.String()), nil
}
