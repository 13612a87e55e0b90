// Package pipeline drives the sequential scrape loop: walk sitemap entries
// in order, extract each article, enforce the inter-request delay, and
// accumulate successful records.
package pipeline

import (
	"context"
	"log"
	"time"

	"github.com/epark/newsharvest/article"
	"github.com/epark/newsharvest/sitemap"
)

// Extractor produces a record for one article URL. A nil record with an
// error means "skip this entry"; the run continues.
type Extractor interface {
	Extract(ctx context.Context, url string) (*article.Record, error)
}

// Result is the terminal output of one pipeline run.
type Result struct {
	Success       bool     `json:"success"`
	Count         int      `json:"articles_scraped"`
	Error         string   `json:"error,omitempty"`
	SinkLocations []string `json:"sink_locations,omitempty"`
}

// Driver iterates sitemap entries and accumulates extracted records. One
// request is in flight at a time; the only scheduling is a fixed sleep
// between article fetches.
type Driver struct {
	extractor Extractor
	logger    *log.Logger
	sleep     func(time.Duration)
}

// New creates a driver using the given extractor and the standard logger.
func New(extractor Extractor) *Driver {
	return &Driver{
		extractor: extractor,
		logger:    log.Default(),
		sleep:     time.Sleep,
	}
}

// SetLogger replaces the driver's logger.
func (d *Driver) SetLogger(logger *log.Logger) {
	d.logger = logger
}

// SetSleep replaces the sleep function. Tests use this to observe rate
// limiting without waiting.
func (d *Driver) SetSleep(sleep func(time.Duration)) {
	d.sleep = sleep
}

// Run walks entries in order until maxArticles records are accumulated or
// the entries are exhausted. Each entry is extracted independently; a
// failure is logged and skipped. The delay sleep runs after an entry only
// when more entries remain and the cap has not been reached, so at most
// len(entries)-1 sleeps are issued. Emitted records preserve sitemap order.
func (d *Driver) Run(ctx context.Context, entries []sitemap.Entry, maxArticles int, delay time.Duration) []article.Record {
	d.logger.Printf("Starting scrape of up to %d articles", maxArticles)

	records := make([]article.Record, 0, maxArticles)
	for i, entry := range entries {
		if len(records) >= maxArticles {
			break
		}

		rec, err := d.extractor.Extract(ctx, entry.URL)
		if err != nil {
			d.logger.Printf("Skipping %s: %v", entry.URL, err)
		} else if rec != nil {
			records = append(records, *rec)
			d.logger.Printf("Scraped article %d/%d: %s", len(records), maxArticles, truncate(rec.Headline, 50))
		}

		if i < len(entries)-1 && len(records) < maxArticles {
			d.sleep(delay)
		}
	}

	d.logger.Printf("Scrape finished with %d articles", len(records))
	return records
}

// truncate shortens s to at most n runes for log lines.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
