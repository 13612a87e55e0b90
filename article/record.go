package article

import (
	"time"

	"github.com/google/uuid"
)

// Record represents one scraped article. Headline and Body are always
// non-empty; an extraction missing either never produces a Record.
// Records are never mutated after extraction.
type Record struct {
	ID            uuid.UUID `json:"article_id"`
	Headline      string    `json:"headline"`
	Body          string    `json:"article_body"`
	AuthorName    string    `json:"author_name"`
	DatePublished string    `json:"date_published"`
	Language      string    `json:"language"`
	Source        string    `json:"source"`
	URL           string    `json:"url"`
	ScrapedAt     time.Time `json:"scraped_at"`
}

// CSVHeader is the column order used by the local CSV sink.
var CSVHeader = []string{
	"headline", "article_body", "author_name", "date_published",
	"language", "source", "url",
}

// SummaryCSVHeader is the column order used by the object-storage summary
// blob, which additionally carries the article ID and scrape time.
var SummaryCSVHeader = []string{
	"article_id", "headline", "article_body", "author_name",
	"date_published", "language", "source", "url", "scraped_at",
}

// CSVRow returns the record's values in CSVHeader order.
func (r *Record) CSVRow() []string {
	return []string{
		r.Headline, r.Body, r.AuthorName, r.DatePublished,
		r.Language, r.Source, r.URL,
	}
}

// SummaryCSVRow returns the record's values in SummaryCSVHeader order.
func (r *Record) SummaryCSVRow() []string {
	return []string{
		r.ID.String(), r.Headline, r.Body, r.AuthorName,
		r.DatePublished, r.Language, r.Source, r.URL,
		r.ScrapedAt.UTC().Format(time.RFC3339),
	}
}

// TextBlob returns the newline-joined plain-text form uploaded as a
// per-article object: headline, author, date, body.
func (r *Record) TextBlob() string {
	return r.Headline + "\n" + r.AuthorName + "\n" + r.DatePublished + "\n" + r.Body
}
