package sink

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/epark/newsharvest/article"
)

// SQLiteSink stores article records in a local SQLite database as an
// alternative to the CSV file.
type SQLiteSink struct {
	db *sql.DB
}

// NewSQLiteSink opens (creating if needed) the database at dbPath and
// ensures the articles table exists.
func NewSQLiteSink(dbPath string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &SQLiteSink{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

// initSchema creates the articles table if it doesn't exist.
func (s *SQLiteSink) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS articles (
		article_id TEXT PRIMARY KEY,
		headline TEXT NOT NULL,
		article_body TEXT NOT NULL,
		author_name TEXT,
		date_published TEXT,
		language TEXT,
		source TEXT,
		url TEXT NOT NULL,
		scraped_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}

// Store inserts records one at a time in accumulation order and returns the
// number inserted. A failure stops further inserts; rows already inserted
// remain valid.
func (s *SQLiteSink) Store(records []article.Record) (int, error) {
	query := `INSERT INTO articles
		(article_id, headline, article_body, author_name, date_published, language, source, url, scraped_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	written := 0
	for i := range records {
		r := &records[i]
		_, err := s.db.Exec(query,
			r.ID.String(), r.Headline, r.Body, r.AuthorName,
			r.DatePublished, r.Language, r.Source, r.URL,
			r.ScrapedAt.UTC().Format(time.RFC3339))
		if err != nil {
			return written, fmt.Errorf("failed to insert article %s: %w", r.ID, err)
		}
		written++
	}

	return written, nil
}

// Count returns the number of stored articles.
func (s *SQLiteSink) Count() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM articles").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count articles: %w", err)
	}
	return n, nil
}

// List returns all stored articles ordered by scrape time, oldest first.
func (s *SQLiteSink) List() ([]article.Record, error) {
	rows, err := s.db.Query(`SELECT article_id, headline, article_body, author_name,
		date_published, language, source, url, scraped_at
		FROM articles ORDER BY scraped_at, article_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	var records []article.Record
	for rows.Next() {
		var r article.Record
		var id, scrapedAt string
		if err := rows.Scan(&id, &r.Headline, &r.Body, &r.AuthorName,
			&r.DatePublished, &r.Language, &r.Source, &r.URL, &scrapedAt); err != nil {
			return nil, fmt.Errorf("failed to scan article row: %w", err)
		}
		if parsed, err := uuid.Parse(id); err == nil {
			r.ID = parsed
		}
		if ts, err := time.Parse(time.RFC3339, scrapedAt); err == nil {
			r.ScrapedAt = ts
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read article rows: %w", err)
	}

	return records, nil
}
