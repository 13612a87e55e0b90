package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/epark/newsharvest/config"
	"github.com/epark/newsharvest/pipeline"
	"github.com/epark/newsharvest/sink"
	"github.com/epark/newsharvest/sitemap"
	"github.com/epark/newsharvest/stats"
)

// defaultBucket receives uploads when neither the environment nor the event
// names one.
const defaultBucket = "newsharvest-articles"

// ScrapeEvent is the invocation payload. Every field is optional; the
// environment takes precedence over event values, which take precedence
// over built-in defaults.
type ScrapeEvent struct {
	S3Bucket    string   `json:"s3_bucket,omitempty"`
	MaxArticles *int     `json:"max_articles,omitempty"`
	Delay       *float64 `json:"delay,omitempty"`
}

// Response is the HTTP-style invocation result.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// resultBody is the JSON document serialized into Response.Body.
type resultBody struct {
	Success           bool          `json:"success"`
	ArticlesScraped   int           `json:"articles_scraped"`
	S3Bucket          string        `json:"s3_bucket,omitempty"`
	S3Key             string        `json:"s3_key,omitempty"`
	TextFilesUploaded int           `json:"text_files_uploaded,omitempty"`
	TextFileKeys      []string      `json:"text_file_keys,omitempty"`
	Statistics        *stats.Report `json:"statistics,omitempty"`
	Error             string        `json:"error,omitempty"`
}

// Handler runs one scrape-and-upload batch per invocation.
type Handler struct {
	fetcher    *sitemap.Fetcher
	extractor  pipeline.Extractor
	uploader   sink.ObjectUploader
	sitemapURL string
	prefixRoot string
	logger     *log.Logger
	now        func() time.Time
}

// NewHandler wires a handler from its collaborators. sitemapURL and
// prefixRoot fall back to their defaults when empty.
func NewHandler(fetcher *sitemap.Fetcher, extractor pipeline.Extractor, uploader sink.ObjectUploader, sitemapURL, prefixRoot string) *Handler {
	if sitemapURL == "" {
		sitemapURL = sitemap.DefaultURL
	}
	return &Handler{
		fetcher:    fetcher,
		extractor:  extractor,
		uploader:   uploader,
		sitemapURL: sitemapURL,
		prefixRoot: prefixRoot,
		logger:     log.Default(),
		now:        time.Now,
	}
}

// resolveSettings applies the env > event > default precedence.
func resolveSettings(event ScrapeEvent) (bucket string, maxArticles int, delay float64) {
	bucket = event.S3Bucket
	if bucket == "" {
		bucket = defaultBucket
	}
	bucket = config.GetEnv("S3_BUCKET", bucket)

	maxArticles = config.DefaultMaxArticles
	if event.MaxArticles != nil {
		maxArticles = *event.MaxArticles
	}
	maxArticles = config.GetEnvInt("MAX_ARTICLES", maxArticles)

	delay = config.DefaultDelaySeconds
	if event.Delay != nil {
		delay = *event.Delay
	}
	delay = config.GetEnvFloat("DELAY", delay)

	return bucket, maxArticles, delay
}

// Handle executes one batch. It always returns a well-formed Response:
// failures are reported through statusCode 500 and the body's error field,
// never as a handler error.
func (h *Handler) Handle(ctx context.Context, event ScrapeEvent) (Response, error) {
	bucket, maxArticles, delay := resolveSettings(event)
	h.logger.Printf("Lambda execution started with bucket: %s, max_articles: %d, delay: %.1f", bucket, maxArticles, delay)

	entries, err := h.fetcher.Fetch(ctx, h.sitemapURL)
	if err != nil {
		h.logger.Printf("Cannot proceed without sitemap data: %v", err)
		return failure(0, err.Error()), nil
	}
	h.logger.Printf("Found %d URLs in sitemap", len(entries))

	driver := pipeline.New(h.extractor)
	driver.SetLogger(h.logger)
	records := driver.Run(ctx, entries, maxArticles, time.Duration(delay*float64(time.Second)))
	if len(records) == 0 {
		return failure(0, "no articles were successfully scraped"), nil
	}

	objectSink := sink.NewObjectSink(h.uploader, bucket, h.prefixRoot, h.now())
	objectSink.SetLogger(h.logger)

	summaryKey, err := objectSink.StoreSummary(ctx, records)
	if err != nil {
		h.logger.Printf("Failed to upload articles: %v", err)
		return failure(len(records), fmt.Sprintf("scraping succeeded but upload failed: %v", err)), nil
	}

	textKeys := objectSink.StoreArticleTexts(ctx, records)
	report := stats.Compute(records)

	h.logger.Printf("Lambda execution completed successfully: %d articles scraped", len(records))
	return respond(200, resultBody{
		Success:           true,
		ArticlesScraped:   len(records),
		S3Bucket:          bucket,
		S3Key:             summaryKey,
		TextFilesUploaded: len(textKeys),
		TextFileKeys:      textKeys,
		Statistics:        &report,
	}), nil
}

func failure(scraped int, msg string) Response {
	return respond(500, resultBody{
		Success:         false,
		ArticlesScraped: scraped,
		Error:           msg,
	})
}

func respond(status int, body resultBody) Response {
	data, err := json.Marshal(body)
	if err != nil {
		// Marshaling a resultBody cannot realistically fail; keep the
		// contract anyway.
		return Response{StatusCode: 500, Body: fmt.Sprintf(`{"success":false,"error":%q}`, err.Error())}
	}
	return Response{StatusCode: status, Body: string(data)}
}
