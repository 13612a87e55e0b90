// Command newsharvest scrapes articles listed in a news sitemap (or RSS
// feed) and writes them to a local CSV file or SQLite database.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/epark/newsharvest/article"
	"github.com/epark/newsharvest/config"
	"github.com/epark/newsharvest/feed"
	"github.com/epark/newsharvest/pipeline"
	"github.com/epark/newsharvest/sink"
	"github.com/epark/newsharvest/sitemap"
	"github.com/epark/newsharvest/stats"
)

// options holds the resolved command-line configuration.
type options struct {
	maxArticles int
	delay       float64
	output      string
	noTimestamp bool
	source      string
	format      string
}

func parseFlags() options {
	var opts options
	flag.IntVar(&opts.maxArticles, "max-articles",
		config.GetEnvInt("NEWSHARVEST_MAX_ARTICLES", config.DefaultMaxArticles),
		"Maximum number of articles to scrape (NEWSHARVEST_MAX_ARTICLES)")
	flag.Float64Var(&opts.delay, "delay",
		config.GetEnvFloat("NEWSHARVEST_DELAY", config.DefaultDelaySeconds),
		"Delay between requests in seconds (NEWSHARVEST_DELAY)")
	flag.StringVar(&opts.output, "output",
		config.GetEnv("NEWSHARVEST_OUTPUT", config.DefaultOutputFile),
		"Output CSV filename, or database path with -format sqlite (NEWSHARVEST_OUTPUT)")
	flag.BoolVar(&opts.noTimestamp, "no-timestamp",
		config.GetEnvBool("NEWSHARVEST_NO_TIMESTAMP", false),
		"Disable automatic timestamp suffix in the output filename")
	flag.StringVar(&opts.source, "source",
		config.GetEnv("NEWSHARVEST_SOURCE", "sitemap"),
		"Entry source: sitemap or feed (NEWSHARVEST_SOURCE)")
	flag.StringVar(&opts.format, "format",
		config.GetEnv("NEWSHARVEST_FORMAT", "csv"),
		"Output format: csv or sqlite (NEWSHARVEST_FORMAT)")
	flag.Parse()
	return opts
}

// newRunLogger creates a logger that tees to stdout and a log file named
// after the run start time. The file handle is returned for closing.
func newRunLogger(start time.Time) (*log.Logger, *os.File) {
	logName := fmt.Sprintf("newsharvest_log_%s.log", start.UTC().Format("20060102_150405"))
	f, err := os.Create(logName)
	if err != nil {
		// Fall back to stdout-only logging rather than refusing to run.
		log.Printf("Cannot create log file %s: %v", logName, err)
		return log.New(os.Stdout, "", log.LstdFlags), nil
	}
	return log.New(io.MultiWriter(os.Stdout, f), "", log.LstdFlags), f
}

// fetchEntries resolves the configured entry source.
func fetchEntries(ctx context.Context, opts options, fileCfg *config.FileConfig) ([]sitemap.Entry, error) {
	switch opts.source {
	case "feed":
		url := feed.DefaultURL
		if fileCfg != nil && fileCfg.FeedURL != "" {
			url = fileCfg.FeedURL
		}
		return feed.Fetch(ctx, url)
	case "sitemap":
		url := sitemap.DefaultURL
		if fileCfg != nil && fileCfg.SitemapURL != "" {
			url = fileCfg.SitemapURL
		}
		return sitemap.NewFetcher().Fetch(ctx, url)
	default:
		return nil, fmt.Errorf("unknown source %q (want sitemap or feed)", opts.source)
	}
}

// store writes records through the selected sink and returns the
// destination and count written.
func store(opts options, records []article.Record, logger *log.Logger) (string, int, error) {
	switch opts.format {
	case "sqlite":
		s, err := sink.NewSQLiteSink(opts.output)
		if err != nil {
			return "", 0, err
		}
		defer s.Close()
		n, err := s.Store(records)
		return opts.output, n, err
	case "csv":
		path := opts.output
		if !opts.noTimestamp {
			path = sink.TimestampedFilename(path, time.Now())
			logger.Printf("Output will be saved to: %s", path)
		}
		n, err := sink.WriteCSV(path, records)
		return path, n, err
	default:
		return "", 0, fmt.Errorf("unknown format %q (want csv or sqlite)", opts.format)
	}
}

func printStats(report stats.Report) {
	fmt.Println("\n=== Scraping Statistics ===")
	fmt.Printf("total_articles: %d\n", report.TotalArticles)
	fmt.Printf("unique_authors: %d\n", report.UniqueAuthors)
	fmt.Printf("date_range: %s .. %s\n", report.DateRange.Earliest, report.DateRange.Latest)
	fmt.Printf("avg_article_length: %.1f\n", report.AvgArticleLength)
}

func run(opts options) error {
	start := time.Now()
	logger, logFile := newRunLogger(start)
	if logFile != nil {
		defer logFile.Close()
	}

	fileCfg, err := config.LoadConfigFile()
	if err != nil {
		return err
	}

	selectors := article.DefaultSelectors()
	if fileCfg != nil && fileCfg.Selectors != nil {
		selectors = *fileCfg.Selectors
	}

	ctx := context.Background()

	entries, err := fetchEntries(ctx, opts, fileCfg)
	if err != nil {
		return fmt.Errorf("cannot proceed without entry data: %w", err)
	}
	logger.Printf("Found %d URLs from %s source", len(entries), opts.source)

	extractor := article.NewExtractorWith(&http.Client{Timeout: 30 * time.Second}, selectors)
	driver := pipeline.New(extractor)
	driver.SetLogger(logger)

	delay := time.Duration(opts.delay * float64(time.Second))
	records := driver.Run(ctx, entries, opts.maxArticles, delay)
	if len(records) == 0 {
		return fmt.Errorf("no articles were successfully scraped")
	}

	dest, written, err := store(opts, records, logger)
	if err != nil {
		// Rows written before the failure stay valid; report them.
		logger.Printf("Write aborted after %d records: %v", written, err)
		return err
	}
	logger.Printf("Scraping completed. %d articles saved to %s", written, dest)

	if opts.format == "csv" {
		report, statsErr := stats.FromCSV(dest)
		if statsErr != nil {
			logger.Printf("Failed to generate statistics: %v", statsErr)
		} else {
			printStats(report)
		}
	} else {
		printStats(stats.Compute(records))
	}

	return nil
}

func main() {
	opts := parseFlags()
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Scraping failed: %v\n", err)
		os.Exit(1)
	}
}
