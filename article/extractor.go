// Package article extracts structured article data from news pages using
// ordered CSS selector fallback lists.
package article

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
)

// Selectors holds the per-field fallback lists. For each field the rules
// are tried in order and the first one yielding non-empty text wins; later
// rules are never consulted once one matches.
type Selectors struct {
	Headline []string `yaml:"headline"`
	Body     []string `yaml:"body"`
	Author   []string `yaml:"author"`
	Date     []string `yaml:"date"`
}

// DefaultSelectors returns the fallback lists tuned for Guardian article
// markup, from most specific to most generic.
func DefaultSelectors() Selectors {
	return Selectors{
		Headline: []string{
			`h1[data-gu-name="headline"]`,
			"h1.content__headline",
			"h1",
		},
		Body: []string{
			`[data-gu-name="body"] p`,
			".content__article-body p",
			".article-body p",
			`div[data-component="text-block"] p`,
		},
		Author: []string{
			`[data-component="contributor-byline"] a`,
			".byline a",
			`[rel="author"]`,
		},
		Date: []string{
			"time[datetime]",
			`[data-component="timestamp"] time`,
			".content__dateline time",
		},
	}
}

// Extractor fetches article pages and applies selector fallback extraction.
type Extractor struct {
	client    *http.Client
	selectors Selectors
	userAgent string
	language  string
}

// NewExtractor creates an extractor with the default selectors and a
// 30 second HTTP timeout.
func NewExtractor() *Extractor {
	return NewExtractorWith(&http.Client{Timeout: 30 * time.Second}, DefaultSelectors())
}

// NewExtractorWith creates an extractor using the given HTTP client and
// selector lists.
func NewExtractorWith(client *http.Client, selectors Selectors) *Extractor {
	return &Extractor{
		client:    client,
		selectors: selectors,
		userAgent: "Mozilla/5.0 (compatible; newsharvest/1.0)",
		language:  "en",
	}
}

// Extract fetches the page at articleURL and extracts a Record. A fetch or
// parse failure, or a page missing a headline or body, returns a nil Record
// and an error describing why; callers treat this as "skip", not as fatal.
func (e *Extractor) Extract(ctx context.Context, articleURL string) (*Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, articleURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch article: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("article HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse article HTML: %w", err)
	}

	return e.FromDocument(doc, articleURL)
}

// FromDocument extracts a Record from an already-parsed document. The
// operation is side-effect free: the same document always yields the same
// record. A document missing a headline or body yields a nil Record.
func (e *Extractor) FromDocument(doc *goquery.Document, articleURL string) (*Record, error) {
	headline := firstText(doc, e.selectors.Headline)
	if headline == "" {
		return nil, fmt.Errorf("no headline found at %s", articleURL)
	}

	body := joinedParagraphs(doc, e.selectors.Body)
	if body == "" {
		return nil, fmt.Errorf("no article body found at %s", articleURL)
	}

	return &Record{
		ID:            uuid.New(),
		Headline:      headline,
		Body:          body,
		AuthorName:    joinedText(doc, e.selectors.Author, ", "),
		DatePublished: firstAttr(doc, e.selectors.Date, "datetime"),
		Language:      e.language,
		Source:        hostOf(articleURL),
		URL:           articleURL,
		ScrapedAt:     time.Now().UTC(),
	}, nil
}

// firstText returns the trimmed text of the first element matched by the
// first selector that matches anything.
func firstText(doc *goquery.Document, selectors []string) string {
	for _, sel := range selectors {
		if text := strings.TrimSpace(doc.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

// joinedParagraphs joins the non-empty texts of all elements matched by the
// first matching selector with a blank-line separator.
func joinedParagraphs(doc *goquery.Document, selectors []string) string {
	for _, sel := range selectors {
		var parts []string
		doc.Find(sel).Each(func(i int, s *goquery.Selection) {
			if text := strings.TrimSpace(s.Text()); text != "" {
				parts = append(parts, text)
			}
		})
		if len(parts) > 0 {
			return strings.Join(parts, "\n\n")
		}
	}
	return ""
}

// joinedText joins the non-empty texts of all elements matched by the first
// matching selector with the given separator.
func joinedText(doc *goquery.Document, selectors []string, sep string) string {
	for _, sel := range selectors {
		var parts []string
		doc.Find(sel).Each(func(i int, s *goquery.Selection) {
			if text := strings.TrimSpace(s.Text()); text != "" {
				parts = append(parts, text)
			}
		})
		if len(parts) > 0 {
			return strings.Join(parts, sep)
		}
	}
	return ""
}

// firstAttr walks the fallback list until a selector's first match carries
// a non-empty value for the named attribute, and returns that value.
func firstAttr(doc *goquery.Document, selectors []string, attr string) string {
	for _, sel := range selectors {
		if val, ok := doc.Find(sel).First().Attr(attr); ok && strings.TrimSpace(val) != "" {
			return strings.TrimSpace(val)
		}
	}
	return ""
}

// hostOf returns the hostname of a URL, or the raw string if it cannot be
// parsed.
func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}
