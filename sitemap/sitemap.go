// Package sitemap fetches and parses news sitemap XML into an ordered list
// of article entries.
package sitemap

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultURL is the Guardian news sitemap fetched when no other source is
// configured.
const DefaultURL = "https://www.theguardian.com/sitemaps/news.xml"

// DefaultTimeout bounds the sitemap request.
const DefaultTimeout = 30 * time.Second

// ErrNoEntries is returned when the sitemap parses but contains no entry
// with both a location and a last-modified value.
var ErrNoEntries = errors.New("no usable entries in sitemap")

// Entry is a single article listed in the sitemap. Both fields are always
// non-empty; <url> blocks missing either are dropped during parsing.
type Entry struct {
	URL          string
	LastModified string
}

// urlSet is the root element of a sitemap XML document.
type urlSet struct {
	XMLName xml.Name `xml:"urlset"`
	URLs    []rawURL `xml:"url"`
}

// rawURL is a single <url> block inside a <urlset>.
type rawURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod"`
}

// Fetcher retrieves and parses sitemaps over HTTP.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// NewFetcher creates a fetcher with the default 30 second timeout.
func NewFetcher() *Fetcher {
	return NewFetcherWithClient(&http.Client{Timeout: DefaultTimeout})
}

// NewFetcherWithClient creates a fetcher using the given HTTP client.
func NewFetcherWithClient(client *http.Client) *Fetcher {
	return &Fetcher{
		client:    client,
		userAgent: "newsharvest/1.0 (news sitemap scraper)",
	}
}

// Fetch downloads the sitemap at url and returns its entries in document
// order. A network or HTTP-status failure is returned as an error; entries
// missing a location or last-modified value are silently dropped. If nothing
// survives the drop, ErrNoEntries is returned.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sitemap: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sitemap HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read sitemap body: %w", err)
	}

	return Parse(body)
}

// Parse decodes sitemap XML and returns the entries carrying both a
// location and a last-modified value, in document order.
func Parse(data []byte) ([]Entry, error) {
	var set urlSet
	if err := xml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse sitemap XML: %w", err)
	}

	entries := make([]Entry, 0, len(set.URLs))
	for _, u := range set.URLs {
		loc := strings.TrimSpace(u.Loc)
		lastMod := strings.TrimSpace(u.LastMod)
		if loc == "" || lastMod == "" {
			continue
		}
		entries = append(entries, Entry{URL: loc, LastModified: lastMod})
	}

	if len(entries) == 0 {
		return nil, ErrNoEntries
	}

	return entries, nil
}
