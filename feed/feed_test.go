package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Example News</title>
  <link>https://example.com</link>
  <item>
    <title>First story</title>
    <link>https://example.com/first</link>
    <pubDate>Wed, 15 Jan 2025 10:00:00 GMT</pubDate>
  </item>
  <item>
    <title>No link story</title>
    <pubDate>Wed, 15 Jan 2025 11:00:00 GMT</pubDate>
  </item>
  <item>
    <title>Second story</title>
    <link>https://example.com/second</link>
    <pubDate>Wed, 15 Jan 2025 12:00:00 GMT</pubDate>
  </item>
</channel>
</rss>`

// TestFetch_AdaptsItemsInOrder verifies feed items become sitemap entries
// in feed order, dropping items without a link
func TestFetch_AdaptsItemsInOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(sampleRSS))
	}))
	defer srv.Close()

	entries, err := Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "https://example.com/first", entries[0].URL)
	assert.Equal(t, "2025-01-15T10:00:00Z", entries[0].LastModified)
	assert.Equal(t, "https://example.com/second", entries[1].URL)
}

// TestFetch_EmptyFeed verifies a feed with no usable items is an error
func TestFetch_EmptyFeed(t *testing.T) {
	empty := `<?xml version="1.0"?><rss version="2.0"><channel><title>Empty</title></channel></rss>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(empty))
	}))
	defer srv.Close()

	_, err := Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
}

// TestFetch_HTTPError verifies feed fetch failures propagate
func TestFetch_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
}
