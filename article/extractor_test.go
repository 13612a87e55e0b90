package article

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullArticle = `<html><body>
<h1 data-gu-name="headline">Parliament votes on new bill</h1>
<div data-gu-name="body">
  <p>First paragraph of the story.</p>
  <p>Second paragraph of the story.</p>
  <p>   </p>
</div>
<div data-component="contributor-byline"><a>Alice Writer</a><a>Bob Reporter</a></div>
<time datetime="2025-01-15T10:30:00Z">15 Jan 2025</time>
</body></html>`

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

// TestFromDocument_AllFields verifies extraction of a complete article
func TestFromDocument_AllFields(t *testing.T) {
	doc := parseDoc(t, fullArticle)

	rec, err := NewExtractor().FromDocument(doc, "https://www.theguardian.com/politics/2025/jan/15/bill")
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, "Parliament votes on new bill", rec.Headline)
	assert.Equal(t, "First paragraph of the story.\n\nSecond paragraph of the story.", rec.Body)
	assert.Equal(t, "Alice Writer, Bob Reporter", rec.AuthorName)
	assert.Equal(t, "2025-01-15T10:30:00Z", rec.DatePublished)
	assert.Equal(t, "en", rec.Language)
	assert.Equal(t, "www.theguardian.com", rec.Source)
	assert.NotEmpty(t, rec.ID)
	assert.False(t, rec.ScrapedAt.IsZero())
}

// TestFromDocument_HeadlineFallback verifies later selectors are used only
// when earlier ones match nothing
func TestFromDocument_HeadlineFallback(t *testing.T) {
	html := `<html><body>
<h1>Plain heading</h1>
<div data-component="text-block"><p>Body text.</p></div>
</body></html>`
	doc := parseDoc(t, html)

	rec, err := NewExtractor().FromDocument(doc, "https://example.com/a")
	require.NoError(t, err)
	assert.Equal(t, "Plain heading", rec.Headline)
}

// TestFromDocument_FirstMatchWins verifies a match on an earlier selector
// suppresses later ones entirely
func TestFromDocument_FirstMatchWins(t *testing.T) {
	html := `<html><body>
<h1 data-gu-name="headline">Specific headline</h1>
<h1>Generic headline</h1>
<div data-gu-name="body"><p>From the specific container.</p></div>
<div data-component="text-block"><p>From the generic container.</p></div>
</body></html>`
	doc := parseDoc(t, html)

	rec, err := NewExtractor().FromDocument(doc, "https://example.com/a")
	require.NoError(t, err)
	assert.Equal(t, "Specific headline", rec.Headline)
	assert.Equal(t, "From the specific container.", rec.Body)
}

// TestFromDocument_Deterministic verifies repeated extraction from the same
// document yields identical fields
func TestFromDocument_Deterministic(t *testing.T) {
	doc := parseDoc(t, fullArticle)
	e := NewExtractor()

	first, err := e.FromDocument(doc, "https://example.com/a")
	require.NoError(t, err)

	for range 3 {
		again, err := e.FromDocument(doc, "https://example.com/a")
		require.NoError(t, err)
		assert.Equal(t, first.Headline, again.Headline)
		assert.Equal(t, first.Body, again.Body)
		assert.Equal(t, first.AuthorName, again.AuthorName)
		assert.Equal(t, first.DatePublished, again.DatePublished)
	}
}

// TestFromDocument_MissingHeadline verifies no record without a headline
func TestFromDocument_MissingHeadline(t *testing.T) {
	doc := parseDoc(t, `<html><body><p>Just text, no heading.</p></body></html>`)

	rec, err := NewExtractor().FromDocument(doc, "https://example.com/a")
	assert.Nil(t, rec)
	assert.Error(t, err)
}

// TestFromDocument_MissingBody verifies no record without body paragraphs
func TestFromDocument_MissingBody(t *testing.T) {
	doc := parseDoc(t, `<html><body><h1>Heading only</h1></body></html>`)

	rec, err := NewExtractor().FromDocument(doc, "https://example.com/a")
	assert.Nil(t, rec)
	assert.Error(t, err)
}

// TestFromDocument_OptionalFieldsEmpty verifies author and date absence
// still yields a valid record
func TestFromDocument_OptionalFieldsEmpty(t *testing.T) {
	html := `<html><body>
<h1>Heading</h1>
<div data-component="text-block"><p>Body.</p></div>
</body></html>`
	doc := parseDoc(t, html)

	rec, err := NewExtractor().FromDocument(doc, "https://example.com/a")
	require.NoError(t, err)
	assert.Empty(t, rec.AuthorName)
	assert.Empty(t, rec.DatePublished)
}

// TestFromDocument_DateAttributeRequired verifies a time element without a
// structured datetime attribute yields an empty date
func TestFromDocument_DateAttributeRequired(t *testing.T) {
	html := `<html><body>
<h1>Heading</h1>
<div data-component="text-block"><p>Body.</p></div>
<time>1 Feb 2025</time>
</body></html>`
	doc := parseDoc(t, html)

	rec, err := NewExtractor().FromDocument(doc, "https://example.com/a")
	require.NoError(t, err)
	assert.Empty(t, rec.DatePublished)
}

// TestExtract_HTTPError verifies a failing article fetch reports an error
func TestExtract_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	rec, err := NewExtractor().Extract(context.Background(), srv.URL)
	assert.Nil(t, rec)
	assert.Error(t, err)
}

// TestExtract_Success verifies the full fetch-and-extract path
func TestExtract_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(fullArticle))
	}))
	defer srv.Close()

	rec, err := NewExtractor().Extract(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Parliament votes on new bill", rec.Headline)
}

// TestTextBlob verifies the per-article object layout
func TestTextBlob(t *testing.T) {
	rec := &Record{
		Headline:      "Head",
		AuthorName:    "Author",
		DatePublished: "2025-01-15",
		Body:          "Body text",
	}

	assert.Equal(t, "Head\nAuthor\n2025-01-15\nBody text", rec.TextBlob())
}
