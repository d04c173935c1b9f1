package papers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarpulse/scholarpulse/internal/platform/config"
)

const testAtomFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>ArXiv Query Results</title>
  <entry>
    <id>http://arxiv.org/abs/2401.00001v1</id>
    <title>Adaptive Retrieval for Scientific Agents</title>
    <summary>We study retrieval strategies for autonomous research agents.</summary>
    <published>2024-01-15T00:00:00Z</published>
    <link href="http://arxiv.org/abs/2401.00001v1" rel="alternate" type="text/html"/>
    <link href="http://arxiv.org/pdf/2401.00001v1" rel="related" type="application/pdf"/>
    <author><name>Ada One</name></author>
    <author><name>Ben Two</name></author>
    <author><name>Cam Three</name></author>
    <author><name>Dee Four</name></author>
    <author><name>Eli Five</name></author>
    <author><name>Fay Six</name></author>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2401.00002v1</id>
    <title>Second Paper</title>
    <summary>Another abstract.</summary>
    <published>2024-02-01T00:00:00Z</published>
    <link href="http://arxiv.org/abs/2401.00002v1" rel="alternate" type="text/html"/>
    <author><name>Gil Seven</name></author>
  </entry>
</feed>`

func newArxivTestClient(t *testing.T, handler http.HandlerFunc, maxResults int) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{
		ArxivBaseURL:    server.URL,
		ArxivMaxResults: maxResults,
		ArxivTimeout:    5 * time.Second,
	}

	return NewClient(cfg, nil)
}

func TestSearchParsesEntries(t *testing.T) {
	var gotQuery string

	client := newArxivTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("search_query")
		w.Header().Set("Content-Type", "application/atom+xml")
		_, _ = w.Write([]byte(testAtomFeed))
	}, 10)

	result, err := client.Search(context.Background(), "research agents", 0)
	require.NoError(t, err)
	require.Len(t, result, 2)

	assert.Equal(t, "all:research agents", gotQuery)

	first := result[0]
	assert.Equal(t, "Adaptive Retrieval for Scientific Agents", first.Title)
	assert.Equal(t, "We study retrieval strategies for autonomous research agents.", first.Summary)
	assert.Equal(t, "http://arxiv.org/pdf/2401.00001v1", first.PDFURL)
	assert.Contains(t, first.ScholarURL, "scholar.google.com")
	assert.Equal(t, 2024, first.Published.Year())

	// Author list is capped.
	assert.Len(t, first.Authors, maxAuthors)
	assert.Equal(t, "Ada One", first.Authors[0])

	// Entries without a PDF link fall back to the abstract page.
	assert.Equal(t, "http://arxiv.org/abs/2401.00002v1", result[1].PDFURL)
}

func TestSearchAddsYearWindow(t *testing.T) {
	var gotQuery string

	client := newArxivTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("search_query")
		_, _ = w.Write([]byte(testAtomFeed))
	}, 10)

	_, err := client.Search(context.Background(), "agents", 2023)
	require.NoError(t, err)

	assert.Equal(t, "all:agents AND submittedDate:[20230101 TO 20231231]", gotQuery)
}

func TestSearchCapsResults(t *testing.T) {
	client := newArxivTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(testAtomFeed))
	}, 1)

	result, err := client.Search(context.Background(), "agents", 0)
	require.NoError(t, err)
	assert.Len(t, result, 1)
}

func TestTruncateKeepsRuneBoundaries(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		limit    int
		expected string
	}{
		{name: "under limit unchanged", input: "short", limit: 10, expected: "short"},
		{name: "ascii cut", input: "abcdef", limit: 3, expected: "abc"},
		{name: "multibyte not split", input: "ééé", limit: 3, expected: "é"},
		{name: "cut lands on boundary", input: "ééé", limit: 4, expected: "éé"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.input, tt.limit)
			assert.Equal(t, tt.expected, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestSearchHTTPError(t *testing.T) {
	client := newArxivTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}, 10)

	_, err := client.Search(context.Background(), "agents", 0)
	require.ErrorIs(t, err, errFeedFetchFailed)
}
