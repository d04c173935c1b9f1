package papers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog"

	"github.com/scholarpulse/scholarpulse/internal/platform/config"
	"github.com/scholarpulse/scholarpulse/internal/platform/observability"
)

const (
	maxAuthors       = 5
	maxSummaryLength = 800
	scholarBaseURL   = "https://scholar.google.com/scholar"

	logKeyQuery = "query"
	logKeyCount = "count"
)

var errFeedFetchFailed = errors.New("feed fetch failed")

// Client fetches papers from the arXiv Atom API.
type Client struct {
	httpClient *http.Client
	parser     *gofeed.Parser
	baseURL    string
	maxResults int
	logger     *zerolog.Logger
}

// NewClient creates an arXiv client from configuration.
func NewClient(cfg *config.Config, logger *zerolog.Logger) *Client {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.ArxivTimeout},
		parser:     gofeed.NewParser(),
		baseURL:    cfg.ArxivBaseURL,
		maxResults: cfg.ArxivMaxResults,
		logger:     logger,
	}
}

// Search queries arXiv sorted by relevance. A non-zero year restricts
// results to papers submitted that year.
func (c *Client) Search(ctx context.Context, query string, year int) ([]Paper, error) {
	feed, err := c.fetchFeed(ctx, c.searchURL(query, year))
	if err != nil {
		return nil, err
	}

	papers := make([]Paper, 0, len(feed.Items))

	for _, item := range feed.Items {
		if len(papers) >= c.maxResults {
			break
		}

		papers = append(papers, itemToPaper(item))
	}

	observability.PapersFetched.Add(float64(len(papers)))

	c.logger.Info().
		Str(logKeyQuery, query).
		Int(logKeyCount, len(papers)).
		Msg("fetched papers")

	return papers, nil
}

func (c *Client) searchURL(query string, year int) string {
	searchQuery := "all:" + query
	if year > 0 {
		searchQuery = fmt.Sprintf("%s AND submittedDate:[%d0101 TO %d1231]", searchQuery, year, year)
	}

	params := url.Values{}
	params.Set("search_query", searchQuery)
	params.Set("sortBy", "relevance")
	params.Set("start", "0")
	params.Set("max_results", fmt.Sprintf("%d", c.maxResults))

	return c.baseURL + "?" + params.Encode()
}

func (c *Client) fetchFeed(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create feed request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", errFeedFetchFailed, resp.StatusCode)
	}

	feed, err := c.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	return feed, nil
}

func itemToPaper(item *gofeed.Item) Paper {
	authors := make([]string, 0, maxAuthors)

	for _, a := range item.Authors {
		if len(authors) >= maxAuthors {
			break
		}

		authors = append(authors, a.Name)
	}

	summary := strings.TrimSpace(item.Description)
	if summary == "" {
		summary = strings.TrimSpace(item.Content)
	}

	summary = truncate(summary, maxSummaryLength)

	return Paper{
		Title:      strings.TrimSpace(item.Title),
		Authors:    authors,
		Summary:    summary,
		PDFURL:     pdfLink(item),
		ScholarURL: scholarBaseURL + "?q=" + url.QueryEscape(strings.TrimSpace(item.Title)),
		Published:  publishedAt(item),
	}
}

// pdfLink picks the PDF link from the entry's link set, falling back to the
// abstract page.
func pdfLink(item *gofeed.Item) string {
	for _, link := range item.Links {
		if strings.Contains(link, "/pdf/") {
			return link
		}
	}

	return item.Link
}

func publishedAt(item *gofeed.Item) time.Time {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed
	}

	if item.Published != "" {
		if t, err := dateparse.ParseAny(item.Published); err == nil {
			return t
		}
	}

	return time.Time{}
}
