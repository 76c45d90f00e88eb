// Package search finds news articles to feed into the retrieval cascade.
package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/newshound/newshound/internal/retry"
	urlutil "github.com/newshound/newshound/internal/utils/url"
	"github.com/newshound/newshound/pkg/models"
	"github.com/rs/zerolog/log"
)

// Client queries the DuckDuckGo HTML endpoint, which needs no API key and
// serves parseable markup.
type Client struct {
	httpClient *http.Client
	endpoint   string
	userAgent  string
}

// New creates a search client. endpoint defaults to the public HTML
// endpoint when empty.
func New(httpClient *http.Client, endpoint, userAgent string) *Client {
	if endpoint == "" {
		endpoint = "https://html.duckduckgo.com/html/"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		endpoint:   endpoint,
		userAgent:  userAgent,
	}
}

// Search returns up to maxResults results for query, with bounded internal
// retries for transient failures.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]models.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query must not be empty")
	}
	if maxResults <= 0 {
		maxResults = 5
	}

	var results []models.SearchResult
	err := retry.Do(ctx, retry.DefaultConfig(), func() (error, bool) {
		var attemptErr error
		results, attemptErr = c.searchOnce(ctx, query, maxResults)
		if attemptErr != nil {
			return attemptErr, true
		}
		return nil, false
	})
	if err != nil {
		return nil, err
	}

	log.Debug().Str("query", query).Int("results", len(results)).Msg("Search complete")
	return results, nil
}

func (c *Client) searchOnce(ctx context.Context, query string, maxResults int) ([]models.SearchResult, error) {
	form := url.Values{"q": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+form.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, 2*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("parse search results: %w", err)
	}

	var results []models.SearchResult
	doc.Find(".result").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		link := sel.Find("a.result__a").First()
		href, ok := link.Attr("href")
		if !ok {
			return true
		}
		target := c.resolveRedirect(href)
		if target == "" {
			return true
		}
		results = append(results, models.SearchResult{
			Title:   strings.TrimSpace(link.Text()),
			URL:     target,
			Snippet: strings.TrimSpace(sel.Find(".result__snippet").Text()),
			Source:  urlutil.Domain(target),
		})
		return len(results) < maxResults
	})
	return results, nil
}

// resolveRedirect unwraps the endpoint's /l/?uddg=<target> indirection.
// Relative hrefs are resolved against the endpoint first; anything that
// still points at the search host is an internal link, not a result.
func (c *Client) resolveRedirect(href string) string {
	u, err := url.Parse(urlutil.Resolve(c.endpoint, href))
	if err != nil {
		return ""
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	if u.Host == "" || strings.Contains(c.endpoint, u.Host) {
		return ""
	}
	return u.String()
}
