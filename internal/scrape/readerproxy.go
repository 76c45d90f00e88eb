package scrape

import (
	"context"
	"strings"
	"time"

	"github.com/newshound/newshound/pkg/models"
)

// ReaderProxy fetches the page through a public reader endpoint that
// renders and extracts the article server-side, returning markdown. The
// outcome is flagged pre-extracted so the local extractor passes the text
// through unchanged.
type ReaderProxy struct {
	http     *httpClient
	endpoint string
	token    string
}

// NewReaderProxy creates the strategy. token is optional; when set it is
// sent as a bearer credential for higher rate limits.
func NewReaderProxy(client *httpClient, endpoint, token string) *ReaderProxy {
	return &ReaderProxy{
		http:     client,
		endpoint: strings.TrimRight(endpoint, "/"),
		token:    token,
	}
}

// ID implements Strategy.
func (s *ReaderProxy) ID() models.StrategyID {
	return models.StrategyReaderProxy
}

// Fetch implements Strategy.
func (s *ReaderProxy) Fetch(ctx context.Context, pageURL string) models.FetchOutcome {
	start := time.Now()

	headers := map[string]string{"X-Return-Format": "markdown"}
	if s.token != "" {
		headers["Authorization"] = "Bearer " + s.token
	}

	resp, err := s.http.get(ctx, s.endpoint+"/"+pageURL, nil, false, headers)
	if err != nil {
		return errorOutcome(s.ID(), start, err)
	}
	if resp.status < 200 || resp.status >= 300 {
		return statusOutcome(s.ID(), start, resp.status)
	}

	title, text := parseReaderResponse(resp.body)
	out := successOutcome(s.ID(), start, resp)
	out.Body = text
	out.Title = title
	out.PreExtracted = true
	return out
}

// parseReaderResponse splits the reader's header block ("Title:",
// "URL Source:", "Markdown Content:") from the content. Bodies without the
// header block pass through whole.
func parseReaderResponse(body string) (title, text string) {
	marker := "Markdown Content:"
	idx := strings.Index(body, marker)
	if idx < 0 {
		return "", strings.TrimSpace(body)
	}

	for _, line := range strings.Split(body[:idx], "\n") {
		if after, ok := strings.CutPrefix(line, "Title:"); ok {
			title = strings.TrimSpace(after)
			break
		}
	}
	return title, strings.TrimSpace(body[idx+len(marker):])
}
