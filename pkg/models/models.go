package models

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// StrategyID identifies one content retrieval technique. The set is closed
// from the cascade's point of view but new strategies are additional values,
// not new types.
type StrategyID string

const (
	StrategyLightClient      StrategyID = "light_client"
	StrategyStealthBrowser   StrategyID = "stealth_browser"
	StrategyDirectFetch      StrategyID = "direct_fetch"
	StrategyArchivedSnapshot StrategyID = "archived_snapshot"
	StrategyReaderProxy      StrategyID = "reader_proxy"
)

// KnownStrategies lists every registered strategy identifier.
var KnownStrategies = []StrategyID{
	StrategyLightClient,
	StrategyStealthBrowser,
	StrategyDirectFetch,
	StrategyArchivedSnapshot,
	StrategyReaderProxy,
}

// ValidStrategy reports whether id names a registered strategy.
func ValidStrategy(id StrategyID) bool {
	for _, known := range KnownStrategies {
		if id == known {
			return true
		}
	}
	return false
}

// ParseStrategyOrder parses a comma-separated strategy list such as
// "light_client,stealth_browser" into an ordered slice.
func ParseStrategyOrder(s string) ([]StrategyID, error) {
	var order []StrategyID
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id := StrategyID(part)
		if !ValidStrategy(id) {
			return nil, fmt.Errorf("unknown strategy %q", part)
		}
		order = append(order, id)
	}
	if len(order) == 0 {
		return nil, fmt.Errorf("strategy order is empty")
	}
	return order, nil
}

// FetchStatus classifies the terminal state of one fetch attempt.
type FetchStatus string

const (
	FetchSuccess      FetchStatus = "success"
	FetchBlocked      FetchStatus = "blocked"
	FetchNetworkError FetchStatus = "network_error"
	FetchTimeout      FetchStatus = "timeout"
	FetchNotFound     FetchStatus = "not_found"
)

// FetchOutcome is the result of exactly one strategy attempt. It is created
// once by the strategy and never mutated afterwards.
type FetchOutcome struct {
	Strategy   StrategyID  `json:"strategy"`
	Status     FetchStatus `json:"status"`
	HTTPStatus int         `json:"http_status,omitempty"`
	Body       string      `json:"-"`
	// PreExtracted marks bodies that are already plain article text
	// (e.g. reader proxies) and must skip HTML extraction. Such strategies
	// may supply the article title alongside.
	PreExtracted bool          `json:"pre_extracted,omitempty"`
	Title        string        `json:"-"`
	Detail       string        `json:"detail,omitempty"`
	Elapsed      time.Duration `json:"elapsed"`
}

// Article is the readable content distilled from one successful fetch.
type Article struct {
	URL         string     `json:"url"`
	Title       string     `json:"title,omitempty"`
	Byline      string     `json:"byline,omitempty"`
	SiteName    string     `json:"site_name,omitempty"`
	Excerpt     string     `json:"excerpt,omitempty"`
	Body        string     `json:"body"`
	Markdown    string     `json:"markdown,omitempty"`
	WordCount   int        `json:"word_count"`
	Strategy    StrategyID `json:"strategy"`
	RetrievedAt time.Time  `json:"retrieved_at"`
}

// CountWords reports the whitespace-delimited word count of s.
func CountWords(s string) int {
	return len(strings.Fields(s))
}

// CascadeResult is the terminal value of one retrieval run. Article is nil
// when every strategy was exhausted; Attempts preserves invocation order.
type CascadeResult struct {
	Article  *Article       `json:"article,omitempty"`
	Attempts []FetchOutcome `json:"attempts"`
}

// Usable reports whether the cascade produced a readable article.
func (r CascadeResult) Usable() bool {
	return r.Article != nil
}

// Trace renders the attempt history as a human-readable, one-line-per-attempt
// summary for diagnostics.
func (r CascadeResult) Trace() string {
	var b strings.Builder
	for i, a := range r.Attempts {
		fmt.Fprintf(&b, "%d. %s: %s", i+1, a.Strategy, a.Status)
		if a.HTTPStatus != 0 {
			fmt.Fprintf(&b, " (HTTP %d)", a.HTTPStatus)
		}
		if a.Detail != "" {
			fmt.Fprintf(&b, " - %s", a.Detail)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// RetrievalRequest describes one cascade run. Construct with
// NewRetrievalRequest; a zero or hand-built value may violate invariants.
type RetrievalRequest struct {
	URL        string
	TimeBudget time.Duration
	Order      []StrategyID
	MinWords   int
}

// NewRetrievalRequest validates and builds a request. Invalid input is
// rejected here, never silently defaulted.
func NewRetrievalRequest(rawURL string, budget time.Duration, order []StrategyID, minWords int) (RetrievalRequest, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return RetrievalRequest{}, fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return RetrievalRequest{}, fmt.Errorf("invalid URL scheme: must be http or https, got %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return RetrievalRequest{}, fmt.Errorf("invalid URL: missing host")
	}
	if budget <= 0 {
		return RetrievalRequest{}, fmt.Errorf("time budget must be > 0, got %s", budget)
	}
	if len(order) == 0 {
		return RetrievalRequest{}, fmt.Errorf("strategy order must not be empty")
	}
	seen := make(map[StrategyID]bool, len(order))
	for _, id := range order {
		if !ValidStrategy(id) {
			return RetrievalRequest{}, fmt.Errorf("unknown strategy %q", id)
		}
		if seen[id] {
			return RetrievalRequest{}, fmt.Errorf("strategy %q listed twice", id)
		}
		seen[id] = true
	}
	if minWords <= 0 {
		return RetrievalRequest{}, fmt.Errorf("minimum word count must be > 0, got %d", minWords)
	}
	return RetrievalRequest{
		URL:        rawURL,
		TimeBudget: budget,
		Order:      append([]StrategyID(nil), order...),
		MinWords:   minWords,
	}, nil
}

// SearchResult is one entry returned by the news search.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet,omitempty"`
	Source  string `json:"source,omitempty"`
}

// SavedArticle is an article persisted to the local store.
type SavedArticle struct {
	ID      int64     `json:"id"`
	Article Article   `json:"article"`
	SavedAt time.Time `json:"saved_at"`
}
