package scrape

import (
	"context"
	"time"

	"github.com/newshound/newshound/pkg/models"
)

// DirectFetch is a plain HTTP GET with no evasion at all: default headers,
// no cookie jar, no challenge handling. It is a cheap secondary path for
// origins that simply serve their pages.
type DirectFetch struct {
	http *httpClient
}

// NewDirectFetch creates the strategy.
func NewDirectFetch(client *httpClient) *DirectFetch {
	return &DirectFetch{http: client}
}

// ID implements Strategy.
func (s *DirectFetch) ID() models.StrategyID {
	return models.StrategyDirectFetch
}

// Fetch implements Strategy.
func (s *DirectFetch) Fetch(ctx context.Context, url string) models.FetchOutcome {
	start := time.Now()

	resp, err := s.http.get(ctx, url, nil, false, nil)
	if err != nil {
		return errorOutcome(s.ID(), start, err)
	}
	if resp.status < 200 || resp.status >= 300 {
		return statusOutcome(s.ID(), start, resp.status)
	}
	return successOutcome(s.ID(), start, resp)
}
