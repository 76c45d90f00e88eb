package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/newshound/newshound/pkg/models"
	"github.com/rs/zerolog/log"
)

// ArchivedSnapshot asks the Wayback Machine for the most recent stored copy
// of the page and fetches that instead of the live origin. It is the last
// resort for origins that are down or permanently blocking.
type ArchivedSnapshot struct {
	http     *httpClient
	endpoint string
}

// NewArchivedSnapshot creates the strategy. endpoint is the availability
// API base, e.g. https://archive.org/wayback/available.
func NewArchivedSnapshot(client *httpClient, endpoint string) *ArchivedSnapshot {
	return &ArchivedSnapshot{http: client, endpoint: endpoint}
}

// ID implements Strategy.
func (s *ArchivedSnapshot) ID() models.StrategyID {
	return models.StrategyArchivedSnapshot
}

// availabilityResponse mirrors the wayback availability API payload.
type availabilityResponse struct {
	ArchivedSnapshots struct {
		Closest struct {
			Available bool   `json:"available"`
			URL       string `json:"url"`
			Timestamp string `json:"timestamp"`
			Status    string `json:"status"`
		} `json:"closest"`
	} `json:"archived_snapshots"`
}

// Fetch implements Strategy: resolve the closest snapshot, then fetch it.
func (s *ArchivedSnapshot) Fetch(ctx context.Context, pageURL string) models.FetchOutcome {
	start := time.Now()

	snapshotURL, err := s.lookup(ctx, pageURL)
	if err != nil {
		return errorOutcome(s.ID(), start, err)
	}
	if snapshotURL == "" {
		return models.FetchOutcome{
			Strategy: s.ID(),
			Status:   models.FetchNotFound,
			Detail:   "no archived snapshot",
			Elapsed:  time.Since(start),
		}
	}

	log.Debug().Str("snapshot", snapshotURL).Msg("Fetching archived snapshot")

	resp, err := s.http.get(ctx, snapshotURL, nil, true, nil)
	if err != nil {
		return errorOutcome(s.ID(), start, err)
	}
	if resp.status < 200 || resp.status >= 300 {
		return statusOutcome(s.ID(), start, resp.status)
	}
	return successOutcome(s.ID(), start, resp)
}

// lookup returns the snapshot URL, or "" when the archive has none.
func (s *ArchivedSnapshot) lookup(ctx context.Context, pageURL string) (string, error) {
	lookupURL := fmt.Sprintf("%s?url=%s", s.endpoint, url.QueryEscape(pageURL))
	resp, err := s.http.get(ctx, lookupURL, nil, false, nil)
	if err != nil {
		return "", fmt.Errorf("availability lookup: %w", err)
	}
	if resp.status != 200 {
		return "", fmt.Errorf("availability lookup: HTTP %d", resp.status)
	}

	var avail availabilityResponse
	if err := json.Unmarshal([]byte(resp.body), &avail); err != nil {
		return "", fmt.Errorf("availability lookup: %w", err)
	}
	closest := avail.ArchivedSnapshots.Closest
	if !closest.Available || closest.URL == "" {
		return "", nil
	}
	return closest.URL, nil
}
