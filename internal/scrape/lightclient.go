package scrape

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/newshound/newshound/pkg/models"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/publicsuffix"
)

// LightClient issues direct HTTP requests with a full browser-like header
// set and a cookie jar, and solves legacy interstitial arithmetic
// challenges in-process. It is the cheapest strategy and runs first by
// default.
type LightClient struct {
	http *httpClient
	// challengeDelay is how long the interstitial expects the "browser"
	// to spend before submitting the answer.
	challengeDelay time.Duration
}

// NewLightClient creates the strategy.
func NewLightClient(client *httpClient) *LightClient {
	return &LightClient{
		http:           client,
		challengeDelay: 4 * time.Second,
	}
}

// ID implements Strategy.
func (s *LightClient) ID() models.StrategyID {
	return models.StrategyLightClient
}

// Fetch implements Strategy. Challenge pages get exactly one solve attempt;
// anything the solver cannot handle is reported as Blocked and the cascade
// moves on to a heavier strategy.
func (s *LightClient) Fetch(ctx context.Context, url string) models.FetchOutcome {
	start := time.Now()

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return errorOutcome(s.ID(), start, err)
	}

	resp, err := s.http.get(ctx, url, jar, true, nil)
	if err != nil {
		return errorOutcome(s.ID(), start, err)
	}

	if isChallengePage(resp.status, resp.body) {
		solved, solveErr := s.solveChallenge(ctx, jar, resp)
		if solveErr != nil {
			log.Debug().Err(solveErr).Str("url", url).Msg("Challenge solve failed")
			out := statusOutcome(s.ID(), start, resp.status)
			out.Status = models.FetchBlocked
			out.Detail = "challenge page: " + solveErr.Error()
			return out
		}
		resp = solved
	}

	if resp.status < 200 || resp.status >= 300 {
		return statusOutcome(s.ID(), start, resp.status)
	}
	return successOutcome(s.ID(), start, resp)
}

// solveChallenge evaluates the interstitial's arithmetic with goja, waits
// out the delay the page expects, and submits the answer on the same
// cookie jar.
func (s *LightClient) solveChallenge(ctx context.Context, jar http.CookieJar, resp *response) (*response, error) {
	challenge, err := parseChallenge(ctx, resp.body, resp.finalURL)
	if err != nil {
		return nil, err
	}

	answerURL, err := challenge.answerURL()
	if err != nil {
		return nil, err
	}

	// Submitting early voids the challenge, so the delay is mandatory;
	// the attempt deadline still wins if it fires first.
	delay := s.challengeDelay
	if challenge.delay > 0 && challenge.delay < delay {
		delay = challenge.delay
	}
	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	headers := map[string]string{"Referer": resp.finalURL}
	return s.http.get(ctx, answerURL, jar, true, headers)
}
