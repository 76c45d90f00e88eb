// Package scrape implements the multi-strategy article retrieval cascade:
// an ordered sequence of fetch strategies of increasing cost, tried one at
// a time until one yields usable article text.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/newshound/newshound/internal/proxy"
	"github.com/newshound/newshound/internal/ratelimit"
	"github.com/newshound/newshound/pkg/models"
)

// Strategy is one technique for obtaining raw page content. Fetch must
// honor ctx's deadline and return within it; every failure mode is
// normalized into the outcome, never raised past the boundary.
type Strategy interface {
	Fetch(ctx context.Context, url string) models.FetchOutcome
	ID() models.StrategyID
}

// browserHeaders mimic a desktop Chrome request closely enough for most
// origins that gate on header fingerprints.
var browserHeaders = map[string]string{
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Language":           "en-US,en;q=0.5",
	"Connection":                "keep-alive",
	"Upgrade-Insecure-Requests": "1",
}

// httpClient bundles what every HTTP-based strategy needs: shared rate
// limiting, proxy rotation, and a capped body reader.
type httpClient struct {
	limiter   ratelimit.RateLimiter
	proxies   *proxy.Pool
	userAgent string
	maxBody   int64
	// baseHeaders apply to every request, before per-call extras.
	baseHeaders map[string]string
}

func newHTTPClient(limiter ratelimit.RateLimiter, proxies *proxy.Pool, userAgent string, maxBody int64, baseHeaders map[string]string) *httpClient {
	if maxBody <= 0 {
		maxBody = 4 * 1024 * 1024
	}
	return &httpClient{
		limiter:     limiter,
		proxies:     proxies,
		userAgent:   userAgent,
		maxBody:     maxBody,
		baseHeaders: baseHeaders,
	}
}

// response is the raw result of one HTTP exchange.
type response struct {
	status   int
	body     string
	finalURL string
}

// get performs one GET against rawURL. jar may be nil; extraHeaders are
// applied after the defaults. Timeouts come from ctx, not the client.
func (h *httpClient) get(ctx context.Context, rawURL string, jar http.CookieJar, browserLike bool, extraHeaders map[string]string) (*response, error) {
	if h.limiter != nil {
		if err := h.limiter.Wait(ctx, rawURL); err != nil {
			return nil, err
		}
	}

	proxyURL := ""
	if h.proxies != nil {
		proxyURL = h.proxies.Next()
	}

	client := &http.Client{
		Transport: newTransport(proxyURL),
		Jar:       jar,
	}
	defer client.CloseIdleConnections()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", h.userAgent)
	if browserLike {
		for k, v := range browserHeaders {
			req.Header.Set(k, v)
		}
	}
	for k, v := range h.baseHeaders {
		req.Header.Set(k, v)
	}
	for k, v := range extraHeaders {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		if h.proxies != nil {
			h.proxies.MarkFailed(proxyURL)
		}
		return nil, err
	}
	defer resp.Body.Close()
	if h.proxies != nil {
		h.proxies.MarkHealthy(proxyURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, h.maxBody))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &response{
		status:   resp.StatusCode,
		body:     string(body),
		finalURL: resp.Request.URL.String(),
	}, nil
}

func newTransport(proxyURL string) *http.Transport {
	t := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     30 * time.Second,
	}
	if proxyURL != "" {
		if parsed, err := url.Parse(proxyURL); err == nil {
			t.Proxy = http.ProxyURL(parsed)
		}
	}
	return t
}

// errorOutcome maps a transport-level error onto the outcome taxonomy:
// deadline and timeout errors become Timeout, everything else NetworkError.
func errorOutcome(id models.StrategyID, start time.Time, err error) models.FetchOutcome {
	status := models.FetchNetworkError
	if isTimeout(err) {
		status = models.FetchTimeout
	}
	return models.FetchOutcome{
		Strategy: id,
		Status:   status,
		Detail:   err.Error(),
		Elapsed:  time.Since(start),
	}
}

// statusOutcome maps a non-success HTTP status onto the outcome taxonomy.
func statusOutcome(id models.StrategyID, start time.Time, httpStatus int) models.FetchOutcome {
	out := models.FetchOutcome{
		Strategy:   id,
		HTTPStatus: httpStatus,
		Elapsed:    time.Since(start),
	}
	switch {
	case httpStatus == http.StatusNotFound || httpStatus == http.StatusGone:
		out.Status = models.FetchNotFound
	case httpStatus == http.StatusForbidden ||
		httpStatus == http.StatusTooManyRequests ||
		httpStatus == http.StatusServiceUnavailable ||
		httpStatus == http.StatusUnavailableForLegalReasons:
		out.Status = models.FetchBlocked
	default:
		out.Status = models.FetchNetworkError
		out.Detail = fmt.Sprintf("unexpected HTTP status %d", httpStatus)
	}
	return out
}

func successOutcome(id models.StrategyID, start time.Time, resp *response) models.FetchOutcome {
	return models.FetchOutcome{
		Strategy:   id,
		Status:     models.FetchSuccess,
		HTTPStatus: resp.status,
		Body:       resp.body,
		Elapsed:    time.Since(start),
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	// url.Error wraps its cause; the string check covers exotic transports.
	return strings.Contains(err.Error(), "timeout")
}
