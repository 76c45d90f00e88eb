package ratelimit

import (
	"context"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiter throttles outbound requests, typically per origin host, so a
// cascade retrying a site through several strategies does not hammer it.
type RateLimiter interface {
	// Wait blocks until a request for the given URL can proceed.
	// If the context is cancelled first, its error is returned.
	Wait(ctx context.Context, urlStr string) error

	// Allow reports whether a request for the given URL can proceed
	// immediately without blocking.
	Allow(urlStr string) bool
}

// HostLimiter provides per-host token buckets. Every strategy that talks
// HTTP shares one HostLimiter, so the light client and the direct fetch
// count against the same bucket for the same origin.
type HostLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	perHost  rate.Limit
	burst    int
}

// NewHostLimiter creates a rate limiter with the specified per-host rate.
func NewHostLimiter(requestsPerSecond float64, burst int) *HostLimiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 2.0
	}
	if burst <= 0 {
		burst = 4
	}
	return &HostLimiter{
		limiters: make(map[string]*rate.Limiter),
		perHost:  rate.Limit(requestsPerSecond),
		burst:    burst,
	}
}

// Wait blocks until the request for the given URL may proceed.
func (hl *HostLimiter) Wait(ctx context.Context, urlStr string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	host := hostOf(urlStr)
	if host == "" {
		// unparseable URL, the strategy will surface the real error
		return nil
	}
	return hl.limiter(host).Wait(ctx)
}

// Allow reports whether a request can proceed immediately.
func (hl *HostLimiter) Allow(urlStr string) bool {
	host := hostOf(urlStr)
	if host == "" {
		return true
	}
	return hl.limiter(host).Allow()
}

func (hl *HostLimiter) limiter(host string) *rate.Limiter {
	hl.mu.RLock()
	lim, ok := hl.limiters[host]
	hl.mu.RUnlock()
	if ok {
		return lim
	}

	hl.mu.Lock()
	defer hl.mu.Unlock()
	if lim, ok := hl.limiters[host]; ok {
		return lim
	}
	lim = rate.NewLimiter(hl.perHost, hl.burst)
	hl.limiters[host] = lim
	return lim
}

func hostOf(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	return u.Host
}
