package scrape

import (
	"time"

	"github.com/newshound/newshound/internal/proxy"
	"github.com/newshound/newshound/internal/ratelimit"
)

// StrategyOptions configures the standard strategy set.
type StrategyOptions struct {
	Limiter   ratelimit.RateLimiter
	Proxies   *proxy.Pool
	UserAgent string
	// MaxBodyBytes caps how much of a response body is read; <= 0 uses
	// the built-in default.
	MaxBodyBytes int64
	// ExtraHeaders apply to every HTTP-based strategy's requests.
	ExtraHeaders map[string]string

	ArchiveEndpoint string
	ReaderEndpoint  string
	ReaderToken     string

	// AcquireSession provides headless browser sessions. Nil disables the
	// stealth browser strategy; the cascade then records it as not
	// configured when asked for it.
	AcquireSession AcquireSession
	BrowserWait    time.Duration
}

// NewStrategies builds every strategy the options allow. The cascade
// decides which of them run, and in what order, per request.
func NewStrategies(opts StrategyOptions) []Strategy {
	client := newHTTPClient(opts.Limiter, opts.Proxies, opts.UserAgent, opts.MaxBodyBytes, opts.ExtraHeaders)

	strategies := []Strategy{
		NewLightClient(client),
		NewDirectFetch(client),
		NewArchivedSnapshot(client, opts.ArchiveEndpoint),
		NewReaderProxy(client, opts.ReaderEndpoint, opts.ReaderToken),
	}
	if opts.AcquireSession != nil {
		strategies = append(strategies, NewStealthBrowser(opts.AcquireSession, opts.BrowserWait))
	}
	return strategies
}
