package config

import "time"

// Default constants for application configuration
const (
	DefaultLogLevel       = "info"
	DefaultJSONLog        = false
	DefaultUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	DefaultTimeBudget     = 60 * time.Second
	DefaultAttemptTimeout = 20 * time.Second
	DefaultMinWords       = 40
	// Signature scan applies only below this word count; longer texts are
	// judged by the always-blocked phrases alone.
	DefaultBlockCheckMaxWords = 120
	DefaultRateLimitRPS       = 2.0
	DefaultRateLimitBurst     = 4
	DefaultBrowserPoolSize    = 2
	DefaultMaxBrowserPoolSize = 4
	DefaultBrowserHeadless    = true
	DefaultBrowserWait        = 2 * time.Second
	DefaultCacheTTL           = 30 * time.Minute
	DefaultCacheMaxEntries    = 200
	DefaultBatchConcurrency   = 4
	DefaultMaxBodyBytes       = 4 * 1024 * 1024 // 4MB per response

	DefaultArchiveEndpoint = "https://archive.org/wayback/available"
	DefaultReaderEndpoint  = "https://r.jina.ai"
	DefaultSearchEndpoint  = "https://html.duckduckgo.com/html/"
)

// DefaultStrategyOrder is the cascade policy: cheapest first, archive last.
// Order is configuration, not identity; it may be rearranged per request.
var DefaultStrategyOrder = "light_client,stealth_browser,archived_snapshot,reader_proxy,direct_fetch"

// DefaultBlockSignatures are phrases that mark a challenge or block page even
// when the origin answered 200. Seeded from pages observed in the wild;
// tune via NEWSHOUND_BLOCK_SIGNATURES.
var DefaultBlockSignatures = []string{
	"cloudflare",
	"attention required",
	"access denied",
	"security service",
	"challenge-platform",
	"enable cookies",
	"captcha",
	"human verification",
	"ray id",
	"enable javascript",
	"checking your browser",
}

// DefaultAlwaysBlockedPhrases flag a block page regardless of text length.
var DefaultAlwaysBlockedPhrases = []string{
	"security service to protect itself from online attacks",
}
