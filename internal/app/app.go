// Package app wires the application's dependencies together and manages
// their lifecycle.
package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/newshound/newshound/internal/auth"
	"github.com/newshound/newshound/internal/browser"
	"github.com/newshound/newshound/internal/cache"
	"github.com/newshound/newshound/internal/config"
	"github.com/newshound/newshound/internal/extract"
	"github.com/newshound/newshound/internal/proxy"
	"github.com/newshound/newshound/internal/ratelimit"
	"github.com/newshound/newshound/internal/scrape"
	"github.com/newshound/newshound/internal/search"
	"github.com/newshound/newshound/internal/store"
)

// Application holds all application dependencies.
//
// It is created once at startup and shared across all CLI commands.
// Use Close() to ensure proper resource cleanup on shutdown.
type Application struct {
	Config      *config.Config
	Logger      *zerolog.Logger
	Cache       *cache.ArticleCache
	RateLimiter ratelimit.RateLimiter
	Extractor   *extract.Extractor
	Cascade     *scrape.Cascade
	Searcher    *search.Client

	// Chrome is expensive: the pool starts on first use, not at startup.
	poolOnce sync.Once
	pool     *browser.Pool

	// Likewise the store opens lazily; most invocations never touch it.
	storeOnce sync.Once
	store     *store.Store
	storeErr  error

	startTime time.Time
}

// New creates and initializes a new Application with all dependencies.
//
// The browser pool and the saved-article store are deferred until first
// use; everything else is ready when New returns.
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger := newLogger(cfg)
	log.Logger = logger

	// Env and flags win; the keyring is the fallback for the reader token.
	if cfg.ReaderToken == "" {
		if tok, err := auth.LoadToken(); err == nil {
			cfg.ReaderToken = tok
		}
	}

	appCache := cache.New(cfg.CacheMaxEntries, cfg.CacheTTL)
	if data, err := os.ReadFile(cfg.SessionPath); err == nil {
		if err := appCache.Restore(data); err != nil {
			logger.Debug().Err(err).Msg("Session file unreadable, starting fresh")
		}
	}

	limiter := ratelimit.NewHostLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	var proxies *proxy.Pool
	if len(cfg.Proxies) > 0 {
		proxies = proxy.NewPool(cfg.Proxies)
	}

	a := &Application{
		Config:      cfg,
		Logger:      &logger,
		Cache:       appCache,
		RateLimiter: limiter,
		Extractor:   extract.New(),
		startTime:   time.Now(),
	}

	strategies := scrape.NewStrategies(scrape.StrategyOptions{
		Limiter:         limiter,
		Proxies:         proxies,
		UserAgent:       cfg.UserAgent,
		MaxBodyBytes:    cfg.MaxBodyBytes,
		ExtraHeaders:    cfg.ExtraHeaders,
		ArchiveEndpoint: cfg.ArchiveEndpoint,
		ReaderEndpoint:  cfg.ReaderEndpoint,
		ReaderToken:     cfg.ReaderToken,
		AcquireSession:  a.acquireSession,
		BrowserWait:     cfg.BrowserWait,
	})

	evaluator := scrape.Evaluator{
		MinWords:           cfg.MinWords,
		Signatures:         cfg.BlockSignatures,
		AlwaysBlocked:      cfg.AlwaysBlockedPhrases,
		BlockCheckMaxWords: cfg.BlockCheckMaxWords,
	}

	a.Cascade = scrape.NewCascade(strategies, a.Extractor, evaluator, cfg.AttemptTimeout)
	a.Searcher = search.New(&http.Client{Timeout: 15 * time.Second}, cfg.SearchEndpoint, cfg.UserAgent)

	logger.Debug().
		Int("browser_pool_size", cfg.BrowserPoolSize).
		Dur("time_budget", cfg.TimeBudget).
		Msg("application initialized")

	return a, nil
}

// acquireSession hands out a browser session, starting the pool on first
// call. It satisfies scrape.AcquireSession.
func (a *Application) acquireSession(ctx context.Context) (*browser.Session, error) {
	a.poolOnce.Do(func() {
		chromePath := a.Config.ChromePath
		if chromePath == "" {
			chromePath = browser.FindChrome()
		}
		proxyURL := ""
		if len(a.Config.Proxies) > 0 {
			proxyURL = a.Config.Proxies[0]
		}
		a.pool = browser.NewPool(browser.Options{
			Size:       a.Config.BrowserPoolSize,
			Headless:   a.Config.BrowserHeadless,
			UserAgent:  a.Config.UserAgent,
			Proxy:      proxyURL,
			ChromePath: chromePath,
		})
	})
	return a.pool.Acquire(ctx)
}

// Store opens the saved-article store on first use.
func (a *Application) Store() (*store.Store, error) {
	a.storeOnce.Do(func() {
		a.store, a.storeErr = store.Open(a.Config.StorePath)
	})
	return a.store, a.storeErr
}

// Close releases all application resources.
func (a *Application) Close() error {
	var firstErr error
	if a.pool != nil {
		if err := a.pool.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if a.Cache != nil {
		a.saveSession()
		a.Cache.Close()
	}
	a.Logger.Debug().
		Dur("uptime", time.Since(a.startTime)).
		Msg("application closed")
	return firstErr
}

// saveSession writes the cache's ID assignments to disk so "read 3" keeps
// meaning the same search result in the next invocation.
func (a *Application) saveSession() {
	data, err := a.Cache.Snapshot()
	if err != nil {
		a.Logger.Debug().Err(err).Msg("Session snapshot failed")
		return
	}
	if err := os.MkdirAll(filepath.Dir(a.Config.SessionPath), 0755); err != nil {
		return
	}
	if err := os.WriteFile(a.Config.SessionPath, data, 0600); err != nil {
		a.Logger.Debug().Err(err).Msg("Session write failed")
	}
}

// newLogger builds the process logger from config. Verbose runs get debug
// level; otherwise only warnings and errors reach the terminal.
func newLogger(cfg *config.Config) zerolog.Logger {
	level := zerolog.WarnLevel
	switch cfg.LogLevel {
	case "debug":
		level = zerolog.DebugLevel
	case "info":
		level = zerolog.InfoLevel
	case "error":
		level = zerolog.ErrorLevel
	}
	zerolog.SetGlobalLevel(level)

	var w io.Writer = zerolog.NewConsoleWriter(func(cw *zerolog.ConsoleWriter) {
		cw.Out = os.Stderr
	})
	if cfg.JSONLog {
		w = os.Stderr
	}
	return zerolog.New(w).With().Timestamp().Logger()
}
