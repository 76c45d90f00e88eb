package scrape

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/newshound/newshound/internal/browser"
	"github.com/newshound/newshound/pkg/models"
	"github.com/rs/zerolog/log"
)

// AcquireSession hands out an isolated browser session bounded by ctx. The
// indirection lets the application start Chrome lazily: no browser process
// exists until a cascade actually reaches this strategy.
type AcquireSession func(ctx context.Context) (*browser.Session, error)

// StealthBrowser renders the page in headless Chrome before reading the
// DOM, defeating origins that require JavaScript execution. It is the most
// expensive strategy; concurrency is bounded by the browser pool.
type StealthBrowser struct {
	acquire AcquireSession
	wait    time.Duration
}

// NewStealthBrowser creates the strategy. wait is the settle time after
// navigation before the DOM is read.
func NewStealthBrowser(acquire AcquireSession, wait time.Duration) *StealthBrowser {
	if wait <= 0 {
		wait = 2 * time.Second
	}
	return &StealthBrowser{acquire: acquire, wait: wait}
}

// ID implements Strategy.
func (s *StealthBrowser) ID() models.StrategyID {
	return models.StrategyStealthBrowser
}

// Fetch implements Strategy. The pool slot is released on every exit path;
// cancellation of ctx tears down the tab rather than waiting it out.
func (s *StealthBrowser) Fetch(ctx context.Context, url string) models.FetchOutcome {
	start := time.Now()

	session, err := s.acquire(ctx)
	if err != nil {
		return errorOutcome(s.ID(), start, err)
	}
	defer session.Release()

	// The chromedp context does not inherit the attempt deadline, so
	// bridge the two: when ctx fires, the tab context is cancelled and
	// chromedp.Run returns.
	tabCtx, cancel := context.WithCancel(session.Ctx)
	defer cancel()
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-tabCtx.Done():
		}
	}()

	var html string
	// The listener runs on chromedp's event goroutine, so the document
	// status crosses goroutines.
	var docStatus atomic.Int64

	chromedp.ListenTarget(tabCtx, func(ev interface{}) {
		if resp, ok := ev.(*network.EventResponseReceived); ok {
			if resp.Type == network.ResourceTypeDocument {
				docStatus.CompareAndSwap(0, int64(resp.Response.Status))
			}
		}
	})

	err = chromedp.Run(tabCtx,
		network.Enable(),
		chromedp.Navigate(url),
		chromedp.ActionFunc(func(actx context.Context) error {
			// Let the page's scripts settle before reading the DOM.
			select {
			case <-time.After(s.wait):
				return nil
			case <-actx.Done():
				return actx.Err()
			}
		}),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		return errorOutcome(s.ID(), start, err)
	}

	httpStatus := int(docStatus.Load())
	log.Debug().Str("url", url).Int("status", httpStatus).Dur("elapsed", time.Since(start)).Msg("Browser render complete")

	if httpStatus >= 400 {
		return statusOutcome(s.ID(), start, httpStatus)
	}

	out := models.FetchOutcome{
		Strategy:   s.ID(),
		Status:     models.FetchSuccess,
		HTTPStatus: httpStatus,
		Body:       html,
		Elapsed:    time.Since(start),
	}
	return out
}
