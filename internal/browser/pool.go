package browser

import (
	"context"
	"fmt"
	"sync"

	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"
)

// Pool bounds the number of concurrently open browser tabs. Rendering is the
// most expensive retrieval path, so the cap stays small even when many
// cascades run at once.
//
// Unlike a pool of reused tabs, Acquire hands out a freshly created browser
// context each time: sessions never leak cookies or state between cascades,
// and Release tears the tab down deterministically.
type Pool struct {
	slots       chan struct{}
	allocCtx    context.Context
	allocCancel context.CancelFunc
	mu          sync.Mutex
	closed      bool
	size        int
}

// Session is one isolated browser context checked out of the pool.
type Session struct {
	Ctx    context.Context
	cancel context.CancelFunc
	pool   *Pool
}

// Options configures the browser pool.
type Options struct {
	Size       int
	Headless   bool
	UserAgent  string
	Proxy      string
	ChromePath string
}

// NewPool creates the shared Chrome allocator and the slot semaphore. No
// browser process starts until the first Acquire.
func NewPool(opts Options) *Pool {
	if opts.Size <= 0 {
		opts.Size = 2
	}
	if opts.Size > 4 {
		opts.Size = 4
	}

	chromePath := opts.ChromePath
	if chromePath == "" {
		chromePath = FindChrome()
	}

	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-breakpad", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-hang-monitor", true),
		chromedp.Flag("disable-prompt-on-repost", true),
		chromedp.Flag("disable-renderer-backgrounding", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-infobars", true),
		chromedp.Flag("window-size", "1920,1080"),
		chromedp.Flag("disk-cache-size", "0"),
	}
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}
	if chromePath != "" {
		allocOpts = append([]chromedp.ExecAllocatorOption{chromedp.ExecPath(chromePath)}, allocOpts...)
	}
	if opts.Headless {
		allocOpts = append(allocOpts, chromedp.Flag("headless", "new"))
	} else {
		allocOpts = append(allocOpts, chromedp.Flag("headless", false))
	}
	if opts.Proxy != "" {
		allocOpts = append(allocOpts, chromedp.ProxyServer(opts.Proxy))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)

	slots := make(chan struct{}, opts.Size)
	for i := 0; i < opts.Size; i++ {
		slots <- struct{}{}
	}

	log.Debug().Int("size", opts.Size).Str("chrome", chromePath).Msg("Browser pool created")

	return &Pool{
		slots:       slots,
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		size:        opts.Size,
	}
}

// Acquire blocks for a free slot, then opens an isolated browser context.
// The caller's ctx bounds the wait; on cancellation no slot is consumed.
func (p *Pool) Acquire(ctx context.Context) (*Session, error) {
	select {
	case <-p.slots:
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for browser slot: %w", ctx.Err())
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, fmt.Errorf("browser pool is closed")
	}
	p.mu.Unlock()

	browserCtx, cancel := chromedp.NewContext(p.allocCtx)
	log.Debug().Msg("Browser session acquired")
	return &Session{Ctx: browserCtx, cancel: cancel, pool: p}, nil
}

// Release tears down the session's browser context and frees its slot.
// Safe to call exactly once per session, on every exit path.
func (s *Session) Release() {
	if s == nil {
		return
	}
	s.cancel()
	select {
	case s.pool.slots <- struct{}{}:
		log.Debug().Msg("Browser session released")
	default:
		// Slot accounting is broken only if Release is called twice.
		log.Warn().Msg("Browser pool slot overflow on release")
	}
}

// Size returns the slot capacity.
func (p *Pool) Size() int {
	return p.size
}

// Available returns the number of free slots.
func (p *Pool) Available() int {
	return len(p.slots)
}

// Close shuts down the allocator. In-flight sessions are cancelled through
// the allocator context.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	p.allocCancel()
	log.Debug().Msg("Browser pool closed")
	return nil
}
