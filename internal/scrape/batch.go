package scrape

import (
	"context"
	"sync"
	"time"

	"github.com/newshound/newshound/pkg/models"
	"github.com/rs/zerolog/log"
)

// BatchResult pairs one input URL with its cascade result. Err is non-nil
// only when the request itself was invalid.
type BatchResult struct {
	URL    string
	Result models.CascadeResult
	Err    error
}

// BatchOptions configures one batch run.
type BatchOptions struct {
	TimeBudget  time.Duration
	Order       []models.StrategyID
	MinWords    int
	Concurrency int
	// OnDone, if set, is called once per finished URL (from worker
	// goroutines; must be safe for concurrent use).
	OnDone func()
}

// RunBatch retrieves several articles concurrently. Each URL gets its own
// sequential cascade; cascades run in parallel bounded by Concurrency. The
// returned slice is indexed like urls, regardless of completion order.
func (c *Cascade) RunBatch(ctx context.Context, urls []string, opts BatchOptions) []BatchResult {
	results := make([]BatchResult, len(urls))
	if len(urls) == 0 {
		return results
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}
	if concurrency > len(urls) {
		concurrency = len(urls)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = c.runOne(ctx, urls[i], opts)
				if opts.OnDone != nil {
					opts.OnDone()
				}
			}
		}()
	}

	for i := range urls {
		select {
		case jobs <- i:
		case <-ctx.Done():
			// Remaining URLs are not dispatched; workers drain and stop.
			// The undispatched slots still get their URL and the
			// cancellation error, so callers never see blank results.
			log.Warn().Err(ctx.Err()).Msg("Batch cancelled before all URLs dispatched")
			close(jobs)
			wg.Wait()
			for j := i; j < len(urls); j++ {
				results[j] = BatchResult{URL: urls[j], Err: ctx.Err()}
			}
			return results
		}
	}
	close(jobs)
	wg.Wait()
	return results
}

func (c *Cascade) runOne(ctx context.Context, url string, opts BatchOptions) BatchResult {
	req, err := models.NewRetrievalRequest(url, opts.TimeBudget, opts.Order, opts.MinWords)
	if err != nil {
		return BatchResult{URL: url, Err: err}
	}
	return BatchResult{URL: url, Result: c.Run(ctx, req)}
}
