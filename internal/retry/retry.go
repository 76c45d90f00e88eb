package retry

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"
)

// Config defines bounded retry behavior with exponential backoff. Retries
// here are internal to one strategy or the search client; the cascade itself
// never re-runs a strategy.
type Config struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	Multiplier     float64
}

// DefaultConfig suits transient network hiccups: two extra attempts at most.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:    3,
		InitialBackoff: 500 * time.Millisecond,
		Multiplier:     2.0,
	}
}

// Do executes fn with retry logic. fn may report a permanent failure by
// returning (err, false); retrying stops immediately in that case.
func Do(ctx context.Context, cfg Config, fn func() (err error, transient bool)) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		err, transient := fn()
		if err == nil {
			if attempt > 0 {
				log.Debug().Int("attempts", attempt+1).Msg("Retry succeeded")
			}
			return nil
		}
		lastErr = err
		if !transient {
			return err
		}

		if attempt < cfg.MaxAttempts-1 {
			backoff := time.Duration(float64(cfg.InitialBackoff) * math.Pow(cfg.Multiplier, float64(attempt)))
			log.Debug().
				Int("attempt", attempt+1).
				Dur("backoff", backoff).
				Err(err).
				Msg("Retrying after backoff")
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return fmt.Errorf("operation failed after %d attempts: %w", cfg.MaxAttempts, lastErr)
}
