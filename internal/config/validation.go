package config

import "fmt"

func validate(c *Config) error {
	if c.TimeBudget <= 0 {
		return fmt.Errorf("time budget must be > 0")
	}
	if c.AttemptTimeout <= 0 {
		return fmt.Errorf("attempt timeout must be > 0")
	}
	if c.MinWords <= 0 {
		return fmt.Errorf("minimum word count must be > 0")
	}
	if c.BlockCheckMaxWords <= 0 {
		return fmt.Errorf("block check word ceiling must be > 0")
	}
	if len(c.StrategyOrder) == 0 {
		return fmt.Errorf("strategy order must not be empty")
	}
	if c.BrowserPoolSize <= 0 || c.BrowserPoolSize > DefaultMaxBrowserPoolSize {
		return fmt.Errorf("browser pool size must be between 1 and %d", DefaultMaxBrowserPoolSize)
	}
	if c.CacheMaxEntries <= 0 {
		return fmt.Errorf("cache max entries must be > 0")
	}
	if c.BatchConcurrency <= 0 {
		return fmt.Errorf("batch concurrency must be > 0")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max body bytes must be > 0")
	}
	return nil
}
