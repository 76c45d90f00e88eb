package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/newshound/newshound/internal/utils/headers"
	"github.com/newshound/newshound/pkg/models"
	"github.com/spf13/cobra"
)

// Config holds application configuration values
type Config struct {
	// Logging
	LogLevel string
	JSONLog  bool

	// Retrieval
	TimeBudget     time.Duration
	AttemptTimeout time.Duration
	MinWords       int
	StrategyOrder  []models.StrategyID
	UserAgent      string
	Proxies        []string
	MaxBodyBytes   int64
	ExtraHeaders   map[string]string

	// Block-page detection
	BlockSignatures      []string
	AlwaysBlockedPhrases []string
	BlockCheckMaxWords   int

	// Rate Limiting
	RateLimitRPS   float64
	RateLimitBurst int

	// Browser Pool
	BrowserPoolSize int
	BrowserHeadless bool
	BrowserWait     time.Duration
	ChromePath      string

	// External endpoints
	ArchiveEndpoint string
	ReaderEndpoint  string
	ReaderToken     string
	SearchEndpoint  string

	// Article cache
	CacheTTL        time.Duration
	CacheMaxEntries int

	// Batch retrieval
	BatchConcurrency int

	// Saved-article store
	StorePath string

	// Session file carrying search-result IDs between invocations
	SessionPath string
}

// Load builds a Config by combining defaults, an optional .env file,
// environment variables, and CLI flags. Caller should pass the root
// *cobra.Command so flags can be read.
func Load(cmd *cobra.Command) (*Config, error) {
	// A .env next to the binary is convenient for tokens; absence is fine.
	_ = godotenv.Load()

	order, err := models.ParseStrategyOrder(DefaultStrategyOrder)
	if err != nil {
		return nil, fmt.Errorf("default strategy order: %w", err)
	}

	cfg := &Config{
		LogLevel:             DefaultLogLevel,
		JSONLog:              DefaultJSONLog,
		TimeBudget:           DefaultTimeBudget,
		AttemptTimeout:       DefaultAttemptTimeout,
		MinWords:             DefaultMinWords,
		StrategyOrder:        order,
		UserAgent:            DefaultUserAgent,
		MaxBodyBytes:         DefaultMaxBodyBytes,
		BlockSignatures:      DefaultBlockSignatures,
		AlwaysBlockedPhrases: DefaultAlwaysBlockedPhrases,
		BlockCheckMaxWords:   DefaultBlockCheckMaxWords,
		RateLimitRPS:         DefaultRateLimitRPS,
		RateLimitBurst:       DefaultRateLimitBurst,
		BrowserPoolSize:      DefaultBrowserPoolSize,
		BrowserHeadless:      DefaultBrowserHeadless,
		BrowserWait:          DefaultBrowserWait,
		ArchiveEndpoint:      DefaultArchiveEndpoint,
		ReaderEndpoint:       DefaultReaderEndpoint,
		SearchEndpoint:       DefaultSearchEndpoint,
		CacheTTL:             DefaultCacheTTL,
		CacheMaxEntries:      DefaultCacheMaxEntries,
		BatchConcurrency:     DefaultBatchConcurrency,
		StorePath:            defaultStorePath(),
		SessionPath:          defaultSessionPath(),
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if cmd != nil {
		if err := applyFlags(cfg, cmd); err != nil {
			return nil, err
		}
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// applyEnv overlays environment variables. Malformed values are errors,
// never silently replaced by defaults.
func applyEnv(cfg *Config) error {
	if v := os.Getenv("NEWSHOUND_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	if v := os.Getenv("NEWSHOUND_PROXIES"); v != "" {
		cfg.Proxies = splitList(v)
	}
	if v := os.Getenv("NEWSHOUND_CHROME_PATH"); v != "" {
		cfg.ChromePath = v
	}
	if v := os.Getenv("NEWSHOUND_READER_TOKEN"); v != "" {
		cfg.ReaderToken = v
	}
	if v := os.Getenv("NEWSHOUND_STRATEGIES"); v != "" {
		order, err := models.ParseStrategyOrder(v)
		if err != nil {
			return fmt.Errorf("NEWSHOUND_STRATEGIES: %w", err)
		}
		cfg.StrategyOrder = order
	}
	if v := os.Getenv("NEWSHOUND_BLOCK_SIGNATURES"); v != "" {
		cfg.BlockSignatures = splitList(v)
	}
	if v := os.Getenv("NEWSHOUND_BLOCK_CHECK_MAX_WORDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("NEWSHOUND_BLOCK_CHECK_MAX_WORDS: %w", err)
		}
		cfg.BlockCheckMaxWords = n
	}
	if v := os.Getenv("NEWSHOUND_MIN_WORDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("NEWSHOUND_MIN_WORDS: %w", err)
		}
		cfg.MinWords = n
	}
	if v := os.Getenv("NEWSHOUND_TIME_BUDGET"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("NEWSHOUND_TIME_BUDGET: %w", err)
		}
		cfg.TimeBudget = d
	}
	if v := os.Getenv("NEWSHOUND_STORE_PATH"); v != "" {
		cfg.StorePath = v
	}
	return nil
}

// applyFlags overlays explicitly set CLI flags. Like applyEnv, malformed
// values are reported, not defaulted.
func applyFlags(cfg *Config, cmd *cobra.Command) error {
	if f := cmd.Flags().Lookup("user-agent"); f != nil && f.Changed {
		cfg.UserAgent = f.Value.String()
	}
	if f := cmd.Flags().Lookup("proxy"); f != nil && f.Changed {
		cfg.Proxies = splitList(f.Value.String())
	}
	if f := cmd.Flags().Lookup("budget"); f != nil && f.Changed {
		d, err := time.ParseDuration(f.Value.String())
		if err != nil {
			return fmt.Errorf("--budget: %w", err)
		}
		cfg.TimeBudget = d
	}
	if f := cmd.Flags().Lookup("timeout"); f != nil && f.Changed {
		d, err := time.ParseDuration(f.Value.String())
		if err != nil {
			return fmt.Errorf("--timeout: %w", err)
		}
		cfg.AttemptTimeout = d
	}
	if f := cmd.Flags().Lookup("min-words"); f != nil && f.Changed {
		n, err := strconv.Atoi(f.Value.String())
		if err != nil {
			return fmt.Errorf("--min-words: %w", err)
		}
		cfg.MinWords = n
	}
	if f := cmd.Flags().Lookup("strategies"); f != nil && f.Changed {
		order, err := models.ParseStrategyOrder(f.Value.String())
		if err != nil {
			return fmt.Errorf("--strategies: %w", err)
		}
		cfg.StrategyOrder = order
	}
	if vals, err := cmd.Flags().GetStringArray("header"); err == nil && len(vals) > 0 {
		m, err := headers.Parse(vals)
		if err != nil {
			return fmt.Errorf("--header: %w", err)
		}
		cfg.ExtraHeaders = m
	}
	if f := cmd.Flags().Lookup("json"); f != nil && f.Value.String() == "true" {
		cfg.JSONLog = true
	}
	if f := cmd.Flags().Lookup("verbose"); f != nil && f.Value.String() == "true" {
		cfg.LogLevel = "debug"
	}
	if f := cmd.Flags().Lookup("quiet"); f != nil && f.Value.String() == "true" {
		cfg.LogLevel = "error"
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "newshound.db"
	}
	return filepath.Join(home, ".newshound", "articles.db")
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "newshound-session.json"
	}
	return filepath.Join(home, ".newshound", "session.json")
}
