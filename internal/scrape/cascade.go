package scrape

import (
	"context"
	"time"

	"github.com/newshound/newshound/internal/extract"
	"github.com/newshound/newshound/internal/reqctx"
	"github.com/newshound/newshound/pkg/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Cascade tries strategies one at a time, in request order, until one
// yields a usable article or the order (or the time budget) is exhausted.
// Strategies are never retried within a run and never run concurrently:
// each is costly, and a later one is wasted work once an earlier succeeds.
type Cascade struct {
	strategies     map[models.StrategyID]Strategy
	extractor      *extract.Extractor
	evaluator      Evaluator
	attemptTimeout time.Duration
}

// NewCascade builds a controller over the given strategies. attemptTimeout
// caps any single attempt; the per-request budget caps the whole run.
func NewCascade(strategies []Strategy, extractor *extract.Extractor, evaluator Evaluator, attemptTimeout time.Duration) *Cascade {
	byID := make(map[models.StrategyID]Strategy, len(strategies))
	for _, s := range strategies {
		byID[s.ID()] = s
	}
	if attemptTimeout <= 0 {
		attemptTimeout = 20 * time.Second
	}
	return &Cascade{
		strategies:     byID,
		extractor:      extractor,
		evaluator:      evaluator,
		attemptTimeout: attemptTimeout,
	}
}

// Run executes one retrieval. The request's time budget is a hard
// wall-clock ceiling for the entire run: an in-flight attempt is cancelled
// at the ceiling or at its own timeout, whichever comes first, and the run
// ends with whatever attempts completed.
func (c *Cascade) Run(ctx context.Context, req models.RetrievalRequest) models.CascadeResult {
	ctx = reqctx.WithRun(ctx)
	run := reqctx.Run(ctx)

	deadline := time.Now().Add(req.TimeBudget)
	runCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	eval := c.evaluator
	if req.MinWords > 0 {
		eval.MinWords = req.MinWords
	}

	logger := log.With().Str("run_id", run.RunID).Str("url", req.URL).Logger()
	logger.Debug().
		Dur("budget", req.TimeBudget).
		Int("strategies", len(req.Order)).
		Msg("Cascade started")

	attempts := make([]models.FetchOutcome, 0, len(req.Order))

	for _, id := range req.Order {
		remaining := time.Until(deadline)
		if remaining <= 0 || runCtx.Err() != nil {
			logger.Warn().Int("attempts", len(attempts)).Msg("Time budget exhausted mid-cascade")
			break
		}

		strategy, ok := c.strategies[id]
		if !ok {
			attempts = append(attempts, models.FetchOutcome{
				Strategy: id,
				Status:   models.FetchNetworkError,
				Detail:   "strategy not configured",
			})
			continue
		}

		// Each attempt gets its own timeout, never more than what is
		// left of the overall budget, so one slow strategy cannot
		// starve those after it.
		attemptTimeout := c.attemptTimeout
		if attemptTimeout > remaining {
			attemptTimeout = remaining
		}
		attemptCtx, attemptCancel := context.WithTimeout(runCtx, attemptTimeout)
		outcome := strategy.Fetch(attemptCtx, req.URL)
		attemptCancel()

		logger.Debug().
			Str("strategy", string(id)).
			Str("status", string(outcome.Status)).
			Int("http_status", outcome.HTTPStatus).
			Dur("elapsed", outcome.Elapsed).
			Msg("Strategy attempt finished")

		article := c.extractAttempt(outcome, req.URL, logger)
		usable, reason := eval.Usable(outcome, article)

		// Attempts keep the outcome metadata but not the page bytes.
		record := outcome
		record.Body = ""
		if !usable && record.Detail == "" {
			record.Detail = reason
		}
		attempts = append(attempts, record)

		if usable {
			article.Strategy = id
			logger.Info().
				Str("strategy", string(id)).
				Int("words", article.WordCount).
				Int("attempts", len(attempts)).
				Msg("Article retrieved")
			return models.CascadeResult{Article: article, Attempts: attempts}
		}
	}

	logger.Warn().Int("attempts", len(attempts)).Msg("All strategies exhausted")
	return models.CascadeResult{Attempts: attempts}
}

func (c *Cascade) extractAttempt(outcome models.FetchOutcome, pageURL string, logger zerolog.Logger) *models.Article {
	if outcome.Status != models.FetchSuccess {
		return nil
	}
	if outcome.PreExtracted {
		return c.extractor.FromText(outcome.Body, outcome.Title, pageURL)
	}
	article, err := c.extractor.Extract(outcome.Body, pageURL)
	if err != nil {
		logger.Debug().Err(err).Msg("Extraction error treated as empty result")
		return nil
	}
	return article
}
