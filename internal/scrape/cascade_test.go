package scrape

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/newshound/newshound/internal/extract"
	"github.com/newshound/newshound/pkg/models"
)

// stubStrategy lets tests script outcomes and count invocations.
type stubStrategy struct {
	id    models.StrategyID
	calls int
	fn    func(ctx context.Context, url string) models.FetchOutcome
}

func (s *stubStrategy) ID() models.StrategyID { return s.id }

func (s *stubStrategy) Fetch(ctx context.Context, url string) models.FetchOutcome {
	s.calls++
	return s.fn(ctx, url)
}

func textOutcome(id models.StrategyID, words int) models.FetchOutcome {
	return models.FetchOutcome{
		Strategy:     id,
		Status:       models.FetchSuccess,
		HTTPStatus:   200,
		Body:         strings.TrimSpace(strings.Repeat("word ", words)),
		PreExtracted: true,
	}
}

func blockedOutcome(id models.StrategyID) models.FetchOutcome {
	return models.FetchOutcome{
		Strategy:   id,
		Status:     models.FetchBlocked,
		HTTPStatus: 403,
	}
}

func testEvaluator() Evaluator {
	return Evaluator{
		MinWords:      40,
		Signatures:    []string{"attention required", "cloudflare", "access denied"},
		AlwaysBlocked: []string{"checking if the site connection is secure"},
	}
}

func newTestCascade(t *testing.T, attemptTimeout time.Duration, strategies ...Strategy) *Cascade {
	t.Helper()
	return NewCascade(strategies, extract.New(), testEvaluator(), attemptTimeout)
}

func mustRequest(t *testing.T, budget time.Duration, order ...models.StrategyID) models.RetrievalRequest {
	t.Helper()
	req, err := models.NewRetrievalRequest("https://example.com/story", budget, order, 40)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	return req
}

func TestCascadeFirstUsableWins(t *testing.T) {
	first := &stubStrategy{id: models.StrategyLightClient, fn: func(ctx context.Context, url string) models.FetchOutcome {
		return textOutcome(models.StrategyLightClient, 200)
	}}
	second := &stubStrategy{id: models.StrategyDirectFetch, fn: func(ctx context.Context, url string) models.FetchOutcome {
		return textOutcome(models.StrategyDirectFetch, 200)
	}}

	c := newTestCascade(t, time.Second, first, second)
	result := c.Run(context.Background(), mustRequest(t, 5*time.Second, models.StrategyLightClient, models.StrategyDirectFetch))

	if !result.Usable() {
		t.Fatalf("expected usable result, attempts: %+v", result.Attempts)
	}
	if second.calls != 0 {
		t.Errorf("later strategy invoked %d times after earlier success", second.calls)
	}
	if len(result.Attempts) != 1 {
		t.Errorf("attempts = %d, want 1", len(result.Attempts))
	}
	if result.Article.Strategy != models.StrategyLightClient {
		t.Errorf("article strategy = %s, want %s", result.Article.Strategy, models.StrategyLightClient)
	}
}

func TestCascadeTriesStrategiesInOrder(t *testing.T) {
	var invoked []models.StrategyID
	record := func(id models.StrategyID, out models.FetchOutcome) *stubStrategy {
		return &stubStrategy{id: id, fn: func(ctx context.Context, url string) models.FetchOutcome {
			invoked = append(invoked, id)
			return out
		}}
	}
	first := record(models.StrategyLightClient, blockedOutcome(models.StrategyLightClient))
	second := record(models.StrategyArchivedSnapshot, blockedOutcome(models.StrategyArchivedSnapshot))
	third := record(models.StrategyDirectFetch, textOutcome(models.StrategyDirectFetch, 200))

	c := newTestCascade(t, time.Second, first, second, third)
	result := c.Run(context.Background(), mustRequest(t, 5*time.Second,
		models.StrategyLightClient, models.StrategyArchivedSnapshot, models.StrategyDirectFetch))

	want := []models.StrategyID{models.StrategyLightClient, models.StrategyArchivedSnapshot, models.StrategyDirectFetch}
	if len(invoked) != len(want) {
		t.Fatalf("invoked %v, want %v", invoked, want)
	}
	for i := range want {
		if invoked[i] != want[i] {
			t.Fatalf("invoked %v, want %v", invoked, want)
		}
	}
	if !result.Usable() || result.Article.Strategy != models.StrategyDirectFetch {
		t.Errorf("expected success via %s, got %+v", models.StrategyDirectFetch, result.Article)
	}
	if len(result.Attempts) != 3 {
		t.Errorf("attempts = %d, want 3", len(result.Attempts))
	}
}

func TestCascadeStopsAtTimeBudget(t *testing.T) {
	budget := 80 * time.Millisecond

	slow := &stubStrategy{id: models.StrategyLightClient, fn: func(ctx context.Context, url string) models.FetchOutcome {
		start := time.Now()
		<-ctx.Done()
		return errorOutcome(models.StrategyLightClient, start, ctx.Err())
	}}
	never := &stubStrategy{id: models.StrategyDirectFetch, fn: func(ctx context.Context, url string) models.FetchOutcome {
		return textOutcome(models.StrategyDirectFetch, 200)
	}}

	c := newTestCascade(t, time.Minute, slow, never)
	start := time.Now()
	result := c.Run(context.Background(), mustRequest(t, budget, models.StrategyLightClient, models.StrategyDirectFetch))
	elapsed := time.Since(start)

	if result.Usable() {
		t.Fatal("expected exhaustion, got usable article")
	}
	if never.calls != 0 {
		t.Errorf("strategy after budget exhaustion invoked %d times", never.calls)
	}
	if elapsed > budget+500*time.Millisecond {
		t.Errorf("run took %s, budget was %s", elapsed, budget)
	}
	if len(result.Attempts) != 1 {
		t.Fatalf("attempts = %d, want 1", len(result.Attempts))
	}
	if got := result.Attempts[0].Status; got != models.FetchTimeout {
		t.Errorf("attempt status = %s, want %s", got, models.FetchTimeout)
	}
}

func TestCascadeClampsAttemptTimeoutToRemainingBudget(t *testing.T) {
	budget := 100 * time.Millisecond

	var sawDeadline time.Duration
	probe := &stubStrategy{id: models.StrategyLightClient, fn: func(ctx context.Context, url string) models.FetchOutcome {
		if deadline, ok := ctx.Deadline(); ok {
			sawDeadline = time.Until(deadline)
		}
		return blockedOutcome(models.StrategyLightClient)
	}}

	// Attempt timeout far larger than the budget; the attempt context
	// must still expire within the budget.
	c := newTestCascade(t, time.Hour, probe)
	c.Run(context.Background(), mustRequest(t, budget, models.StrategyLightClient))

	if sawDeadline <= 0 || sawDeadline > budget+50*time.Millisecond {
		t.Errorf("attempt deadline %s exceeds budget %s", sawDeadline, budget)
	}
}

func TestCascadeRejectsThinContent(t *testing.T) {
	thin := &stubStrategy{id: models.StrategyLightClient, fn: func(ctx context.Context, url string) models.FetchOutcome {
		return textOutcome(models.StrategyLightClient, 5)
	}}
	full := &stubStrategy{id: models.StrategyDirectFetch, fn: func(ctx context.Context, url string) models.FetchOutcome {
		return textOutcome(models.StrategyDirectFetch, 200)
	}}

	c := newTestCascade(t, time.Second, thin, full)
	result := c.Run(context.Background(), mustRequest(t, 5*time.Second, models.StrategyLightClient, models.StrategyDirectFetch))

	if !result.Usable() || result.Article.Strategy != models.StrategyDirectFetch {
		t.Fatalf("expected fallthrough to %s, got %+v", models.StrategyDirectFetch, result.Article)
	}
	if detail := result.Attempts[0].Detail; !strings.Contains(detail, "words") {
		t.Errorf("thin-content attempt detail = %q, want word-count reason", detail)
	}
}

func TestCascadeRejectsBlockPage(t *testing.T) {
	blockPage := &stubStrategy{id: models.StrategyLightClient, fn: func(ctx context.Context, url string) models.FetchOutcome {
		out := textOutcome(models.StrategyLightClient, 0)
		out.Body = strings.TrimSpace(strings.Repeat("please wait ", 30) + "Attention Required! Cloudflare checks your browser")
		return out
	}}
	full := &stubStrategy{id: models.StrategyDirectFetch, fn: func(ctx context.Context, url string) models.FetchOutcome {
		return textOutcome(models.StrategyDirectFetch, 200)
	}}

	c := newTestCascade(t, time.Second, blockPage, full)
	result := c.Run(context.Background(), mustRequest(t, 5*time.Second, models.StrategyLightClient, models.StrategyDirectFetch))

	if !result.Usable() || result.Article.Strategy != models.StrategyDirectFetch {
		t.Fatalf("expected fallthrough past block page, got %+v", result.Article)
	}
	if detail := result.Attempts[0].Detail; !strings.Contains(detail, "block page signature") {
		t.Errorf("attempt detail = %q, want block page reason", detail)
	}
}

func TestCascadeRecordsUnconfiguredStrategy(t *testing.T) {
	only := &stubStrategy{id: models.StrategyDirectFetch, fn: func(ctx context.Context, url string) models.FetchOutcome {
		return textOutcome(models.StrategyDirectFetch, 200)
	}}

	c := newTestCascade(t, time.Second, only)
	result := c.Run(context.Background(), mustRequest(t, 5*time.Second, models.StrategyStealthBrowser, models.StrategyDirectFetch))

	if len(result.Attempts) != 2 {
		t.Fatalf("attempts = %d, want 2", len(result.Attempts))
	}
	if result.Attempts[0].Detail != "strategy not configured" {
		t.Errorf("first attempt detail = %q", result.Attempts[0].Detail)
	}
	if !result.Usable() {
		t.Error("expected the configured strategy to still succeed")
	}
}

func TestCascadeExhaustsAllStrategies(t *testing.T) {
	mk := func(id models.StrategyID) *stubStrategy {
		return &stubStrategy{id: id, fn: func(ctx context.Context, url string) models.FetchOutcome {
			return blockedOutcome(id)
		}}
	}
	c := newTestCascade(t, time.Second,
		mk(models.StrategyLightClient), mk(models.StrategyDirectFetch), mk(models.StrategyArchivedSnapshot))
	result := c.Run(context.Background(), mustRequest(t, 5*time.Second,
		models.StrategyLightClient, models.StrategyDirectFetch, models.StrategyArchivedSnapshot))

	if result.Usable() {
		t.Fatal("expected exhausted cascade")
	}
	if len(result.Attempts) != 3 {
		t.Errorf("attempts = %d, want 3", len(result.Attempts))
	}
	for _, a := range result.Attempts {
		if a.Status != models.FetchBlocked {
			t.Errorf("attempt %s status = %s, want %s", a.Strategy, a.Status, models.FetchBlocked)
		}
	}
}

func TestCascadeStripsBodyFromAttempts(t *testing.T) {
	ok := &stubStrategy{id: models.StrategyLightClient, fn: func(ctx context.Context, url string) models.FetchOutcome {
		return textOutcome(models.StrategyLightClient, 200)
	}}

	c := newTestCascade(t, time.Second, ok)
	result := c.Run(context.Background(), mustRequest(t, 5*time.Second, models.StrategyLightClient))

	if !result.Usable() {
		t.Fatal("expected usable result")
	}
	if result.Attempts[0].Body != "" {
		t.Error("attempt record kept the page body")
	}
	if result.Attempts[0].Status != models.FetchSuccess {
		t.Errorf("successful attempt status = %s", result.Attempts[0].Status)
	}
}

func TestCascadeHonorsPreCancelledContext(t *testing.T) {
	never := &stubStrategy{id: models.StrategyLightClient, fn: func(ctx context.Context, url string) models.FetchOutcome {
		return textOutcome(models.StrategyLightClient, 200)
	}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newTestCascade(t, time.Second, never)
	result := c.Run(ctx, mustRequest(t, 5*time.Second, models.StrategyLightClient))

	if result.Usable() {
		t.Fatal("expected no result from cancelled context")
	}
	if never.calls != 0 {
		t.Errorf("strategy invoked %d times under cancelled context", never.calls)
	}
}
