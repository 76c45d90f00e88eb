package scrape

import (
	"context"
	"errors"
	"testing"

	"github.com/newshound/newshound/internal/browser"
	"github.com/newshound/newshound/pkg/models"
)

func TestStealthBrowserAcquireFailure(t *testing.T) {
	acquire := func(ctx context.Context) (*browser.Session, error) {
		return nil, errors.New("no chrome binary found")
	}
	s := NewStealthBrowser(acquire, 0)

	out := s.Fetch(context.Background(), "https://example.com/story")
	if out.Status != models.FetchNetworkError {
		t.Fatalf("status = %s, want %s", out.Status, models.FetchNetworkError)
	}
	if out.Strategy != models.StrategyStealthBrowser {
		t.Errorf("strategy = %s", out.Strategy)
	}
}

func TestStealthBrowserAcquireTimeout(t *testing.T) {
	acquire := func(ctx context.Context) (*browser.Session, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	s := NewStealthBrowser(acquire, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := s.Fetch(ctx, "https://example.com/story")
	if out.Status != models.FetchNetworkError && out.Status != models.FetchTimeout {
		t.Fatalf("status = %s", out.Status)
	}
}
