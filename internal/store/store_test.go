package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/newshound/newshound/pkg/models"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "articles.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testArticle(url string) *models.Article {
	return &models.Article{
		URL:         url,
		Title:       "A Title",
		Byline:      "A Reporter",
		SiteName:    "Example Times",
		Body:        "The article body text.",
		Markdown:    "The article body text.",
		WordCount:   4,
		Strategy:    models.StrategyLightClient,
		RetrievedAt: time.Now().Truncate(time.Second),
	}
}

func TestSaveAndGet(t *testing.T) {
	s := testStore(t)

	id, err := s.Save(testArticle("https://example.com/one"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if id == 0 {
		t.Fatal("Save returned zero ID")
	}

	saved, err := s.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if saved.Article.URL != "https://example.com/one" {
		t.Errorf("url = %q", saved.Article.URL)
	}
	if saved.Article.Title != "A Title" || saved.Article.Byline != "A Reporter" {
		t.Errorf("metadata = %q / %q", saved.Article.Title, saved.Article.Byline)
	}
	if saved.Article.Strategy != models.StrategyLightClient {
		t.Errorf("strategy = %s", saved.Article.Strategy)
	}
	if saved.SavedAt.IsZero() {
		t.Error("saved_at not set")
	}
}

func TestGetMissing(t *testing.T) {
	s := testStore(t)
	if _, err := s.Get(42); err == nil {
		t.Fatal("expected error for missing ID")
	}
}

func TestListMostRecentFirst(t *testing.T) {
	s := testStore(t)

	for _, u := range []string{"https://example.com/1", "https://example.com/2", "https://example.com/3"} {
		if _, err := s.Save(testArticle(u)); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	entries, err := s.List(10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("List = %d entries", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].SavedAt.After(entries[i-1].SavedAt) {
			t.Errorf("entries not in descending saved_at order")
		}
	}
}

func TestListLimit(t *testing.T) {
	s := testStore(t)
	for _, u := range []string{"https://example.com/1", "https://example.com/2", "https://example.com/3"} {
		s.Save(testArticle(u))
	}
	entries, err := s.List(2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("List = %d entries, want 2", len(entries))
	}
}

func TestDelete(t *testing.T) {
	s := testStore(t)
	id, _ := s.Save(testArticle("https://example.com/1"))

	if err := s.Delete(id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(id); err == nil {
		t.Error("deleted article still readable")
	}
}
