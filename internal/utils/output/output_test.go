package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/newshound/newshound/pkg/models"
)

func sampleArticle() *models.Article {
	return &models.Article{
		URL:       "https://example.com/story",
		Title:     "The Title",
		Byline:    "A Reporter",
		Body:      "Plain body text.",
		Markdown:  "**Bold** body text.",
		WordCount: 3,
		Strategy:  models.StrategyDirectFetch,
	}
}

func TestSaveJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "article.json")
	if err := Save(sampleArticle(), path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	var got models.Article
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Title != "The Title" || got.Body != "Plain body text." {
		t.Errorf("round trip = %+v", got)
	}
}

func TestSaveMarkdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "article.md")
	if err := Save(sampleArticle(), path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	raw, _ := os.ReadFile(path)
	content := string(raw)
	if !strings.HasPrefix(content, "# The Title") {
		t.Errorf("missing title heading: %q", content)
	}
	if !strings.Contains(content, "**Bold** body text.") {
		t.Errorf("missing markdown body: %q", content)
	}
	if !strings.Contains(content, "https://example.com/story") {
		t.Errorf("missing source URL: %q", content)
	}
}

func TestSaveMarkdownFallsBackToBody(t *testing.T) {
	art := sampleArticle()
	art.Markdown = ""
	path := filepath.Join(t.TempDir(), "article.md")
	if err := SaveMarkdown(art, path); err != nil {
		t.Fatalf("SaveMarkdown: %v", err)
	}
	raw, _ := os.ReadFile(path)
	if !strings.Contains(string(raw), "Plain body text.") {
		t.Errorf("body fallback missing: %q", raw)
	}
}

func TestSaveText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "article.txt")
	if err := Save(sampleArticle(), path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	raw, _ := os.ReadFile(path)
	content := string(raw)
	if !strings.Contains(content, "The Title") || !strings.Contains(content, "Plain body text.") {
		t.Errorf("content = %q", content)
	}
	if strings.Contains(content, "**Bold**") {
		t.Errorf("text export contains markdown: %q", content)
	}
}
