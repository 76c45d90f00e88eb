package extract

import (
	"fmt"
	"strings"
	"testing"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head>
  <title>Fusion Milestone Reached | The Example Times</title>
  <meta property="og:title" content="Fusion Milestone Reached"/>
  <meta property="og:site_name" content="The Example Times"/>
  <meta property="og:description" content="Scientists report sustained net energy gain."/>
</head>
<body>
  <nav>Home News Sports Weather Subscribe Login</nav>
  <article>
    <h1>Fusion Milestone Reached</h1>
    <p>%s</p>
    <p>%s</p>
  </article>
  <footer>Copyright, privacy, careers, contact us and so on.</footer>
</body>
</html>`

func longParagraph(seed string) string {
	return strings.TrimSpace(strings.Repeat(seed+" scientists reported sustained output in the experiment. ", 12))
}

func TestExtractArticle(t *testing.T) {
	html := fmt.Sprintf(articleHTML, longParagraph("First"), longParagraph("Second"))

	art, err := New().Extract(html, "https://news.example.com/fusion")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if art == nil {
		t.Fatal("Extract returned nil article")
	}
	if !strings.Contains(art.Body, "sustained output") {
		t.Errorf("body missing article text: %q", art.Body)
	}
	if strings.Contains(art.Body, "Subscribe Login") {
		t.Errorf("body kept navigation chrome: %q", art.Body)
	}
	if art.Title == "" {
		t.Error("title not extracted")
	}
	if art.WordCount == 0 {
		t.Error("word count not computed")
	}
	if art.URL != "https://news.example.com/fusion" {
		t.Errorf("url = %q", art.URL)
	}
}

func TestExtractEmptyPage(t *testing.T) {
	e := New()

	art, err := e.Extract("", "https://example.com")
	if err != nil || art != nil {
		t.Errorf("empty html: art=%v err=%v", art, err)
	}

	art, err = e.Extract("<html><body></body></html>", "https://example.com")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if art != nil {
		t.Errorf("contentless page produced article: %+v", art)
	}
}

func TestExtractFallbackSelector(t *testing.T) {
	// Thin enough that readability yields little; the density fallback
	// must find the marked container.
	body := longParagraph("Fallback")
	html := fmt.Sprintf(`<html><head><title>T</title></head><body>
<div class="entry-content">%s</div>
</body></html>`, body)

	art, err := New().Extract(html, "https://example.com/post")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if art == nil {
		t.Fatal("fallback produced no article")
	}
	if !strings.Contains(art.Body, "Fallback scientists reported") {
		t.Errorf("body = %q", art.Body)
	}
}

func TestExtractMetadataFromOpenGraph(t *testing.T) {
	html := fmt.Sprintf(articleHTML, longParagraph("Meta"), longParagraph("Data"))

	art, err := New().Extract(html, "https://news.example.com/fusion")
	if err != nil || art == nil {
		t.Fatalf("Extract: art=%v err=%v", art, err)
	}
	if art.SiteName != "The Example Times" {
		t.Errorf("site name = %q", art.SiteName)
	}
	if !strings.Contains(art.Title, "Fusion Milestone Reached") {
		t.Errorf("title = %q", art.Title)
	}
}

func TestFromText(t *testing.T) {
	art := New().FromText("Line one.\n\n\n\nLine   two.", "A Title", "https://example.com/x")
	if art == nil {
		t.Fatal("FromText returned nil")
	}
	if art.Body != "Line one.\n\nLine two." {
		t.Errorf("body = %q", art.Body)
	}
	if art.Title != "A Title" || art.WordCount != 4 {
		t.Errorf("title=%q words=%d", art.Title, art.WordCount)
	}
	if art.Markdown != art.Body {
		t.Errorf("markdown = %q", art.Markdown)
	}

	if New().FromText("   \n  ", "t", "u") != nil {
		t.Error("whitespace-only text produced article")
	}
}

func TestNormalizeText(t *testing.T) {
	in := "  a   b \n\n\n c\t d \n\n"
	want := "a b\n\nc d"
	if got := normalizeText(in); got != want {
		t.Errorf("normalizeText = %q, want %q", got, want)
	}
}
