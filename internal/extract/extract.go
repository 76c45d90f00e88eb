// Package extract distills readable article content out of raw page HTML.
package extract

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"
	"github.com/dyatlov/go-opengraph/opengraph"
	readability "github.com/go-shiori/go-readability"
	"github.com/newshound/newshound/pkg/models"
	"github.com/rs/zerolog/log"
)

// fallbackMinChars is the point below which the readability result is
// considered near-empty and the density heuristic takes over.
const fallbackMinChars = 140

// candidateSelectors are tried in order by the fallback heuristic before
// settling on <body>.
var candidateSelectors = []string{
	"article",
	"main",
	"[role=main]",
	"#content",
	".article-body",
	".post-content",
	".entry-content",
}

// Extractor turns raw HTML into an Article. A nil article with a nil error
// means the page held no meaningful content; that is a normal outcome, not
// a failure.
type Extractor struct {
	converter *md.Converter
}

// New creates an Extractor with a GitHub-flavored markdown converter.
func New() *Extractor {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())
	return &Extractor{converter: converter}
}

// Extract isolates the main article text of html. pageURL anchors relative
// links and feeds readability's URL-based heuristics.
func (e *Extractor) Extract(html, pageURL string) (*models.Article, error) {
	if strings.TrimSpace(html) == "" {
		return nil, nil
	}

	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse page URL: %w", err)
	}

	art := &models.Article{
		URL:         pageURL,
		RetrievedAt: time.Now(),
	}

	primary, err := readability.FromReader(strings.NewReader(html), parsedURL)
	if err == nil {
		art.Title = strings.TrimSpace(primary.Title)
		art.Byline = strings.TrimSpace(primary.Byline)
		art.SiteName = strings.TrimSpace(primary.SiteName)
		art.Excerpt = strings.TrimSpace(primary.Excerpt)
		art.Body = normalizeText(primary.TextContent)
		if markdown, convErr := e.converter.ConvertString(primary.Content); convErr == nil {
			art.Markdown = strings.TrimSpace(markdown)
		}
	} else {
		log.Debug().Err(err).Str("url", pageURL).Msg("Readability extraction failed, trying fallback")
	}

	if len(art.Body) < fallbackMinChars {
		e.fallback(html, art)
	}

	fillMetadata(html, art)

	art.Body = normalizeText(art.Body)
	art.WordCount = models.CountWords(art.Body)
	if art.WordCount == 0 {
		return nil, nil
	}
	return art, nil
}

// FromText builds an Article from content that is already plain article
// text, such as a reader-proxy response.
func (e *Extractor) FromText(text, title, pageURL string) *models.Article {
	body := normalizeText(text)
	if body == "" {
		return nil
	}
	return &models.Article{
		URL:         pageURL,
		Title:       strings.TrimSpace(title),
		Body:        body,
		Markdown:    body,
		WordCount:   models.CountWords(body),
		RetrievedAt: time.Now(),
	}
}

// fallback runs the density heuristic: the first candidate selector whose
// stripped text beats the current body wins.
func (e *Extractor) fallback(html string, art *models.Article) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return
	}

	doc.Find("script, style, noscript, nav, header, footer, aside, form").Remove()

	best := art.Body
	var bestHTML string
	for _, selector := range candidateSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		text := normalizeText(sel.Text())
		if len(text) > len(best) {
			best = text
			bestHTML, _ = sel.Html()
		}
	}
	if len(best) <= len(art.Body) {
		text := normalizeText(doc.Find("body").Text())
		if len(text) > len(art.Body) {
			best = text
			bestHTML, _ = doc.Find("body").Html()
		}
	}

	if len(best) > len(art.Body) {
		art.Body = best
		if bestHTML != "" {
			if markdown, err := e.converter.ConvertString(bestHTML); err == nil {
				art.Markdown = strings.TrimSpace(markdown)
			}
		}
	}
}

// fillMetadata backfills title and site name from OpenGraph tags, then from
// the <title> element.
func fillMetadata(html string, art *models.Article) {
	if art.Title != "" && art.SiteName != "" {
		return
	}

	og := opengraph.NewOpenGraph()
	if err := og.ProcessHTML(strings.NewReader(html)); err == nil {
		if art.Title == "" {
			art.Title = strings.TrimSpace(og.Title)
		}
		if art.SiteName == "" {
			art.SiteName = strings.TrimSpace(og.SiteName)
		}
		if art.Excerpt == "" {
			art.Excerpt = strings.TrimSpace(og.Description)
		}
	}

	if art.Title == "" {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(html)); err == nil {
			art.Title = strings.TrimSpace(doc.Find("title").First().Text())
		}
	}
}

// normalizeText collapses runs of blank lines and intra-line whitespace.
func normalizeText(s string) string {
	lines := strings.Split(s, "\n")
	var out []string
	blank := false
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
