package scrape

import (
	"fmt"
	"strings"

	"github.com/newshound/newshound/pkg/models"
)

// defaultBlockCheckMaxWords is the fallback ceiling for the signature scan
// when the evaluator is built without one.
const defaultBlockCheckMaxWords = 120

// Evaluator decides whether a fetch-plus-extraction result is usable. It is
// a pure decision function: no I/O, no state mutation.
type Evaluator struct {
	// MinWords is the minimum body length for a usable article.
	MinWords int
	// Signatures mark block/challenge pages when the text is short.
	Signatures []string
	// AlwaysBlocked phrases mark a block page at any length.
	AlwaysBlocked []string
	// BlockCheckMaxWords bounds the text length at which the signature
	// scan applies. Real articles mention "cloudflare" too; a genuine
	// block page is short, so longer texts only fail on AlwaysBlocked.
	BlockCheckMaxWords int
}

// Usable reports whether the attempt produced a readable article, and when
// it did not, a short reason for the diagnostics trace.
func (e Evaluator) Usable(outcome models.FetchOutcome, art *models.Article) (bool, string) {
	if outcome.Status != models.FetchSuccess {
		return false, string(outcome.Status)
	}
	if art == nil || art.Body == "" {
		return false, "extraction produced no content"
	}
	if art.WordCount < e.MinWords {
		return false, fmt.Sprintf("only %d words (minimum %d)", art.WordCount, e.MinWords)
	}
	if phrase := e.blockedPhrase(art.Body, art.WordCount); phrase != "" {
		return false, fmt.Sprintf("block page signature %q", phrase)
	}
	return true, ""
}

// blockedPhrase returns the matched signature, or "" when the text looks
// like genuine content. Origins serve challenge pages with HTTP 200, so a
// successful fetch alone proves nothing.
func (e Evaluator) blockedPhrase(body string, wordCount int) string {
	lower := strings.ToLower(body)

	for _, phrase := range e.AlwaysBlocked {
		if phrase != "" && strings.Contains(lower, strings.ToLower(phrase)) {
			return phrase
		}
	}

	ceiling := e.BlockCheckMaxWords
	if ceiling <= 0 {
		ceiling = defaultBlockCheckMaxWords
	}
	if wordCount > ceiling {
		return ""
	}
	for _, phrase := range e.Signatures {
		if phrase != "" && strings.Contains(lower, strings.ToLower(phrase)) {
			return phrase
		}
	}
	return ""
}
