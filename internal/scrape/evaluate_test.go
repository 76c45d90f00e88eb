package scrape

import (
	"strings"
	"testing"

	"github.com/newshound/newshound/pkg/models"
)

func successWithBody(words int, extra string) (models.FetchOutcome, *models.Article) {
	body := strings.TrimSpace(strings.Repeat("word ", words) + extra)
	out := models.FetchOutcome{Strategy: models.StrategyDirectFetch, Status: models.FetchSuccess, HTTPStatus: 200}
	art := &models.Article{Body: body, WordCount: models.CountWords(body)}
	return out, art
}

func TestEvaluatorAcceptsArticle(t *testing.T) {
	e := testEvaluator()
	out, art := successWithBody(150, "")

	usable, reason := e.Usable(out, art)
	if !usable {
		t.Fatalf("expected usable, got reason %q", reason)
	}
}

func TestEvaluatorRejectsNonSuccess(t *testing.T) {
	e := testEvaluator()
	out := models.FetchOutcome{Status: models.FetchBlocked}

	usable, reason := e.Usable(out, nil)
	if usable || reason != string(models.FetchBlocked) {
		t.Errorf("usable=%v reason=%q", usable, reason)
	}
}

func TestEvaluatorRejectsEmptyExtraction(t *testing.T) {
	e := testEvaluator()
	out := models.FetchOutcome{Status: models.FetchSuccess}

	if usable, _ := e.Usable(out, nil); usable {
		t.Error("nil article reported usable")
	}
	if usable, _ := e.Usable(out, &models.Article{}); usable {
		t.Error("empty article reported usable")
	}
}

func TestEvaluatorRejectsThinText(t *testing.T) {
	e := testEvaluator()
	out, art := successWithBody(10, "")

	usable, reason := e.Usable(out, art)
	if usable {
		t.Fatal("thin text reported usable")
	}
	if !strings.Contains(reason, "minimum 40") {
		t.Errorf("reason = %q", reason)
	}
}

func TestEvaluatorBlockSignatureOnShortText(t *testing.T) {
	e := testEvaluator()
	out, art := successWithBody(50, " Attention Required! Please stand by.")

	usable, reason := e.Usable(out, art)
	if usable {
		t.Fatal("short block page reported usable")
	}
	if !strings.Contains(reason, "block page signature") {
		t.Errorf("reason = %q", reason)
	}
}

func TestEvaluatorSignatureIgnoredOnLongText(t *testing.T) {
	// A long article that merely mentions the vendor is genuine content.
	e := testEvaluator()
	out, art := successWithBody(300, " The outage was traced to a Cloudflare misconfiguration.")

	if usable, reason := e.Usable(out, art); !usable {
		t.Errorf("long article rejected: %q", reason)
	}
}

func TestEvaluatorBlockCheckCeilingConfigurable(t *testing.T) {
	// Raising the ceiling widens the signature scan to longer texts.
	e := testEvaluator()
	e.BlockCheckMaxWords = 500
	out, art := successWithBody(300, " The outage was traced to a Cloudflare misconfiguration.")

	if usable, _ := e.Usable(out, art); usable {
		t.Error("signature ignored below the configured ceiling")
	}
}

func TestEvaluatorAlwaysBlockedPhrase(t *testing.T) {
	e := testEvaluator()
	out, art := successWithBody(300, " Checking if the site connection is secure.")

	if usable, _ := e.Usable(out, art); usable {
		t.Error("hard block phrase accepted on long text")
	}
}

func TestEvaluatorCaseInsensitive(t *testing.T) {
	e := testEvaluator()
	out, art := successWithBody(50, " ACCESS DENIED")

	if usable, _ := e.Usable(out, art); usable {
		t.Error("uppercase signature not matched")
	}
}
