package scrape

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dop251/goja"
)

// challengeEvalCap bounds script evaluation. Genuine interstitial
// arithmetic finishes in microseconds; a script still running at the cap
// is a hostile page, not a challenge.
const challengeEvalCap = time.Second

// The legacy "I'm under attack" interstitial serves an HTML form plus an
// obfuscated arithmetic script; a real browser evaluates the script, waits
// a few seconds, and submits the result. The expressions are plain
// JavaScript, so goja evaluates them directly.

var (
	challengeFormRe  = regexp.MustCompile(`(?s)<form[^>]*id="challenge-form"[^>]*action="([^"]+)"`)
	challengeVcRe    = regexp.MustCompile(`name="jschl_vc"\s+value="([^"]+)"`)
	challengePassRe  = regexp.MustCompile(`name="pass"\s+value="([^"]+)"`)
	challengeInitRe  = regexp.MustCompile(`(\w+)=\{"(\w+)":([^}]+)\};`)
	challengeStepRe  = regexp.MustCompile(`(?m)^\s*\w+\.\w+\s*[+\-*/]=.+;`)
	challengeFinalRe = regexp.MustCompile(`a\.value\s*=\s*(.+?);`)
	challengeWaitRe  = regexp.MustCompile(`\},\s*(\d{3,5})\);`)
)

// isChallengePage reports whether the response is an anti-bot interstitial
// rather than content, regardless of HTTP status: challenges are served
// with 503, 403 and sometimes 200.
func isChallengePage(status int, body string) bool {
	if !strings.Contains(body, "jschl_vc") && !strings.Contains(body, "challenge-form") {
		return false
	}
	switch status {
	case 200, 403, 429, 503:
		return true
	}
	return false
}

// iuamChallenge holds the pieces needed to answer one interstitial.
type iuamChallenge struct {
	pageURL string
	action  string
	vc      string
	pass    string
	answer  string
	delay   time.Duration
}

// parseChallenge extracts the form fields and computes the arithmetic
// answer from the page script. ctx bounds script evaluation.
func parseChallenge(ctx context.Context, body, pageURL string) (*iuamChallenge, error) {
	vc := challengeVcRe.FindStringSubmatch(body)
	pass := challengePassRe.FindStringSubmatch(body)
	if vc == nil || pass == nil {
		return nil, fmt.Errorf("challenge form fields not found")
	}

	action := "/cdn-cgi/l/chk_jschl"
	if m := challengeFormRe.FindStringSubmatch(body); m != nil {
		action = m[1]
	}

	parsed, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse challenge page URL: %w", err)
	}

	answer, err := solveArithmetic(ctx, body, parsed.Host)
	if err != nil {
		return nil, err
	}

	c := &iuamChallenge{
		pageURL: pageURL,
		action:  action,
		vc:      vc[1],
		pass:    pass[1],
		answer:  answer,
	}
	if m := challengeWaitRe.FindStringSubmatch(body); m != nil {
		if ms, err := strconv.Atoi(m[1]); err == nil {
			c.delay = time.Duration(ms) * time.Millisecond
		}
	}
	return c, nil
}

// answerURL builds the submission URL carrying the solved answer.
func (c *iuamChallenge) answerURL() (string, error) {
	base, err := url.Parse(c.pageURL)
	if err != nil {
		return "", err
	}
	action, err := url.Parse(c.action)
	if err != nil {
		return "", err
	}
	u := base.ResolveReference(action)
	q := u.Query()
	q.Set("jschl_vc", c.vc)
	q.Set("pass", c.pass)
	q.Set("jschl_answer", c.answer)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// solveArithmetic rebuilds the challenge computation: the seed object, the
// compound-assignment steps, and the final value, which adds the host length
// when the script references t.length. The script is page content and must
// not be trusted to terminate, so evaluation is interrupted when ctx is
// cancelled or the cap elapses.
func solveArithmetic(ctx context.Context, body, host string) (string, error) {
	seed := challengeInitRe.FindStringSubmatch(body)
	if seed == nil {
		return "", fmt.Errorf("challenge seed expression not found")
	}
	obj, key := seed[1], seed[2]

	var program strings.Builder
	fmt.Fprintf(&program, "var %s={%q:%s};\n", obj, key, seed[3])
	for _, step := range challengeStepRe.FindAllString(body, -1) {
		program.WriteString(strings.TrimSpace(step))
		program.WriteString("\n")
	}
	fmt.Fprintf(&program, "%s.%s;", obj, key)

	vm := goja.New()
	evalCtx, cancel := context.WithTimeout(ctx, challengeEvalCap)
	defer cancel()
	evalDone := make(chan struct{})
	go func() {
		select {
		case <-evalCtx.Done():
			vm.Interrupt("challenge script interrupted")
		case <-evalDone:
		}
	}()
	value, err := vm.RunString(program.String())
	close(evalDone)
	if err != nil {
		return "", fmt.Errorf("evaluate challenge script: %w", err)
	}

	answer := value.ToFloat()
	if final := challengeFinalRe.FindStringSubmatch(body); final != nil && strings.Contains(final[1], "t.length") {
		answer += float64(len(host))
	}
	return strconv.FormatFloat(answer, 'f', 10, 64), nil
}
