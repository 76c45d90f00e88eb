// Package urlutil holds the small URL helpers shared by the CLI, the
// search client, and the article cache.
package urlutil

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidateURL rejects anything the retrieval strategies cannot fetch:
// unparseable input, non-http(s) schemes, and URLs with no host.
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	switch {
	case err != nil:
		return fmt.Errorf("invalid URL: %w", err)
	case u.Scheme != "http" && u.Scheme != "https":
		return fmt.Errorf("unsupported URL scheme %q (want http or https)", u.Scheme)
	case u.Host == "":
		return fmt.Errorf("URL %q has no host", raw)
	}
	return nil
}

// Domain returns the hostname without port or www. prefix, or "" when the
// URL does not parse. Used as the display source for articles.
func Domain(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

// Resolve makes href absolute relative to base. Hrefs that are already
// absolute, or that do not parse, come back unchanged.
func Resolve(base, href string) string {
	h, err := url.Parse(href)
	if err != nil || h.IsAbs() {
		return href
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	return b.ResolveReference(h).String()
}

// Canonical normalizes a URL for cache identity: the fragment is dropped
// and a bare root path collapses to the host. Query strings are kept, since
// they routinely select the article.
func Canonical(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.Fragment = ""
	if u.Path == "/" && u.RawQuery == "" {
		u.Path = ""
	}
	return u.String()
}
