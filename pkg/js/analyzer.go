// Package js statically mines JavaScript source for endpoint candidates.
// Bundled frontend code routinely embeds API paths that never fire during
// a short crawl, so fetched scripts get a regex pass of their own.
package js

import (
	"net/url"
	"strings"

	"github.com/endmap/endmap/pkg/endpoint"
	"github.com/endmap/endmap/pkg/regexcache"
	"github.com/endmap/endmap/pkg/scope"
)

// urlPatterns match endpoint-looking strings in script source. The first
// catches bare URLs and multi-segment paths; the second catches the same
// shapes inside string literals, where minified code usually keeps them.
var urlPatterns = []string{
	`(?:https?://[^"'\s]+)|(?:/[^"'\s/][^"'\s]*?/[^"'\s/][^"'\s]*)`,
	`["'](?:(?:https?://[^"'\s]+)|(?:/[^"'\s/][^"'\s]*?/[^"'\s/][^"'\s]*))["']`,
}

// methodSignals map an HTTP method to the source fragments that suggest
// the script uses it. Checked in priority order.
var methodSignals = []struct {
	method   string
	patterns []string
}{
	{"POST", []string{`(?i)\.post\s*\(`, `(?i)method:\s*['"]POST['"]`}},
	{"PUT", []string{`(?i)\.put\s*\(`, `(?i)method:\s*['"]PUT['"]`}},
	{"DELETE", []string{`(?i)\.delete\s*\(`, `(?i)method:\s*['"]DELETE['"]`}},
}

// Analyzer extracts endpoints from JavaScript source.
type Analyzer struct {
	// WindowInference scopes method detection to a window of source
	// around each match instead of the whole file. Off by default: the
	// file-global heuristic over-labels, but a window can miss the call
	// site entirely in minified bundles.
	WindowInference bool
	WindowSize      int
}

// NewAnalyzer returns an analyzer with file-global method inference.
func NewAnalyzer() *Analyzer {
	return &Analyzer{WindowSize: 500}
}

// Extract mines source for endpoints, resolving relative paths against
// baseURL and keeping only what passes scope validation for domain.
func (a *Analyzer) Extract(source, baseURL, domain string) []endpoint.Endpoint {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}

	fileMethod := a.inferMethod(source)

	seen := make(map[string]struct{})
	var endpoints []endpoint.Endpoint
	for _, pattern := range urlPatterns {
		re, err := regexcache.Get(pattern)
		if err != nil {
			continue
		}
		for _, loc := range re.FindAllStringIndex(source, -1) {
			match := strings.Trim(source[loc[0]:loc[1]], `"'`)

			resolved := resolve(base, match)
			if resolved == "" {
				continue
			}
			if _, dup := seen[resolved]; dup {
				continue
			}
			if !scope.Allowed(resolved, domain) {
				continue
			}
			seen[resolved] = struct{}{}

			method := fileMethod
			if a.WindowInference {
				method = a.inferMethod(window(source, loc[0], a.WindowSize))
			}

			endpoints = append(endpoints, endpoint.Endpoint{
				URL:    resolved,
				Method: method,
			})
		}
	}
	return endpoints
}

func (a *Analyzer) inferMethod(source string) string {
	for _, sig := range methodSignals {
		for _, pattern := range sig.patterns {
			re, err := regexcache.Get(pattern)
			if err != nil {
				continue
			}
			if re.MatchString(source) {
				return sig.method
			}
		}
	}
	return "GET"
}

func resolve(base *url.URL, match string) string {
	if strings.HasPrefix(match, "http://") || strings.HasPrefix(match, "https://") {
		return match
	}
	ref, err := url.Parse(match)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

// window slices size bytes of source around pos without going out of range.
func window(source string, pos, size int) string {
	lo := pos - size/2
	if lo < 0 {
		lo = 0
	}
	hi := pos + size/2
	if hi > len(source) {
		hi = len(source)
	}
	return source[lo:hi]
}
