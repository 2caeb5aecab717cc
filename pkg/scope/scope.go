// Package scope decides whether a discovered URL belongs to the crawl.
//
// Browser-driven discovery surfaces a lot of junk: third-party analytics
// calls, static assets, and fragments of minified JavaScript that regex
// extraction mistook for paths. The validator fails closed; anything it
// cannot positively accept is rejected.
package scope

import (
	"net/url"
	"strings"

	"github.com/endmap/endmap/pkg/regexcache"
)

// pathPattern accepts the URL path shapes an endpoint map cares about.
const pathPattern = `^/[a-zA-Z0-9\-_/]*$`

// queryValuePattern limits query values to a conservative charset.
const queryValuePattern = `^[a-zA-Z0-9=&%_]*$`

// maxQueryValueLen rejects oversized query values, usually encoded blobs.
const maxQueryValueLen = 100

// assetExtensions are static-asset suffixes that are never endpoints.
var assetExtensions = []string{
	".css", ".js", ".ico", ".png", ".jpg", ".jpeg", ".gif", ".svg",
	".woff", ".woff2", ".ttf", ".eot", ".map", ".txt", ".xml", ".pdf",
}

// codeLeakPatterns match fragments of JavaScript source that leak into
// regex-extracted URLs from minified bundles.
var codeLeakPatterns = []string{
	`function\(`,
	`\}\}`,
	`\|\|`,
	`\(\s*\)`,
	`\[.*\]`,
	`\{.*\}`,
	`==`,
	`\?\d+:e=`,
	`\bvar\b`,
	`\bif\b`,
	`\belse\b`,
	`#\\|\?\$\|`,
	`,Pt=function`,
}

// Allowed reports whether raw is an in-scope, plausible HTTP endpoint for
// domain. It never panics; malformed input is simply rejected.
func Allowed(raw, domain string) bool {
	if raw == "" || domain == "" {
		return false
	}

	u, err := url.Parse(raw)
	if err != nil {
		return false
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}

	if !strings.Contains(u.Hostname(), domain) {
		return false
	}

	if !pathAllowed(u.Path) {
		return false
	}

	if hasAssetExtension(u.Path) {
		return false
	}

	if leaksCode(raw) {
		return false
	}

	return queryAllowed(u.Query())
}

// AllowedScript reports whether raw is a same-domain script URL worth
// fetching for static analysis. Scripts are assets, so the endpoint rules
// for extensions and path shape do not apply here.
func AllowedScript(raw, domain string) bool {
	if raw == "" || domain == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return strings.Contains(u.Hostname(), domain)
}

func pathAllowed(path string) bool {
	if path == "" || path == "/" {
		return true
	}
	re, err := regexcache.Get(pathPattern)
	if err != nil {
		return false
	}
	return re.MatchString(path)
}

func hasAssetExtension(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range assetExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func leaksCode(raw string) bool {
	lower := strings.ToLower(raw)
	for _, pattern := range codeLeakPatterns {
		re, err := regexcache.Get(pattern)
		if err != nil {
			continue
		}
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

func queryAllowed(values url.Values) bool {
	re, err := regexcache.Get(queryValuePattern)
	if err != nil {
		return false
	}
	for _, vs := range values {
		for _, v := range vs {
			if len(v) > maxQueryValueLen {
				return false
			}
			if !re.MatchString(v) {
				return false
			}
		}
	}
	return true
}
