package crawler

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// ExtractLinks parses rendered page markup for anchor hrefs, resolved
// against base. The browser's own link collection sees only what the DOM
// holds at drain time; parsing the HTML again is cheap and catches markup
// the page scripts rewrote since. Only anchors feed the frontier: form
// actions are modeled as endpoints, not navigated to.
func ExtractLinks(htmlStr, base string) []string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil
	}

	seen := make(map[string]struct{})
	var links []string
	add := func(raw string) {
		raw = strings.TrimSpace(raw)
		if raw == "" || raw == "#" || strings.HasPrefix(raw, "javascript:") ||
			strings.HasPrefix(raw, "mailto:") || strings.HasPrefix(raw, "data:") {
			return
		}
		ref, err := url.Parse(raw)
		if err != nil {
			return
		}
		resolved := baseURL.ResolveReference(ref)
		resolved.Fragment = ""
		s := resolved.String()
		if _, dup := seen[s]; dup {
			return
		}
		seen[s] = struct{}{}
		links = append(links, s)
	}

	z := html.NewTokenizer(strings.NewReader(htmlStr))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return links
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		t := z.Token()
		if t.DataAtom.String() == "a" {
			add(getAttr(t, "href"))
		}
	}
}

func getAttr(t html.Token, name string) string {
	for _, a := range t.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}
