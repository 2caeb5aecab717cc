package endpoint

import "github.com/endmap/endmap/pkg/scope"

// Dedupe collapses endpoints by URL, keeping the first occurrence of each,
// and drops anything that no longer passes scope validation. Discovery
// sources overlap heavily (a form submission is often also captured as a
// network request), so this runs once before results are written.
func Dedupe(endpoints []Endpoint, domain string) []Endpoint {
	seen := make(map[string]struct{}, len(endpoints))
	out := make([]Endpoint, 0, len(endpoints))
	for _, e := range endpoints {
		if _, ok := seen[e.URL]; ok {
			continue
		}
		if !scope.Allowed(e.URL, domain) {
			continue
		}
		seen[e.URL] = struct{}{}
		out = append(out, e)
	}
	return out
}
