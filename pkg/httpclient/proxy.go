package httpclient

import (
	"net/http"
	"net/url"
)

// proxyFunc parses raw into a proxy function, or returns nil if raw is not
// a usable proxy URL.
func proxyFunc(raw string) func(*http.Request) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil
	}
	return http.ProxyURL(u)
}
