package headless

import (
	"strings"
	"sync"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/endmap/endmap/pkg/endpoint"
	"github.com/endmap/endmap/pkg/scope"
)

// RawRequest is one request observed on the wire before any filtering.
type RawRequest struct {
	URL      string
	Method   string
	Headers  map[string]string
	PostData string
}

// transportHeaders are set by the browser itself on every request and
// carry no application signal, so they are stripped from captures.
var transportHeaders = map[string]struct{}{
	"host":            {},
	"connection":      {},
	"user-agent":      {},
	"accept":          {},
	"accept-encoding": {},
	"accept-language": {},
	"content-length":  {},
	"content-type":    {},
	"origin":          {},
	"referer":         {},
	"sec-fetch-site":  {},
	"sec-fetch-mode":  {},
	"sec-fetch-dest":  {},
}

// Recorder accumulates network requests from CDP events. Events arrive on
// chromedp's event goroutine, hence the lock.
type Recorder struct {
	mu       sync.Mutex
	requests []RawRequest
}

// NewRecorder attaches a Recorder to the session's event stream.
func NewRecorder(s *Session) *Recorder {
	r := &Recorder{}
	chromedp.ListenTarget(s.Context(), func(ev interface{}) {
		if e, ok := ev.(*network.EventRequestWillBeSent); ok {
			r.record(e)
		}
	})
	return r
}

func (r *Recorder) record(e *network.EventRequestWillBeSent) {
	req := RawRequest{
		URL:     e.Request.URL,
		Method:  e.Request.Method,
		Headers: make(map[string]string, len(e.Request.Headers)),
	}

	for k, v := range e.Request.Headers {
		if str, ok := v.(string); ok {
			req.Headers[k] = str
		}
	}

	if e.Request.HasPostData && len(e.Request.PostDataEntries) > 0 {
		var parts []string
		for _, entry := range e.Request.PostDataEntries {
			if entry.Bytes != "" {
				parts = append(parts, entry.Bytes)
			}
		}
		req.PostData = strings.Join(parts, "")
	}

	r.mu.Lock()
	r.requests = append(r.requests, req)
	r.mu.Unlock()
}

// Drain returns everything captured since the last call and resets the
// buffer, so each page's traffic is processed exactly once.
func (r *Recorder) Drain() []RawRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.requests
	r.requests = nil
	return out
}

// ProcessRequests turns raw captures into endpoints. JavaScript fetches
// are not endpoints themselves but their source can reveal more, so their
// URLs come back separately for the script analysis phase. Requests that
// fail validation are dropped.
func ProcessRequests(raw []RawRequest, domain string) (endpoints []endpoint.Endpoint, scripts []string) {
	for _, req := range raw {
		if isScriptURL(req.URL) {
			if scope.AllowedScript(req.URL, domain) {
				scripts = append(scripts, req.URL)
			}
			continue
		}
		if !scope.Allowed(req.URL, domain) {
			continue
		}
		endpoints = append(endpoints, endpoint.Endpoint{
			URL:          req.URL,
			Method:       strings.ToUpper(req.Method),
			BodyParams:   endpoint.ParseBodyParams(req.PostData),
			ExtraHeaders: stripTransportHeaders(req.Headers),
		})
	}
	return endpoints, scripts
}

func isScriptURL(raw string) bool {
	base := raw
	if i := strings.IndexAny(base, "?#"); i >= 0 {
		base = base[:i]
	}
	return strings.HasSuffix(strings.ToLower(base), ".js")
}

func stripTransportHeaders(headers map[string]string) map[string]string {
	out := make(map[string]string)
	for k, v := range headers {
		if _, drop := transportHeaders[strings.ToLower(k)]; drop {
			continue
		}
		if strings.HasPrefix(k, ":") {
			continue
		}
		out[k] = v
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
