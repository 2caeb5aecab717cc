// Package endpoint defines the discovered-endpoint record and the
// collection helpers shared by the capture, form, and script pipelines.
package endpoint

import (
	"encoding/json"
	"sync"
)

// Endpoint is one discovered HTTP endpoint.
type Endpoint struct {
	URL          string            `json:"url"`
	Method       string            `json:"method"`
	BodyParams   map[string]any    `json:"body_params,omitempty"`
	ExtraHeaders map[string]string `json:"extra_headers,omitempty"`
}

// ParseBodyParams decodes a request body into a parameter map. Bodies that
// are not JSON objects are preserved under "raw_body" so nothing observed
// is lost.
func ParseBodyParams(body string) map[string]any {
	if body == "" {
		return nil
	}
	var params map[string]any
	if err := json.Unmarshal([]byte(body), &params); err == nil {
		return params
	}
	return map[string]any{"raw_body": body}
}

// Collector accumulates endpoints from multiple discovery sources. CDP
// network events arrive on the browser's event goroutine, so appends are
// guarded.
type Collector struct {
	mu        sync.Mutex
	endpoints []Endpoint
}

// Add appends an endpoint.
func (c *Collector) Add(e Endpoint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endpoints = append(c.endpoints, e)
}

// AddAll appends a batch of endpoints.
func (c *Collector) AddAll(es []Endpoint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endpoints = append(c.endpoints, es...)
}

// Snapshot returns a copy of everything collected so far.
func (c *Collector) Snapshot() []Endpoint {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Endpoint, len(c.endpoints))
	copy(out, c.endpoints)
	return out
}

// Len returns the number of collected endpoints.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.endpoints)
}
