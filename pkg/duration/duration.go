// Package duration provides canonical time constants for the crawler.
// All fixed waits and timeouts live here so tuning happens in one place.
package duration

import "time"

// Browser waits. These are blind pauses, not completion signals: a request
// provoked by an interaction may still be in flight when the pause ends.
const (
	// PageDwell is the pause after navigating to a page, giving scripts
	// time to issue their initial requests.
	PageDwell = 2 * time.Second

	// InteractionSettle is the pause after clicking an element or
	// submitting a search input.
	InteractionSettle = 1 * time.Second

	// EventSettle is the shorter pause after typing into an element that
	// only carries change/input handlers.
	EventSettle = 500 * time.Millisecond

	// BrowserShutdown bounds browser cleanup before the process tree is
	// force-killed.
	BrowserShutdown = 5 * time.Second
)

// HTTP timeouts.
const (
	// ScriptFetch bounds the single GET used to download a discovered
	// script file for static analysis.
	ScriptFetch = 5 * time.Second

	// IdleConnTimeout is how long idle connections stay pooled.
	IdleConnTimeout = 90 * time.Second

	// TLSHandshake bounds the TLS handshake on script fetches.
	TLSHandshake = 10 * time.Second
)

// Operation timeouts.
const (
	// CrawlMax bounds an entire crawl run.
	CrawlMax = 30 * time.Minute

	// ShutdownGrace is how long a run gets to wind down after an
	// interrupt before a second signal hard-exits.
	ShutdownGrace = 30 * time.Second
)
