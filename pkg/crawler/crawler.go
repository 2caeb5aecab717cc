// Package crawler runs the page-by-page discovery loop and owns the
// frontier, the visited set, and the script queue.
package crawler

import (
	"context"
	"fmt"
	"net/url"
	"sort"

	"github.com/endmap/endmap/pkg/endpoint"
	"github.com/endmap/endmap/pkg/scope"
)

// Page is everything one browser visit produced.
type Page struct {
	FinalURL  string
	HTML      string
	Links     []string
	Endpoints []endpoint.Endpoint
	Scripts   []string
}

// Browser drives one page at a time. The crawl is sequential; Visit is
// never called concurrently.
type Browser interface {
	Visit(ctx context.Context, pageURL string) (*Page, error)
}

// ScriptFetcher downloads script bodies for the post-crawl analysis phase.
type ScriptFetcher interface {
	Fetch(ctx context.Context, scriptURL string) (string, error)
}

// ScriptAnalyzer mines script source for endpoints.
type ScriptAnalyzer interface {
	Extract(source, baseURL, domain string) []endpoint.Endpoint
}

// Config controls a crawl.
type Config struct {
	SeedURL  string
	MaxPages int

	// ExtraHeaders are the user's custom headers, stamped onto endpoints
	// derived from static script analysis.
	ExtraHeaders map[string]string
}

// Result is the full outcome of a crawl.
type Result struct {
	Endpoints      []endpoint.Endpoint
	PagesVisited   int
	ScriptsFetched int
	ScriptsFailed  int
}

// Crawler walks a site breadth-first through a real browser.
type Crawler struct {
	cfg      Config
	domain   string
	browser  Browser
	fetcher  ScriptFetcher
	analyzer ScriptAnalyzer
	progress func(string)

	visited    map[string]struct{}
	inFrontier map[string]struct{}
	frontier   []string
	scripts    map[string]struct{}
	collector  *endpoint.Collector

	scriptsFetched int
	scriptsFailed  int
}

// New builds a crawler for cfg. The target domain is the seed's hostname.
func New(cfg Config, browser Browser, fetcher ScriptFetcher, analyzer ScriptAnalyzer, progressFn func(string)) (*Crawler, error) {
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 10
	}
	seed, err := url.Parse(cfg.SeedURL)
	if err != nil {
		return nil, fmt.Errorf("invalid seed URL: %w", err)
	}
	if seed.Scheme != "http" && seed.Scheme != "https" {
		return nil, fmt.Errorf("seed URL must be http or https, got %q", cfg.SeedURL)
	}
	if seed.Hostname() == "" {
		return nil, fmt.Errorf("seed URL %q has no host", cfg.SeedURL)
	}

	return &Crawler{
		cfg:        cfg,
		domain:     seed.Hostname(),
		browser:    browser,
		fetcher:    fetcher,
		analyzer:   analyzer,
		progress:   progressFn,
		visited:    make(map[string]struct{}),
		inFrontier: make(map[string]struct{}),
		scripts:    make(map[string]struct{}),
		collector:  &endpoint.Collector{},
	}, nil
}

// Domain returns the crawl's target domain.
func (c *Crawler) Domain() string {
	return c.domain
}

// Run crawls from the seed until the frontier empties, the page cap is
// reached, or ctx is cancelled, then fetches and analyzes every script
// the crawl surfaced. Endpoints come back deduplicated.
func (c *Crawler) Run(ctx context.Context) (*Result, error) {
	c.enqueue(c.cfg.SeedURL)

	for len(c.frontier) > 0 && len(c.visited) < c.cfg.MaxPages {
		if err := ctx.Err(); err != nil {
			break
		}

		pageURL := c.frontier[0]
		c.frontier = c.frontier[1:]
		delete(c.inFrontier, pageURL)
		// Marked visited before the attempt so a failing URL is never
		// retried; the attempt spends page budget either way.
		c.visited[pageURL] = struct{}{}

		c.report(fmt.Sprintf("Visiting [%d/%d] %s", len(c.visited), c.cfg.MaxPages, pageURL))

		page, err := c.browser.Visit(ctx, pageURL)
		if err != nil {
			c.report(fmt.Sprintf("Page failed, skipping %s: %v", pageURL, err))
			continue
		}
		c.absorb(page)
	}

	c.analyzeScripts(ctx)

	result := &Result{
		Endpoints:      endpoint.Dedupe(c.collector.Snapshot(), c.domain),
		PagesVisited:   len(c.visited),
		ScriptsFetched: c.scriptsFetched,
		ScriptsFailed:  c.scriptsFailed,
	}
	return result, ctx.Err()
}

// absorb folds one page's findings into the crawl state.
func (c *Crawler) absorb(page *Page) {
	// Captured traffic goes in first: the navigation request usually
	// appears there with its retained headers, and first-wins dedup must
	// prefer that record over the bare page entry below.
	c.collector.AddAll(page.Endpoints)
	if scope.Allowed(page.FinalURL, c.domain) {
		c.collector.Add(endpoint.Endpoint{URL: page.FinalURL, Method: "GET"})
	}

	for _, s := range page.Scripts {
		c.scripts[s] = struct{}{}
	}

	links := append([]string{}, page.Links...)
	links = append(links, ExtractLinks(page.HTML, page.FinalURL)...)
	for _, link := range links {
		c.enqueue(link)
	}
}

// enqueue adds a URL to the frontier unless it is out of scope, already
// visited, or already queued.
func (c *Crawler) enqueue(raw string) {
	if !scope.Allowed(raw, c.domain) {
		return
	}
	if _, ok := c.visited[raw]; ok {
		return
	}
	if _, ok := c.inFrontier[raw]; ok {
		return
	}
	c.inFrontier[raw] = struct{}{}
	c.frontier = append(c.frontier, raw)
}

// analyzeScripts downloads each discovered script and mines it. A script
// that fails to download is logged and skipped.
func (c *Crawler) analyzeScripts(ctx context.Context) {
	if c.fetcher == nil || c.analyzer == nil || len(c.scripts) == 0 {
		return
	}

	urls := make([]string, 0, len(c.scripts))
	for s := range c.scripts {
		urls = append(urls, s)
	}
	sort.Strings(urls)

	c.report(fmt.Sprintf("Analyzing %d scripts", len(urls)))

	for _, scriptURL := range urls {
		if ctx.Err() != nil {
			return
		}
		source, err := c.fetcher.Fetch(ctx, scriptURL)
		if err != nil {
			c.scriptsFailed++
			c.report(fmt.Sprintf("Script fetch failed, skipping %s: %v", scriptURL, err))
			continue
		}
		c.scriptsFetched++
		found := c.analyzer.Extract(source, c.cfg.SeedURL, c.domain)
		if len(c.cfg.ExtraHeaders) > 0 {
			for i := range found {
				found[i].ExtraHeaders = c.cfg.ExtraHeaders
			}
		}
		c.collector.AddAll(found)
		if len(found) > 0 {
			c.report(fmt.Sprintf("Found %d endpoints in %s", len(found), scriptURL))
		}
	}
}

func (c *Crawler) report(msg string) {
	if c.progress != nil {
		c.progress(msg)
	}
}
