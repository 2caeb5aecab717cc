// Package headless drives a real Chrome instance over the DevTools
// protocol and turns what the browser does into endpoint candidates.
package headless

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/endmap/endmap/pkg/duration"
)

// Options configures the browser session.
type Options struct {
	Headless     bool
	Proxy        string
	UserAgent    string
	UserDataDir  string
	ExtraHeaders map[string]string
}

// DefaultOptions returns a headless session with a realistic user agent.
func DefaultOptions() Options {
	return Options{
		Headless:  true,
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	}
}

// Session is a live browser with network capture enabled. It is not safe
// for concurrent use; the crawl drives one page at a time.
type Session struct {
	ctx           context.Context
	cancelAlloc   context.CancelFunc
	cancelBrowser context.CancelFunc
}

// NewSession launches Chrome and enables network-domain events. Extra
// headers ride on every request the browser makes for the session's life.
func NewSession(parent context.Context, o Options) (*Session, error) {
	var opts []chromedp.ExecAllocatorOption

	if o.Headless {
		opts = append(opts, chromedp.DefaultExecAllocatorOptions[:]...)
		opts = append(opts,
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)
	} else {
		// DefaultExecAllocatorOptions[2] is chromedp.Headless; a visible
		// browser needs everything except that one.
		defaults := chromedp.DefaultExecAllocatorOptions[:]
		opts = make([]chromedp.ExecAllocatorOption, 0, len(defaults)+1)
		opts = append(opts, defaults[0], defaults[1])
		opts = append(opts, defaults[3:]...)
		opts = append(opts, chromedp.Flag("start-maximized", true))
	}

	opts = append(opts,
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-infobars", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("window-size", "1920,1080"),
	)

	if o.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(o.UserAgent))
	}
	if o.UserDataDir != "" {
		opts = append(opts, chromedp.UserDataDir(o.UserDataDir))
	}
	if o.Proxy != "" {
		opts = append(opts, chromedp.ProxyServer(o.Proxy))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	s := &Session{
		ctx:           browserCtx,
		cancelAlloc:   cancelAlloc,
		cancelBrowser: cancelBrowser,
	}

	err := chromedp.Run(browserCtx,
		network.Enable(),
		chromedp.ActionFunc(func(ctx context.Context) error {
			if len(o.ExtraHeaders) == 0 {
				return nil
			}
			headers := make(network.Headers, len(o.ExtraHeaders))
			for k, v := range o.ExtraHeaders {
				headers[k] = v
			}
			return network.SetExtraHTTPHeaders(headers).Do(ctx)
		}),
	)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("browser startup: %w", err)
	}

	return s, nil
}

// Context returns the browser context for event listeners and actions.
func (s *Session) Context() context.Context {
	return s.ctx
}

// Navigate loads url and waits for the document body.
func (s *Session) Navigate(url string) error {
	if err := chromedp.Run(s.ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
	); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	return nil
}

// Location returns the URL the browser ended up on after redirects.
func (s *Session) Location() (string, error) {
	var current string
	if err := chromedp.Run(s.ctx, chromedp.Location(&current)); err != nil {
		return "", fmt.Errorf("read location: %w", err)
	}
	return current, nil
}

// HTML returns the rendered document markup.
func (s *Session) HTML() (string, error) {
	var html string
	err := chromedp.Run(s.ctx,
		chromedp.Evaluate(`document.documentElement.outerHTML`, &html),
	)
	if err != nil {
		return "", fmt.Errorf("read page HTML: %w", err)
	}
	return html, nil
}

// Links returns the absolute href of every anchor on the current page.
func (s *Session) Links() ([]string, error) {
	var links []string
	err := chromedp.Run(s.ctx,
		chromedp.Evaluate(`Array.from(document.querySelectorAll('a[href]')).map(a => a.href)`, &links),
	)
	if err != nil {
		return nil, fmt.Errorf("collect links: %w", err)
	}
	return links, nil
}

// Sleep pauses on the browser context so cancellation still interrupts it.
func (s *Session) Sleep(d time.Duration) error {
	return chromedp.Run(s.ctx, chromedp.Sleep(d))
}

// Close shuts the browser down. Chrome child processes can block the
// graceful cancel indefinitely, so after BrowserShutdown the process tree
// is force-killed.
func (s *Session) Close() {
	var proc *os.Process
	if c := chromedp.FromContext(s.ctx); c != nil && c.Browser != nil {
		proc = c.Browser.Process()
	}

	done := make(chan struct{})
	go func() {
		s.cancelBrowser()
		s.cancelAlloc()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(duration.BrowserShutdown):
		if proc != nil {
			_ = proc.Kill()
		}
	}
}
