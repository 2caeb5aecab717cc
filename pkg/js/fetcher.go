package js

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/endmap/endmap/pkg/httpclient"
)

// maxScriptSize caps how much of a script body is read. Bundles beyond
// this rarely add endpoints that the first chunk did not.
const maxScriptSize = 10 << 20

// Fetcher downloads script bodies for analysis. Downloads are throttled
// so the script phase does not hammer the target after a polite crawl.
type Fetcher struct {
	client  *http.Client
	limiter *rate.Limiter
	headers map[string]string
}

// NewFetcher builds a fetcher that sends headers on every request and
// allows at most rps downloads per second.
func NewFetcher(headers map[string]string, rps float64) *Fetcher {
	if rps <= 0 {
		rps = 2
	}
	return &Fetcher{
		client:  httpclient.Default(),
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		headers: headers,
	}
}

// Fetch downloads one script body.
func (f *Fetcher) Fetch(ctx context.Context, scriptURL string) (string, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, scriptURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", scriptURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: status %d", scriptURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxScriptSize))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", scriptURL, err)
	}
	return string(body), nil
}
