// Package httpclient provides a shared, tuned HTTP client factory so that
// connection pools are reused instead of recreated per request.
package httpclient

import (
	"crypto/tls"
	"net/http"
	"time"

	"github.com/endmap/endmap/pkg/duration"
)

// Config controls client construction.
type Config struct {
	Timeout             time.Duration
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	MaxConnsPerHost     int
	InsecureSkipVerify  bool
	FollowRedirects     bool
	ProxyURL            string
}

// DefaultConfig returns settings suitable for fetching discovered scripts.
func DefaultConfig() Config {
	return Config{
		Timeout:             duration.ScriptFetch,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		MaxConnsPerHost:     50,
		InsecureSkipVerify:  true,
		FollowRedirects:     true,
	}
}

// New builds an *http.Client from cfg.
func New(cfg Config) *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		MaxConnsPerHost:     cfg.MaxConnsPerHost,
		IdleConnTimeout:     duration.IdleConnTimeout,
		TLSHandshakeTimeout: duration.TLSHandshake,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: cfg.InsecureSkipVerify,
		},
	}

	if cfg.ProxyURL != "" {
		if proxyFn := proxyFunc(cfg.ProxyURL); proxyFn != nil {
			transport.Proxy = proxyFn
		}
	}

	client := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: transport,
	}

	if !cfg.FollowRedirects {
		client.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	return client
}

// Default returns a client with DefaultConfig settings.
func Default() *http.Client {
	return New(DefaultConfig())
}
