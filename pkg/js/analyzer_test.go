package js

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/endmap/endmap/pkg/endpoint"
)

func urlsOf(endpoints []endpoint.Endpoint) []string {
	out := make([]string, 0, len(endpoints))
	for _, e := range endpoints {
		out = append(out, e.URL)
	}
	return out
}

func TestExtractQuotedPaths(t *testing.T) {
	source := `
		fetch("/api/v1/users");
		const profile = '/api/v1/profile';
		axios.get("https://example.com/api/v1/orders");
	`

	got := NewAnalyzer().Extract(source, "https://example.com/", "example.com")

	assert.Contains(t, urlsOf(got), "https://example.com/api/v1/users")
	assert.Contains(t, urlsOf(got), "https://example.com/api/v1/profile")
	assert.Contains(t, urlsOf(got), "https://example.com/api/v1/orders")
}

func TestExtractFileGlobalMethodInference(t *testing.T) {
	source := `
		client.post("/api/v1/users", payload);
		fetch("/api/v1/health");
	`

	got := NewAnalyzer().Extract(source, "https://example.com/", "example.com")
	require.NotEmpty(t, got)

	// One .post call anywhere labels every endpoint in the file.
	for _, e := range got {
		assert.Equal(t, "POST", e.Method)
	}
}

func TestExtractMethodPriority(t *testing.T) {
	a := NewAnalyzer()

	assert.Equal(t, "POST", a.inferMethod(`x.delete("/a"); x.post("/b")`))
	assert.Equal(t, "PUT", a.inferMethod(`x.put("/a"); x.delete("/b")`))
	assert.Equal(t, "DELETE", a.inferMethod(`fetch(u, {method: "DELETE"})`))
	assert.Equal(t, "GET", a.inferMethod(`fetch("/plain")`))
	assert.Equal(t, "POST", a.inferMethod(`fetch(u, {method: 'post'})`), "case-insensitive")
}

func TestExtractWindowInference(t *testing.T) {
	a := NewAnalyzer()
	a.WindowInference = true
	a.WindowSize = 40

	source := `fetch("/api/v1/health");` + pad(200) + `client.post("/api/v1/users", d);`

	got := a.Extract(source, "https://example.com/", "example.com")
	methods := map[string]string{}
	for _, e := range got {
		methods[e.URL] = e.Method
	}
	assert.Equal(t, "GET", methods["https://example.com/api/v1/health"])
	assert.Equal(t, "POST", methods["https://example.com/api/v1/users"])
}

func pad(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = ';'
	}
	return string(b)
}

func TestExtractRejectsOutOfScope(t *testing.T) {
	source := `
		fetch("https://thirdparty.net/api/track");
		fetch("/static/img/logo.png");
		var x = {a:1}||{b:2};
	`

	got := NewAnalyzer().Extract(source, "https://example.com/", "example.com")
	assert.Empty(t, got)
}

func TestExtractDeduplicates(t *testing.T) {
	source := `fetch("/api/v1/users"); fetch("/api/v1/users");`
	got := NewAnalyzer().Extract(source, "https://example.com/", "example.com")
	assert.Len(t, got, 1)
}

func TestExtractBadBaseURL(t *testing.T) {
	got := NewAnalyzer().Extract(`fetch("/api/v1/x")`, "://bad", "example.com")
	assert.Nil(t, got)
}

func TestFetcherSendsHeaders(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`fetch("/api/v1/users")`))
	}))
	defer srv.Close()

	f := NewFetcher(map[string]string{"Authorization": "Bearer tok"}, 100)
	body, err := f.Fetch(context.Background(), srv.URL+"/app.js")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Contains(t, body, "/api/v1/users")
}

func TestFetcherNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := NewFetcher(nil, 100).Fetch(context.Background(), srv.URL+"/missing.js")
	assert.Error(t, err)
}

func TestFetcherCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFetcher(nil, 0.001).Fetch(ctx, "http://127.0.0.1:1/app.js")
	assert.Error(t, err)
}
