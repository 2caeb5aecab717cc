package scope

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowed(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		domain string
		want   bool
	}{
		{"plain page", "https://example.com/about", "example.com", true},
		{"root path", "https://example.com/", "example.com", true},
		{"empty path", "https://example.com", "example.com", true},
		{"nested path", "https://example.com/api/v1/users", "example.com", true},
		{"subdomain contains domain", "https://app.example.com/login", "example.com", true},
		{"out of domain", "https://evil.com/login", "example.com", false},
		{"ftp scheme", "ftp://example.com/files", "example.com", false},
		{"relative path only", "/api/users", "example.com", false},
		{"css asset", "https://example.com/style.css", "example.com", false},
		{"js asset", "https://example.com/bundle.js", "example.com", false},
		{"png asset", "https://example.com/logo.png", "example.com", false},
		{"uppercase asset extension", "https://example.com/LOGO.PNG", "example.com", false},
		{"sitemap xml", "https://example.com/sitemap.xml", "example.com", false},
		{"path with dot segment", "https://example.com/v1.2/users", "example.com", false},
		{"path with space", "https://example.com/a b", "example.com", false},
		{"simple query", "https://example.com/search?q=test", "example.com", true},
		{"query with percent", "https://example.com/search?q=a%20b", "example.com", false},
		{"query bad charset", "https://example.com/search?q=<script>", "example.com", false},
		{"minified function fragment", "https://example.com/a||b", "example.com", false},
		{"object literal fragment", "https://example.com/path?x={a:1}", "example.com", false},
		{"double equals", "https://example.com/x==y", "example.com", false},
		{"var keyword", "https://example.com/var/thing", "example.com", false},
		{"empty url", "", "example.com", false},
		{"empty domain", "https://example.com/", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Allowed(tt.url, tt.domain))
		})
	}
}

func TestAllowedLongQueryValue(t *testing.T) {
	long := "https://example.com/search?q=" + strings.Repeat("a", 101)
	assert.False(t, Allowed(long, "example.com"))

	ok := "https://example.com/search?q=" + strings.Repeat("a", 100)
	assert.True(t, Allowed(ok, "example.com"))
}

func TestAllowedScript(t *testing.T) {
	assert.True(t, Allowed("https://example.com/app", "example.com"))
	assert.True(t, AllowedScript("https://example.com/static/app.js", "example.com"))
	assert.True(t, AllowedScript("https://cdn.example.com/bundle.js?v=3", "example.com"))
	assert.False(t, AllowedScript("https://cdn.thirdparty.net/lib.js", "example.com"))
	assert.False(t, AllowedScript("", "example.com"))
}

func TestAllowedNeverPanics(t *testing.T) {
	inputs := []string{
		"", "://", "http://", "https://[::1]:namedport/",
		"%zz", "https://example.com/%zz", string([]byte{0x7f, 0x00}),
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() { Allowed(in, "example.com") })
	}
}
