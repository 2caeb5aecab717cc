package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 10, cfg.MaxPages)
	assert.Equal(t, "endpoints.json", cfg.OutputFile)
	assert.True(t, cfg.Headless)
	assert.NotNil(t, cfg.Headers)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "endmap.yaml")
	content := `
seed_url: https://example.com
max_pages: 25
output: out.csv
headers:
  Authorization: Bearer abc123
  X-Test: "1"
proxy: http://127.0.0.1:8080
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", cfg.SeedURL)
	assert.Equal(t, 25, cfg.MaxPages)
	assert.Equal(t, "out.csv", cfg.OutputFile)
	assert.Equal(t, "Bearer abc123", cfg.Headers["Authorization"])
	assert.Equal(t, "http://127.0.0.1:8080", cfg.Proxy)
	assert.True(t, cfg.Headless, "unset fields keep defaults")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadBadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_pages: [not an int"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestParseHeader(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		key     string
		value   string
		wantErr bool
	}{
		{"simple", "Authorization: Bearer tok", "Authorization", "Bearer tok", false},
		{"no space", "X-Key:value", "X-Key", "value", false},
		{"extra whitespace", "  Cookie :  a=b  ", "Cookie", "a=b", false},
		{"value with colon", "Referer: https://example.com/", "Referer", "https://example.com/", false},
		{"empty value", "X-Empty:", "X-Empty", "", false},
		{"no colon", "NotAHeader", "", "", true},
		{"empty name", ": value", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, v, err := ParseHeader(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrBadHeader)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.key, k)
			assert.Equal(t, tt.value, v)
		})
	}
}

func TestInferFormat(t *testing.T) {
	assert.Equal(t, "json", InferFormat("endpoints.json", "txt"))
	assert.Equal(t, "txt", InferFormat("out.TXT", "json"))
	assert.Equal(t, "csv", InferFormat("report.csv", "json"))
	assert.Equal(t, "json", InferFormat("results.dat", "json"))
	assert.Equal(t, "yaml", InferFormat("results", "yaml"), "unknown flag format passed through for later rejection")
}
