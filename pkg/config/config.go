// Package config holds crawl configuration and its YAML file loader.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrBadHeader is returned for header flags that are not "Key: Value".
var ErrBadHeader = errors.New("invalid header")

// Config is the full crawl configuration, assembled from defaults, an
// optional YAML file, and command-line flags (flags win).
type Config struct {
	SeedURL    string            `yaml:"seed_url"`
	MaxPages   int               `yaml:"max_pages"`
	OutputFile string            `yaml:"output"`
	Format     string            `yaml:"format"`
	Headless   bool              `yaml:"headless"`
	Headers    map[string]string `yaml:"headers"`
	Proxy      string            `yaml:"proxy"`
	UserAgent  string            `yaml:"user_agent"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		MaxPages:   10,
		OutputFile: "endpoints.json",
		Headless:   true,
		Headers:    map[string]string{},
	}
}

// Load reads a YAML config file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Headers == nil {
		cfg.Headers = map[string]string{}
	}
	return cfg, nil
}

// ParseHeader splits a "Key: Value" header flag. Whitespace around both
// sides is trimmed. Malformed input is an error so a typo'd header fails
// the run before the crawl starts instead of silently weakening it.
func ParseHeader(raw string) (key, value string, err error) {
	idx := strings.Index(raw, ":")
	if idx < 0 {
		return "", "", fmt.Errorf("%w %q: expected \"Key: Value\"", ErrBadHeader, raw)
	}
	key = strings.TrimSpace(raw[:idx])
	value = strings.TrimSpace(raw[idx+1:])
	if key == "" {
		return "", "", fmt.Errorf("%w %q: empty name", ErrBadHeader, raw)
	}
	return key, value, nil
}

// InferFormat picks the output format from the file extension, falling back
// to flagFormat when the extension is not recognized.
func InferFormat(outputFile, flagFormat string) string {
	lower := strings.ToLower(outputFile)
	switch {
	case strings.HasSuffix(lower, ".json"):
		return "json"
	case strings.HasSuffix(lower, ".txt"):
		return "txt"
	case strings.HasSuffix(lower, ".csv"):
		return "csv"
	}
	return flagFormat
}
