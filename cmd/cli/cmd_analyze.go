package main

import (
	"context"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/endmap/endmap/pkg/cli"
	"github.com/endmap/endmap/pkg/config"
	"github.com/endmap/endmap/pkg/duration"
	"github.com/endmap/endmap/pkg/input"
	"github.com/endmap/endmap/pkg/js"
	"github.com/endmap/endmap/pkg/report"
	"github.com/endmap/endmap/pkg/ui"
)

// runAnalyze mines a single JavaScript file for endpoints, without a
// browser. The file can be a URL or a local path.
func runAnalyze() {
	flags := flag.NewFlagSet("analyze", flag.ExitOnError)

	target := flags.String("u", "", "Script URL or local file path")
	flags.StringVar(target, "url", "", "Script URL (alias)")
	base := flags.String("base", "", "Base URL for resolving relative paths (default: the script URL)")
	domain := flags.String("domain", "", "Target domain for scope filtering (default: the base URL's host)")
	var headerFlags input.StringSliceFlag
	flags.Var(&headerFlags, "header", "Extra header \"Key: Value\" (repeatable)")
	outputFile := flags.String("o", "", "Output file (default: print to stdout)")
	silent := flags.Bool("silent", false, "Suppress progress output")
	noColor := flags.Bool("no-color", false, "Disable colored output")

	flags.Parse(os.Args[2:])

	ui.SetSilent(*silent)
	if *noColor {
		ui.SetNoColor(true)
	}

	if *target == "" {
		ui.PrintError("Script is required. Use -u https://example.com/app.js or -u ./app.js")
		os.Exit(1)
	}

	headers := make(map[string]string)
	for _, raw := range headerFlags {
		key, value, err := config.ParseHeader(raw)
		if err != nil {
			ui.PrintError(err.Error())
			os.Exit(1)
		}
		headers[key] = value
	}

	ctx, cancel := cli.SignalContext(duration.ShutdownGrace)
	defer cancel()

	source, baseURL, err := loadScript(ctx, *target, headers)
	if err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}
	if *base != "" {
		baseURL = *base
	}
	if baseURL == "" {
		ui.PrintError("Local files need -base to resolve relative paths, e.g. -base https://example.com/")
		os.Exit(1)
	}

	scopeDomain := *domain
	if scopeDomain == "" {
		if u, err := url.Parse(baseURL); err == nil {
			scopeDomain = u.Hostname()
		}
	}
	if scopeDomain == "" {
		ui.PrintError("Cannot determine target domain; pass -domain and -base for local files")
		os.Exit(1)
	}

	ui.PrintSection("Script Analysis")
	ui.PrintConfigLine("Script", *target)
	ui.PrintConfigLine("Domain", scopeDomain)

	endpoints := js.NewAnalyzer().Extract(source, baseURL, scopeDomain)

	if *outputFile != "" {
		format := "json"
		if strings.HasSuffix(strings.ToLower(*outputFile), ".txt") {
			format = "txt"
		} else if strings.HasSuffix(strings.ToLower(*outputFile), ".csv") {
			format = "csv"
		}
		if err := report.WriteFile(*outputFile, endpoints, format); err != nil {
			ui.PrintError(fmt.Sprintf("Output: %v", err))
			os.Exit(1)
		}
		ui.PrintSuccess(fmt.Sprintf("Results saved to %s", *outputFile))
		return
	}

	for _, e := range endpoints {
		fmt.Printf("%-6s %s\n", e.Method, e.URL)
	}
	ui.PrintSuccess(fmt.Sprintf("%d endpoints found", len(endpoints)))
}

// loadScript reads the script from a URL or the filesystem. The returned
// base URL anchors relative path resolution.
func loadScript(ctx context.Context, target string, headers map[string]string) (source, baseURL string, err error) {
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		body, err := js.NewFetcher(headers, 2).Fetch(ctx, target)
		if err != nil {
			return "", "", err
		}
		return body, target, nil
	}

	data, err := os.ReadFile(target)
	if err != nil {
		return "", "", fmt.Errorf("read script: %w", err)
	}
	return string(data), "", nil
}
