package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/endmap/endmap/pkg/cli"
	"github.com/endmap/endmap/pkg/config"
	"github.com/endmap/endmap/pkg/crawler"
	"github.com/endmap/endmap/pkg/duration"
	"github.com/endmap/endmap/pkg/headless"
	"github.com/endmap/endmap/pkg/input"
	"github.com/endmap/endmap/pkg/js"
	"github.com/endmap/endmap/pkg/report"
	"github.com/endmap/endmap/pkg/ui"
)

// runCrawl executes the endpoint discovery crawl.
func runCrawl() {
	flags := flag.NewFlagSet("crawl", flag.ExitOnError)

	seedURL := flags.String("u", "", "Seed URL")
	flags.StringVar(seedURL, "url", "", "Seed URL (alias)")
	maxPages := flags.Int("m", 0, "Maximum pages to visit")
	flags.IntVar(maxPages, "max-pages", 0, "Max pages (alias)")
	outputFile := flags.String("o", "", "Output file")
	flags.StringVar(outputFile, "output", "", "Output file (alias)")
	format := flags.String("f", "", "Output format: json, txt, csv")
	flags.StringVar(format, "format", "", "Format (alias)")
	var headerFlags input.StringSliceFlag
	flags.Var(&headerFlags, "header", "Extra header \"Key: Value\" (repeatable)")
	flags.Var(&headerFlags, "H", "Header (alias)")
	configFile := flags.String("config", "", "YAML config file")
	proxy := flags.String("proxy", "", "HTTP/SOCKS5 proxy URL")
	userAgent := flags.String("user-agent", "", "Custom User-Agent")
	headlessMode := flags.Bool("headless", true, "Run the browser headless")
	silent := flags.Bool("silent", false, "Suppress progress output")
	noColor := flags.Bool("no-color", false, "Disable colored output")

	flags.Parse(os.Args[2:])

	ui.SetSilent(*silent)
	if *noColor {
		ui.SetNoColor(true)
	}

	cfg := config.Default()
	if *configFile != "" {
		loaded, err := config.Load(*configFile)
		if err != nil {
			ui.PrintError(fmt.Sprintf("Config file: %v", err))
			os.Exit(1)
		}
		cfg = loaded
	}

	// Flags override the config file.
	if *seedURL != "" {
		cfg.SeedURL = *seedURL
	}
	if *maxPages > 0 {
		cfg.MaxPages = *maxPages
	}
	if *outputFile != "" {
		cfg.OutputFile = *outputFile
	}
	if *format != "" {
		cfg.Format = *format
	}
	if *proxy != "" {
		cfg.Proxy = *proxy
	}
	if *userAgent != "" {
		cfg.UserAgent = *userAgent
	}
	cfg.Headless = *headlessMode

	if cfg.SeedURL == "" {
		ui.PrintError("Seed URL is required. Use -u https://example.com")
		os.Exit(1)
	}
	seed, err := url.Parse(cfg.SeedURL)
	if err != nil || seed.Hostname() == "" || (seed.Scheme != "http" && seed.Scheme != "https") {
		ui.PrintError(fmt.Sprintf("Invalid seed URL %q", cfg.SeedURL))
		os.Exit(1)
	}

	// Malformed headers fail before anything touches the network.
	for _, raw := range headerFlags {
		key, value, err := config.ParseHeader(raw)
		if err != nil {
			ui.PrintError(err.Error())
			os.Exit(1)
		}
		cfg.Headers[key] = value
	}

	// The format must be resolvable before the crawl starts.
	outFormat := config.InferFormat(cfg.OutputFile, firstNonEmpty(cfg.Format, "json"))
	if !report.Supported(outFormat) {
		ui.PrintError(fmt.Sprintf("Unsupported output format %q (use json, txt, or csv)", outFormat))
		os.Exit(1)
	}

	sessionID := uuid.New().String()

	ui.PrintBanner()
	ui.PrintSection("Endpoint Discovery")
	ui.PrintConfigLine("Session", sessionID)
	ui.PrintConfigLine("Seed URL", cfg.SeedURL)
	ui.PrintConfigLine("Max Pages", fmt.Sprintf("%d", cfg.MaxPages))
	ui.PrintConfigLine("Output", fmt.Sprintf("%s (%s)", cfg.OutputFile, outFormat))
	ui.PrintConfigLine("Headless", fmt.Sprintf("%t", cfg.Headless))
	if cfg.Proxy != "" {
		ui.PrintConfigLine("Proxy", cfg.Proxy)
	}
	if len(cfg.Headers) > 0 {
		ui.PrintConfigLine("Headers", fmt.Sprintf("%d custom", len(cfg.Headers)))
	}

	sigCtx, sigCancel := cli.SignalContext(duration.ShutdownGrace)
	defer sigCancel()

	ctx, cancel := context.WithTimeout(sigCtx, duration.CrawlMax)
	defer cancel()

	progressFn := func(msg string) { ui.PrintInfo(msg) }

	browserOpts := headless.DefaultOptions()
	browserOpts.Headless = cfg.Headless
	browserOpts.Proxy = cfg.Proxy
	browserOpts.ExtraHeaders = cfg.Headers
	if cfg.UserAgent != "" {
		browserOpts.UserAgent = cfg.UserAgent
	}

	ui.PrintInfo("Launching browser...")
	session, err := headless.NewSession(ctx, browserOpts)
	if err != nil {
		ui.PrintError(fmt.Sprintf("Browser: %v", err))
		os.Exit(1)
	}
	defer session.Close()

	c, err := crawler.New(
		crawler.Config{SeedURL: cfg.SeedURL, MaxPages: cfg.MaxPages, ExtraHeaders: cfg.Headers},
		crawler.NewVisitor(session, seed.Hostname(), cfg.Headers, headless.FixedDelay{}, progressFn),
		js.NewFetcher(cfg.Headers, 2),
		js.NewAnalyzer(),
		progressFn,
	)
	if err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}

	start := time.Now()
	result, runErr := c.Run(ctx)
	if runErr != nil {
		if !interrupted(runErr) {
			ui.PrintError(fmt.Sprintf("Crawl: %v", runErr))
			os.Exit(1)
		}
		ui.PrintWarning("Crawl interrupted, writing partial results")
	}

	if err := report.WriteFile(cfg.OutputFile, result.Endpoints, outFormat); err != nil {
		ui.PrintError(fmt.Sprintf("Output: %v", err))
		os.Exit(1)
	}

	ui.PrintSection("Results")
	ui.PrintConfigLine("Pages Visited", fmt.Sprintf("%d", result.PagesVisited))
	ui.PrintConfigLine("Endpoints", fmt.Sprintf("%d", len(result.Endpoints)))
	ui.PrintConfigLine("Scripts", fmt.Sprintf("%d fetched, %d failed", result.ScriptsFetched, result.ScriptsFailed))
	ui.PrintConfigLine("Duration", time.Since(start).Round(time.Millisecond).String())

	for _, e := range result.Endpoints {
		ui.PrintInfo(fmt.Sprintf("%-6s %s", e.Method, e.URL))
	}

	ui.PrintSuccess(fmt.Sprintf("Results saved to %s", cfg.OutputFile))
}

// interrupted reports whether the crawl stopped early on a signal or the
// crawl deadline. Both leave partial results that still get written.
func interrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
