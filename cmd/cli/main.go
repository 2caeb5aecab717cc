// Command endmap maps the HTTP endpoints of a web application by driving
// a real browser through it and watching what the application requests.
package main

import (
	"fmt"
	"os"

	"github.com/endmap/endmap/pkg/ui"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "crawl":
		runCrawl()
	case "analyze", "js":
		runAnalyze()
	case "-h", "--help", "help":
		printUsage()
		os.Exit(0)
	case "-v", "--version", "version":
		ui.PrintBanner()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprint(os.Stderr, `endmap - browser-driven endpoint discovery

Usage:
  endmap crawl -u <url> [options]     Crawl a site and map its endpoints
  endmap analyze -u <url> [options]   Analyze a single JavaScript file
  endmap version                      Show version
  endmap help                         Show this help

Crawl options:
  -u, -url        Seed URL (required)
  -m, -max-pages  Maximum pages to visit (default 10)
  -o, -output     Output file (default endpoints.json)
  -f, -format     Output format: json, txt, csv (inferred from -o extension)
  -header         Extra header "Key: Value" (repeatable)
  -config         YAML config file
  -proxy          HTTP/SOCKS5 proxy for browser traffic
  -user-agent     Custom User-Agent
  -headless       Run the browser headless (default true)
  -silent         Suppress progress output
  -no-color       Disable colored output

Examples:
  endmap crawl -u https://example.com
  endmap crawl -u https://example.com -m 25 -o endpoints.csv
  endmap crawl -u https://example.com -header "Authorization: Bearer TOKEN"
  endmap analyze -u https://example.com/static/app.js
`)
}
