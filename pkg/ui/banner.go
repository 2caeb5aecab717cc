// Package ui handles all terminal output for the crawler: banner, config
// display, and the leveled message helpers the rest of the code logs through.
package ui

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Version is the release version stamped at build time.
var Version = "0.3.0"

var (
	uiMu        sync.RWMutex
	silentMode  bool
	noColorMode bool
)

// SetSilent suppresses all non-result output.
func SetSilent(silent bool) {
	uiMu.Lock()
	defer uiMu.Unlock()
	silentMode = silent
}

// IsSilent returns whether silent mode is active.
func IsSilent() bool {
	uiMu.RLock()
	defer uiMu.RUnlock()
	return silentMode
}

// SetNoColor disables colored output.
func SetNoColor(noColor bool) {
	uiMu.Lock()
	defer uiMu.Unlock()
	noColorMode = noColor
	if noColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

const bannerArt = `
                   __
  ___  ____  ____/ /___ ___  ____ _____
 / _ \/ __ \/ __  / __ ` + "`" + `__ \/ __ ` + "`" + `/ __ \
/  __/ / / / /_/ / / / / / / /_/ / /_/ /
\___/_/ /_/\__,_/_/ /_/ /_/\__,_/ .___/
                               /_/
`

const bannerSeparator = "________________________________________________"

// PrintBanner prints the application banner with version info to stderr.
func PrintBanner() {
	if IsSilent() {
		return
	}
	for _, line := range strings.Split(bannerArt, "\n") {
		if line != "" {
			fmt.Fprintln(os.Stderr, BannerStyle.Render(line))
		}
	}
	fmt.Fprintf(os.Stderr, "                  v%s\n\n", VersionStyle.Render(Version))
}

// PrintSection prints a section header.
func PrintSection(title string) {
	if IsSilent() {
		return
	}
	fmt.Fprintln(os.Stderr, SectionStyle.Render(title))
	fmt.Fprintln(os.Stderr, MutedStyle.Render(bannerSeparator))
}

// PrintConfigLine prints a single aligned key/value configuration line.
func PrintConfigLine(key, value string) {
	if IsSilent() {
		return
	}
	fmt.Fprintf(os.Stderr, "  %s %s\n",
		ConfigLabelStyle.Render(key+":"),
		ConfigValueStyle.Render(value))
}

// PrintSuccess prints a success message to stderr.
func PrintSuccess(message string) {
	if IsSilent() {
		return
	}
	fmt.Fprintln(os.Stderr, SuccessStyle.Render("  [+] "+message))
}

// PrintError prints an error message to stderr. Not gated on silent mode;
// errors are always shown.
func PrintError(message string) {
	fmt.Fprintln(os.Stderr, ErrorStyle.Render("  [X] "+message))
}

// PrintWarning prints a warning message to stderr.
func PrintWarning(message string) {
	if IsSilent() {
		return
	}
	fmt.Fprintln(os.Stderr, WarningStyle.Render("  [!] "+message))
}

// PrintInfo prints an informational message to stderr.
func PrintInfo(message string) {
	if IsSilent() {
		return
	}
	fmt.Fprintf(os.Stderr, "  %s %s\n", InfoStyle.Render("*"), message)
}
