// Copyright 2025 meilikit Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package consoleutil provides colored console output for meilictl:
// status lines, tables and ANSI helpers that degrade to plain text when
// the output is not a terminal.
package consoleutil

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"

	"golang.org/x/term"
)

// ANSI color codes for text foreground
const (
	FgRed     = "\033[31m"
	FgGreen   = "\033[32m"
	FgYellow  = "\033[33m"
	FgBlue    = "\033[34m"
	FgMagenta = "\033[35m"
	FgCyan    = "\033[36m"
	FgDefault = "\033[39m"

	FgBrightBlack = "\033[90m"
)

// ANSI format codes
const (
	Bold      = "\033[1m"
	Dim       = "\033[2m"
	Underline = "\033[4m"
	Reset     = "\033[0m"
)

// ColorMode controls whether colors are emitted.
type ColorMode string

const (
	// ColorAuto enables colors when stdout is a terminal
	ColorAuto ColorMode = "auto"
	// ColorAlways forces colors on
	ColorAlways ColorMode = "always"
	// ColorNever forces colors off
	ColorNever ColorMode = "never"
)

var (
	colorMu     sync.Mutex
	colorMode   = ColorAuto
	colorCached *bool

	// ANSI escape sequence pattern for stripping
	ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)
)

// SetColorMode overrides automatic color detection. Unknown modes mean auto.
func SetColorMode(mode ColorMode) {
	colorMu.Lock()
	defer colorMu.Unlock()

	switch mode {
	case ColorAlways, ColorNever:
		colorMode = mode
	default:
		colorMode = ColorAuto
	}
	colorCached = nil
}

// SetForceColor forces color output on or off.
func SetForceColor(force bool) {
	if force {
		SetColorMode(ColorAlways)
		return
	}
	SetColorMode(ColorNever)
}

// IsColorSupported returns whether ANSI colors should be written to stdout.
// The auto-detected result is cached.
func IsColorSupported() bool {
	colorMu.Lock()
	defer colorMu.Unlock()

	switch colorMode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}

	if colorCached == nil {
		supported := detectColor(os.Stdout)
		colorCached = &supported
	}
	return *colorCached
}

// detectColor honours NO_COLOR and TERM=dumb, then requires a terminal
func detectColor(file *os.File) bool {
	if os.Getenv("NO_COLOR") != "" || strings.ToLower(os.Getenv("TERM")) == "dumb" {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

// ColorText applies a foreground color to the provided text and resets color at the end.
func ColorText(text, color string) string {
	if !IsColorSupported() {
		return text
	}
	return color + text + Reset
}

// ColorTextf formats and colorizes text with a foreground color.
func ColorTextf(color string, format string, args ...interface{}) string {
	return ColorText(fmt.Sprintf(format, args...), color)
}

// Format applies multiple formatting options to text.
// Example: Format("Important", Bold, FgRed)
func Format(text string, formats ...string) string {
	if !IsColorSupported() {
		return text
	}
	return strings.Join(formats, "") + text + Reset
}

// StripANSI removes ANSI escape sequences from a string
func StripANSI(str string) string {
	return ansiPattern.ReplaceAllString(str, "")
}

// VisibleWidth returns the printed width of str, ignoring escape sequences.
func VisibleWidth(str string) int {
	return len([]rune(StripANSI(str)))
}
