// Package output provides console output formatting and colorization.
package output

import (
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Color schemes
var (
	ColorSuccess    = color.New(color.FgGreen)
	ColorError      = color.New(color.FgRed)
	ColorWarning    = color.New(color.FgYellow)
	ColorInfo       = color.New(color.FgCyan)
	ColorDebug      = color.New(color.FgWhite)
	ColorHeader     = color.New(color.Bold, color.FgCyan)
	ColorAnnotation = color.New(color.Bold, color.FgBlue)
)

// IsColorEnabled checks if color output should be enabled
func IsColorEnabled() bool {
	// Disable colors if not a TTY
	if !isTerminal(os.Stdout) {
		return false
	}

	// Check NO_COLOR environment variable
	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	// Check TERM environment variable
	t := os.Getenv("TERM")
	if t == "dumb" || t == "" {
		return false
	}

	return true
}

// isTerminal reports whether the writer is a real terminal rather than a
// pipe or file.
func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// DisableColors disables all color output
func DisableColors() {
	color.NoColor = true
}

// EnableColors enables color output
func EnableColors() {
	color.NoColor = false
}
