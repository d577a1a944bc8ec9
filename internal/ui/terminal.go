package ui

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// ShouldUseColor reports whether ANSI colors should be written to stdout.
func ShouldUseColor() bool {
	return shouldUseColor(os.Stdout)
}

// shouldUseColor honors NO_COLOR (https://no-color.org), then
// CLICOLOR_FORCE=1, then CLICOLOR=0, and otherwise checks whether f is a
// terminal.
func shouldUseColor(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if strings.TrimSpace(os.Getenv("CLICOLOR_FORCE")) == "1" {
		return true
	}
	if strings.TrimSpace(os.Getenv("CLICOLOR")) == "0" {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
