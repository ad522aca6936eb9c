package util

import (
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// IsTTY returns true if stdout is a terminal.
func IsTTY() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// InitColor configures color output based on flags and terminal detection.
// Actions job logs render ANSI colour, so they count as a terminal.
func InitColor(noColor bool) {
	if noColor || (!IsTTY() && os.Getenv("GITHUB_ACTIONS") != "true") {
		color.NoColor = true
	}
}
