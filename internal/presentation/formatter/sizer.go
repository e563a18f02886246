package formatter

import (
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// displayWidth is the terminal cell width of s.
func displayWidth(s string) int {
	return runewidth.StringWidth(s)
}

// padString pads s to width cells.
func padString(s string, width int, leftAlign bool) string {
	actual := displayWidth(s)
	if actual >= width {
		return s
	}
	padding := strings.Repeat(" ", width-actual)
	if leftAlign {
		return s + padding
	}
	return padding + s
}

// truncate shortens s to width cells, marking the cut with "…".
func truncate(s string, width int) string {
	if displayWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// terminalWidth returns the width of the terminal behind f, or 0 when f is
// not a terminal.
func terminalWidth(f *os.File) int {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return width
}
