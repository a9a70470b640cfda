// Package output provides terminal output formatting utilities for the snaplog CLI.
// This package is designed to have minimal dependencies to avoid import cycles.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Escape sequences that move the cursor to the top-left corner and clear
// the screen. Redrawing from there puts the reader back at the anchor.
const (
	cursorHome  = "\033[H"
	clearScreen = "\033[2J"
)

// GetTerminalWidth returns the terminal width, defaulting to 80 if unavailable.
func GetTerminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// GetTerminalHeight returns the terminal height, defaulting to 24 if unavailable.
func GetTerminalHeight() int {
	if _, height, err := term.GetSize(int(os.Stdout.Fd())); err == nil && height > 0 {
		return height
	}
	return 24
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// ResetToAnchor clears the screen and moves the cursor to the top so the
// next frame is drawn from the first line.
func ResetToAnchor(out io.Writer) {
	fmt.Fprint(out, cursorHome+clearScreen)
}

// PrintPanelHeader prints the title bar of the watch panel followed by a
// dim separator sized to the terminal.
func PrintPanelHeader(out io.Writer, title, status string) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	fmt.Fprintf(out, "%s %s\n", cyan(title), dim(status))
	fmt.Fprintln(out, dim(strings.Repeat("─", min(GetTerminalWidth(), 80))))
}

// PrintPanelFooter prints the summary and key hints under the watch panel.
func PrintPanelFooter(out io.Writer, summary, hint string) {
	magenta := color.New(color.FgMagenta).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	fmt.Fprintf(out, "\n%s\n%s\n", magenta(summary), dim(hint))
}

// PrintSuccess prints a green checkmark followed by message.
func PrintSuccess(out io.Writer, message string) {
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", green("✓"), cyan(message))
}

// PrintWarning prints a yellow warning line.
func PrintWarning(out io.Writer, message string) {
	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", yellow("⚠"), message)
}
