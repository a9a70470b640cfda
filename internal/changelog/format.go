package changelog

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ariel-frischer/snaplog/internal/compare"
	"github.com/ariel-frischer/snaplog/internal/output"
	"github.com/fatih/color"
)

// dateLayout is how entry timestamps are shown. Dates are rendered in UTC.
const dateLayout = "2006-01-02 15:04"

// BadgeStyle defines the color and icon for a block badge.
type BadgeStyle struct {
	Color *color.Color
	Icon  string
}

var (
	currentBadge = BadgeStyle{Color: color.New(color.FgGreen, color.Bold), Icon: "●"}
	latestBadge  = BadgeStyle{Color: color.New(color.FgMagenta, color.Bold), Icon: "★"}

	tagColor     = color.New(color.FgYellow, color.Bold)
	hashColor    = color.New(color.FgCyan)
	dimColor     = color.New(color.Faint)
	summaryColor = color.New(color.FgBlue)
)

// FormatOptions controls the terminal output formatting.
type FormatOptions struct {
	Plain    bool // Disable colors and icons
	MaxWidth int  // Maximum line width (0 = auto-detect)
}

// FormatTerminal writes the report's blocks to w with terminal styling,
// followed by the summary line.
func FormatTerminal(r Report, w io.Writer, opts FormatOptions) error {
	width := resolveWidth(opts.MaxWidth)

	for i, b := range r.Blocks {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := writeBlock(b, w, opts, width); err != nil {
			return fmt.Errorf("formatting %s: %w", b.Entry.Label(), err)
		}
	}

	if len(r.Blocks) > 0 {
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return writeSummary(r, w, opts)
}

// FormatBlocks writes blocks without a summary. The watch panel uses it to
// draw only the visible part of a report.
func FormatBlocks(blocks []compare.Block, w io.Writer, opts FormatOptions) error {
	width := resolveWidth(opts.MaxWidth)
	for i, b := range blocks {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := writeBlock(b, w, opts, width); err != nil {
			return err
		}
	}
	return nil
}

// writeBlock writes the header, author and message lines of one block.
func writeBlock(b compare.Block, w io.Writer, opts FormatOptions, width int) error {
	if _, err := fmt.Fprintln(w, blockHeader(b, opts)); err != nil {
		return err
	}

	if author := formatAuthor(b); author != "" {
		if _, err := fmt.Fprintf(w, "  %s\n", paint(dimColor, author, opts)); err != nil {
			return err
		}
	}

	if b.Entry.Message != "" {
		const indent = "  "
		text := wrapText(b.Entry.Message, width-len(indent), indent)
		if _, err := fmt.Fprintf(w, "%s%s\n", indent, text); err != nil {
			return err
		}
	}
	return nil
}

// blockHeader builds "● v1.2.0  c3c3c3c3c  2025-03-01 15:00  [current] [latest]".
func blockHeader(b compare.Block, opts FormatOptions) string {
	var sb strings.Builder

	marker := "*"
	if !opts.Plain {
		marker = "●"
	}
	sb.WriteString(marker)
	sb.WriteString(" ")

	if b.Entry.Tag != "" {
		sb.WriteString(paint(tagColor, b.Entry.Tag, opts))
		sb.WriteString("  ")
	}
	sb.WriteString(paint(hashColor, b.Entry.ShortHash(), opts))
	sb.WriteString("  ")
	sb.WriteString(formatDate(b.Entry.Time()))

	for _, badge := range badges(b) {
		sb.WriteString("  ")
		sb.WriteString(formatBadge(badge.name, badge.style, opts))
	}
	return sb.String()
}

type namedBadge struct {
	name  string
	style BadgeStyle
}

func badges(b compare.Block) []namedBadge {
	var out []namedBadge
	if b.IsCurrent {
		out = append(out, namedBadge{"current", currentBadge})
	}
	if b.IsLatest {
		out = append(out, namedBadge{"latest", latestBadge})
	}
	return out
}

func formatBadge(name string, style BadgeStyle, opts FormatOptions) string {
	if opts.Plain {
		return "[" + name + "]"
	}
	return style.Color.Sprintf("%s %s", style.Icon, name)
}

func formatAuthor(b compare.Block) string {
	switch {
	case b.Entry.Username != "" && b.Entry.Email != "":
		return fmt.Sprintf("%s <%s>", b.Entry.Username, b.Entry.Email)
	case b.Entry.Username != "":
		return b.Entry.Username
	default:
		return b.Entry.Email
	}
}

func formatDate(t time.Time, ok bool) string {
	if !ok {
		return "unknown date"
	}
	return t.UTC().Format(dateLayout)
}

// writeSummary writes the footer line.
func writeSummary(r Report, w io.Writer, opts FormatOptions) error {
	summary := r.Summary()
	if r.ComponentID != "" {
		summary = fmt.Sprintf("%s: %s", r.ComponentID, summary)
	}
	_, err := fmt.Fprintln(w, paint(summaryColor, summary, opts))
	return err
}

func paint(c *color.Color, s string, opts FormatOptions) string {
	if opts.Plain {
		return s
	}
	return c.Sprint(s)
}

// resolveWidth determines the terminal width to use.
func resolveWidth(maxWidth int) int {
	if maxWidth > 0 {
		return maxWidth
	}
	return output.GetTerminalWidth()
}

// wrapText wraps text to fit within maxWidth, using indent for continuation lines.
// Width is counted in runes; words longer than maxWidth are split.
func wrapText(text string, maxWidth int, indent string) string {
	remaining := []rune(text)
	if maxWidth <= 0 || len(remaining) <= maxWidth {
		return text
	}

	var lines []string
	for len(remaining) > maxWidth {
		breakPoint := maxWidth
		for i := maxWidth - 1; i > 0; i-- {
			if remaining[i] == ' ' {
				breakPoint = i
				break
			}
		}

		lines = append(lines, string(remaining[:breakPoint]))
		remaining = []rune(strings.TrimLeft(string(remaining[breakPoint:]), " "))
	}

	if len(remaining) > 0 {
		lines = append(lines, string(remaining))
	}

	return strings.Join(lines, "\n"+indent)
}
