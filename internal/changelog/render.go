package changelog

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ariel-frischer/snaplog/internal/compare"
	"gopkg.in/yaml.v3"
)

// Render writes r in the given format. Text output honors opts; the other
// formats are never colored.
func Render(r Report, format string, w io.Writer, opts FormatOptions) error {
	switch format {
	case FormatText, "":
		return FormatTerminal(r, w, opts)
	case FormatMarkdown:
		return RenderMarkdown(r, w)
	case FormatJSON:
		return RenderJSON(r, w)
	case FormatYAML:
		return RenderYAML(r, w)
	default:
		return fmt.Errorf("unsupported output format %q (valid: %s)", format, strings.Join(ValidFormats(), ", "))
	}
}

// RenderMarkdown writes one "## label - date" section per block followed by
// the summary in italics.
//
// The function is idempotent - given the same input, it produces identical output.
func RenderMarkdown(r Report, w io.Writer) error {
	if err := renderHeader(r, w); err != nil {
		return fmt.Errorf("rendering header: %w", err)
	}

	for _, b := range r.Blocks {
		if err := renderBlock(b, w); err != nil {
			return fmt.Errorf("rendering %s: %w", b.Entry.Label(), err)
		}
	}

	_, err := fmt.Fprintf(w, "_%s_\n", r.Summary())
	return err
}

// renderHeader writes the document title.
func renderHeader(r Report, w io.Writer) error {
	subject := "Changelog"
	if r.ComponentID != "" {
		subject = "Changelog for " + r.ComponentID
	}
	title := "# " + subject
	if r.IsRange() {
		title = fmt.Sprintf("# %s (%s...%s)", subject, r.Base, r.Compare)
	}
	_, err := fmt.Fprintf(w, "%s\n\n", title)
	return err
}

// renderBlock writes a single block section.
func renderBlock(b compare.Block, w io.Writer) error {
	header := "## " + b.Entry.Label()
	if t, ok := b.Entry.Time(); ok {
		header += " - " + t.UTC().Format("2006-01-02")
	}
	for _, badge := range badges(b) {
		header += " `" + badge.name + "`"
	}
	if _, err := fmt.Fprintf(w, "%s\n\n", header); err != nil {
		return err
	}

	if b.Entry.Message != "" {
		if _, err := fmt.Fprintf(w, "- %s\n", b.Entry.Message); err != nil {
			return err
		}
	}
	if author := formatAuthor(b); author != "" {
		if _, err := fmt.Fprintf(w, "- Author: %s\n", author); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "- Commit: `%s`\n\n", b.Entry.ShortHash())
	return err
}

// document is the machine-readable shape shared by JSON and YAML output.
type document struct {
	Report  `yaml:",inline"`
	Count   int    `json:"count" yaml:"count"`
	Summary string `json:"summary" yaml:"summary"`
}

func newDocument(r Report) document {
	if r.Blocks == nil {
		r.Blocks = []compare.Block{}
	}
	return document{Report: r, Count: len(r.Blocks), Summary: r.Summary()}
}

// RenderJSON writes the report as an indented JSON document.
func RenderJSON(r Report, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(newDocument(r)); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}

// RenderYAML writes the report as a YAML document.
func RenderYAML(r Report, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(newDocument(r)); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}
