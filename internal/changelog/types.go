package changelog

import (
	"fmt"

	"github.com/ariel-frischer/snaplog/internal/compare"
)

// Output formats.
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
)

// ValidFormats returns the supported output formats in display order.
func ValidFormats() []string {
	return []string{FormatText, FormatMarkdown, FormatJSON, FormatYAML}
}

// IsValidFormat reports whether format names a supported output format.
func IsValidFormat(format string) bool {
	for _, f := range ValidFormats() {
		if f == format {
			return true
		}
	}
	return false
}

// Report is what gets rendered: the blocks of one comparison and the
// endpoints the user asked for. Base and Compare are both empty when the
// report lists a whole history rather than a range.
type Report struct {
	ComponentID string          `json:"componentId,omitempty" yaml:"componentId,omitempty"`
	Base        string          `json:"base,omitempty" yaml:"base,omitempty"`
	Compare     string          `json:"compare,omitempty" yaml:"compare,omitempty"`
	Blocks      []compare.Block `json:"blocks" yaml:"blocks"`
}

// IsRange reports whether the report covers a base..compare range.
func (r Report) IsRange() bool {
	return r.Base != "" || r.Compare != ""
}

// Summary returns a one-line description of the report's size.
func (r Report) Summary() string {
	n := len(r.Blocks)
	if !r.IsRange() {
		return pluralize(n, "version")
	}
	if n == 0 {
		return fmt.Sprintf("No versions between %s and %s", r.Base, r.Compare)
	}
	return fmt.Sprintf("%s between %s and %s", pluralize(n, "version"), r.Base, r.Compare)
}

// Counts returns how many blocks are tagged releases and how many are plain commits.
func (r Report) Counts() (tagged, untagged int) {
	for _, b := range r.Blocks {
		if b.Entry.Tag != "" {
			tagged++
		} else {
			untagged++
		}
	}
	return tagged, untagged
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
