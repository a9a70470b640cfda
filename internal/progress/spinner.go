package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
)

const spinnerDelay = 100 * time.Millisecond

// Spinner wraps briandowns/spinner. On anything but a terminal it prints
// nothing at all, so piped output and tests stay clean.
type Spinner struct {
	s       *spinner.Spinner
	out     io.Writer
	symbols ProgressSymbols
	enabled bool
}

// NewSpinner creates a spinner writing to out.
func NewSpinner(out io.Writer, caps TerminalCapabilities) *Spinner {
	symbols := SelectSymbols(caps)
	sp := &Spinner{out: out, symbols: symbols, enabled: caps.IsTTY}
	if sp.enabled {
		sp.s = spinner.New(spinner.CharSets[symbols.SpinnerSet], spinnerDelay, spinner.WithWriter(out))
		if caps.SupportsColor {
			// Color only fails for unknown names.
			_ = sp.s.Color("cyan")
		}
	}
	return sp
}

// Start shows the spinner with message.
func (sp *Spinner) Start(message string) {
	if !sp.enabled {
		return
	}
	sp.s.Suffix = " " + message
	sp.s.Start()
}

// Stop hides the spinner. A non-empty message is printed as the final line,
// marked with a checkmark or failure symbol.
func (sp *Spinner) Stop(message string, ok bool) {
	if !sp.enabled {
		return
	}
	if message != "" {
		symbol := sp.symbols.Checkmark
		if !ok {
			symbol = sp.symbols.Failure
		}
		sp.s.FinalMSG = fmt.Sprintf("%s %s\n", symbol, message)
	}
	sp.s.Stop()
}

// Active reports whether the spinner is animating.
func (sp *Spinner) Active() bool {
	return sp.enabled && sp.s.Active()
}
