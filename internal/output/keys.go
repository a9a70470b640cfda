package output

import (
	"bytes"
	"io"
)

// Key is a navigation action read from the keyboard.
type Key int

const (
	KeyNone Key = iota
	KeyDown
	KeyUp
	KeyPageDown
	KeyPageUp
	KeyTop
	KeyQuit
)

// ParseKey maps one read from a raw-mode terminal to a Key. Vim keys, arrow
// keys and Ctrl+C are understood; anything else is KeyNone.
func ParseKey(b []byte) Key {
	switch {
	case bytes.Equal(b, []byte("\x1b[B")):
		return KeyDown
	case bytes.Equal(b, []byte("\x1b[A")):
		return KeyUp
	case bytes.Equal(b, []byte("\x1b[6~")):
		return KeyPageDown
	case bytes.Equal(b, []byte("\x1b[5~")):
		return KeyPageUp
	case len(b) != 1:
		return KeyNone
	}

	switch b[0] {
	case 'j':
		return KeyDown
	case 'k':
		return KeyUp
	case ' ', 'f':
		return KeyPageDown
	case 'b':
		return KeyPageUp
	case 'g':
		return KeyTop
	case 'q', 0x03:
		return KeyQuit
	default:
		return KeyNone
	}
}

// ReadKeys reads key presses from r and sends them to keys until r returns
// an error. Reads block, so callers run this in its own goroutine and stop
// listening on keys rather than waiting for it to return.
func ReadKeys(r io.Reader, keys chan<- Key) error {
	buf := make([]byte, 8)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if k := ParseKey(buf[:n]); k != KeyNone {
				keys <- k
			}
		}
		if err != nil {
			return err
		}
	}
}

// CRLFWriter translates "\n" to "\r\n". A terminal in raw mode does not
// return the carriage on a bare newline.
type CRLFWriter struct {
	W io.Writer
}

func (c CRLFWriter) Write(p []byte) (int, error) {
	if _, err := c.W.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}
