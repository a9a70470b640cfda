package versionlog

import (
	"strconv"
	"strings"
	"time"
)

// shortHashLen is the number of hash characters shown when an entry has no tag.
const shortHashLen = 9

// LogEntry is one historical version of a component.
// Date holds milliseconds since the Unix epoch encoded as a decimal string,
// the way version-control log records carry it. Entries are never mutated
// once produced by a source.
type LogEntry struct {
	Hash     string `yaml:"hash" json:"hash"`
	Tag      string `yaml:"tag,omitempty" json:"tag,omitempty"`
	Date     string `yaml:"date,omitempty" json:"date,omitempty"`
	Message  string `yaml:"message,omitempty" json:"message,omitempty"`
	Username string `yaml:"username,omitempty" json:"username,omitempty"`
	Email    string `yaml:"email,omitempty" json:"email,omitempty"`
}

// LogList is an ordered sequence of entries, newest first as provided by the
// source of truth. Nothing in this package sorts or reorders a LogList.
type LogList []LogEntry

// Time parses Date. ok is false when Date is empty or not an integer.
func (e LogEntry) Time() (t time.Time, ok bool) {
	if e.Date == "" {
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(strings.TrimSpace(e.Date), 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}

// ShortHash returns the abbreviated hash.
func (e LogEntry) ShortHash() string {
	if len(e.Hash) <= shortHashLen {
		return e.Hash
	}
	return e.Hash[:shortHashLen]
}

// Label returns the tag when present, otherwise the short hash.
func (e LogEntry) Label() string {
	if e.Tag != "" {
		return e.Tag
	}
	return e.ShortHash()
}

// Is reports whether id names this entry by its tag or its full hash.
// An empty id never matches.
func (e LogEntry) Is(id string) bool {
	if id == "" {
		return false
	}
	return (e.Tag != "" && e.Tag == id) || e.Hash == id
}

// Hashes returns the hashes of the list in order.
func (l LogList) Hashes() []string {
	hashes := make([]string, len(l))
	for i, e := range l {
		hashes[i] = e.Hash
	}
	return hashes
}

// Labels returns the display labels of the list in order.
func (l LogList) Labels() []string {
	labels := make([]string, len(l))
	for i, e := range l {
		labels[i] = e.Label()
	}
	return labels
}

// FormatMillis encodes t the way LogEntry.Date expects it.
func FormatMillis(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}
